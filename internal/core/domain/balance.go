package domain

// Balance is a client's aggregate financial position.
type Balance struct {
	ClientID    string  `json:"client_id"`
	Due         float64 `json:"due"`
	Paid        float64 `json:"paid"`
	Outstanding float64 `json:"outstanding"`
	Settled     bool    `json:"settled"`
}

// PaymentStatus filters client listings by balance.
type PaymentStatus string

const (
	PaymentStatusAny    PaymentStatus = ""
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusUnpaid PaymentStatus = "unpaid"
)

// ClientSort orders client listings.
type ClientSort string

const (
	SortSurnameAsc  ClientSort = "surname_asc"
	SortSurnameDesc ClientSort = "surname_desc"
	SortRatingDesc  ClientSort = "rating_desc"
	SortRatingAsc   ClientSort = "rating_asc"
)

// ClientFilter narrows a client listing. Zero values match everything.
type ClientFilter struct {
	Name          string
	Status        ClientStatus
	MinRating     int
	PaymentStatus PaymentStatus
	Sort          ClientSort
}

// ClientSummary is one row of the client listing.
type ClientSummary struct {
	Client     Client
	Dependents int
	Balance    Balance
}
