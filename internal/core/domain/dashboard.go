package domain

// QuoteConversion counts decided quotes separately from the open ones.
// Rate is approved / (approved + rejected); Decided is false when no quote
// has been decided yet and Rate is then zero.
type QuoteConversion struct {
	Approved int     `json:"approved"`
	Rejected int     `json:"rejected"`
	Sent     int     `json:"sent"`
	Rate     float64 `json:"rate"`
	Decided  bool    `json:"decided"`
}

// RankedEntry is one line of a top-N ranking.
type RankedEntry struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type DashboardKPIs struct {
	ActiveClients          int             `json:"active_clients"`
	ActiveSlots            int             `json:"active_slots"`
	MonthlyEnrollments     int             `json:"monthly_enrollments"`
	MonthlyIncome          float64         `json:"monthly_income"`
	Outstanding            float64         `json:"outstanding"`
	UnpaidClients          int             `json:"unpaid_clients"`
	Quotes                 QuoteConversion `json:"quotes"`
	TopSlotsByRevenue      []RankedEntry   `json:"top_slots_by_revenue"`
	TopSlotsByParticipants []RankedEntry   `json:"top_slots_by_participants"`
	TopClientsByPaid       []RankedEntry   `json:"top_clients_by_paid"`
	SnapshotVersion        uint64          `json:"snapshot_version"`
}
