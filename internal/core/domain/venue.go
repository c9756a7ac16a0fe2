package domain

// Supplier rents venues or sells services to the business.
type Supplier struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	VATNumber     string        `json:"vat_number,omitempty"`
	ContactPerson string        `json:"contact_person,omitempty"`
	Email         string        `json:"email,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	Address       PostalAddress `json:"address"`
}

// Venue hosts workshop slots. Capacity bounds the confirmed enrollments of
// every slot held there.
type Venue struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address,omitempty"`
	Capacity   int    `json:"capacity"`
	SupplierID string `json:"supplier_id,omitempty"`
}
