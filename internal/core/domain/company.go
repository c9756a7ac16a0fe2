package domain

// CompanyProfile is the issuer printed on quotes and invoices.
type CompanyProfile struct {
	CompanyName string `json:"company_name"`
	VATNumber   string `json:"vat_number"`
	Address     string `json:"address"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	TaxRegime   string `json:"tax_regime"`
}
