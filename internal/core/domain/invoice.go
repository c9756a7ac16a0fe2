package domain

import "time"

// InvoiceStatus is the collection state of an invoice.
type InvoiceStatus string

const (
	InvoiceIssued  InvoiceStatus = "issued"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

// InvoiceStatuses lists statuses in report order.
var InvoiceStatuses = []InvoiceStatus{InvoiceIssued, InvoicePaid, InvoiceOverdue}

func (s InvoiceStatus) Label() string {
	switch s {
	case InvoiceIssued:
		return "Emessa"
	case InvoicePaid:
		return "Pagata"
	case InvoiceOverdue:
		return "Scaduta"
	default:
		return string(s)
	}
}

type Invoice struct {
	ID            string        `json:"id"`
	ClientID      string        `json:"client_id"`
	InvoiceNumber string        `json:"invoice_number"`
	SDINumber     string        `json:"sdi_number,omitempty"`
	IssueDate     time.Time     `json:"issue_date"`
	Amount        float64       `json:"amount"`
	Status        InvoiceStatus `json:"status"`
	Method        PaymentMethod `json:"method,omitempty"`
}
