package domain

// CascadeKind names the root entity being deleted.
type CascadeKind string

const (
	CascadeClient    CascadeKind = "client"
	CascadeDependent CascadeKind = "dependent"
	CascadeSupplier  CascadeKind = "supplier"
)

// CascadePlan lists what a deletion removes and what it deliberately keeps.
// Payments, quotes and invoices are financial records and are only
// reported as retained.
type CascadePlan struct {
	Kind   CascadeKind `json:"kind"`
	RootID string      `json:"root_id"`

	ClientIDs     []string `json:"client_ids,omitempty"`
	DependentIDs  []string `json:"dependent_ids,omitempty"`
	EnrollmentIDs []string `json:"enrollment_ids,omitempty"`
	SupplierIDs   []string `json:"supplier_ids,omitempty"`
	VenueIDs      []string `json:"venue_ids,omitempty"`

	RetainedPaymentIDs []string `json:"retained_payment_ids,omitempty"`
	RetainedQuoteIDs   []string `json:"retained_quote_ids,omitempty"`
	RetainedInvoiceIDs []string `json:"retained_invoice_ids,omitempty"`
	// OrphanedSlotIDs are slots left pointing at a deleted venue.
	OrphanedSlotIDs []string `json:"orphaned_slot_ids,omitempty"`
}

// Deletes counts the records the plan removes.
func (p CascadePlan) Deletes() int {
	return len(p.ClientIDs) + len(p.DependentIDs) + len(p.EnrollmentIDs) + len(p.SupplierIDs) + len(p.VenueIDs)
}
