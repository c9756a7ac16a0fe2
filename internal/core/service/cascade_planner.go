package service

import (
	"fmt"

	"github.com/officina/workshop-system/internal/core/domain"
)

// PlanCascade reports what deleting the root entity would remove. It never
// deletes anything itself.
func PlanCascade(kind domain.CascadeKind, id string, snap *domain.Snapshot) (domain.CascadePlan, error) {
	switch kind {
	case domain.CascadeClient:
		return PlanClientDeletion(id, snap)
	case domain.CascadeDependent:
		return PlanDependentDeletion(id, snap)
	case domain.CascadeSupplier:
		return PlanSupplierDeletion(id, snap)
	default:
		return domain.CascadePlan{}, fmt.Errorf("unknown cascade kind %q", kind)
	}
}

// PlanClientDeletion removes the client, its dependents and their
// enrollments. Payments, quotes and invoices are kept.
func PlanClientDeletion(clientID string, snap *domain.Snapshot) (domain.CascadePlan, error) {
	if _, ok := snap.Client(clientID); !ok {
		return domain.CascadePlan{}, domain.ErrClientNotFound
	}
	plan := domain.CascadePlan{
		Kind:      domain.CascadeClient,
		RootID:    clientID,
		ClientIDs: []string{clientID},
	}
	for _, dep := range snap.DependentsOf(clientID) {
		plan.DependentIDs = append(plan.DependentIDs, dep.ID)
		for _, e := range snap.EnrollmentsOf(dep.ID) {
			plan.EnrollmentIDs = append(plan.EnrollmentIDs, e.ID)
		}
	}
	for _, p := range snap.PaymentsOf(clientID) {
		plan.RetainedPaymentIDs = append(plan.RetainedPaymentIDs, p.ID)
	}
	for _, q := range snap.Quotes() {
		if q.ClientID == clientID {
			plan.RetainedQuoteIDs = append(plan.RetainedQuoteIDs, q.ID)
		}
	}
	for _, inv := range snap.Invoices() {
		if inv.ClientID == clientID {
			plan.RetainedInvoiceIDs = append(plan.RetainedInvoiceIDs, inv.ID)
		}
	}
	return plan, nil
}

// PlanDependentDeletion removes one dependent and its enrollments.
func PlanDependentDeletion(dependentID string, snap *domain.Snapshot) (domain.CascadePlan, error) {
	if _, ok := snap.Dependent(dependentID); !ok {
		return domain.CascadePlan{}, domain.ErrDependentNotFound
	}
	plan := domain.CascadePlan{
		Kind:         domain.CascadeDependent,
		RootID:       dependentID,
		DependentIDs: []string{dependentID},
	}
	for _, e := range snap.EnrollmentsOf(dependentID) {
		plan.EnrollmentIDs = append(plan.EnrollmentIDs, e.ID)
	}
	return plan, nil
}

// PlanSupplierDeletion removes the supplier and the venues it owns. Slots
// held at those venues are reported as orphaned, not deleted.
func PlanSupplierDeletion(supplierID string, snap *domain.Snapshot) (domain.CascadePlan, error) {
	if _, ok := snap.Supplier(supplierID); !ok {
		return domain.CascadePlan{}, domain.ErrSupplierNotFound
	}
	plan := domain.CascadePlan{
		Kind:        domain.CascadeSupplier,
		RootID:      supplierID,
		SupplierIDs: []string{supplierID},
	}
	venues := make(map[string]struct{})
	for _, v := range snap.VenuesOf(supplierID) {
		plan.VenueIDs = append(plan.VenueIDs, v.ID)
		venues[v.ID] = struct{}{}
	}
	for _, s := range snap.Slots() {
		if _, ok := venues[s.VenueID]; ok {
			plan.OrphanedSlotIDs = append(plan.OrphanedSlotIDs, s.ID)
		}
	}
	return plan, nil
}
