package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/officina/workshop-system/internal/core/domain"
)

func cascadeCollections() domain.Collections {
	c := baseCollections()
	c.Enrollments = []domain.Enrollment{
		enrollment("e1", "d1", "w1", "Mensile", domain.EnrollmentConfirmed, day(2024, time.January, 2)),
		enrollment("e2", "d2", "w2", "Mensile", domain.EnrollmentCancelled, day(2024, time.January, 3)),
		enrollment("e3", "d3", "w1", "Mensile", domain.EnrollmentConfirmed, day(2024, time.January, 3)),
	}
	c.Payments = []domain.Payment{payment("pay1", "c1", 60, domain.MethodCash, day(2024, time.January, 4), "w1")}
	c.Quotes = []domain.Quote{{ID: "q1", ClientID: "c1", Amount: 90}}
	c.Invoices = []domain.Invoice{{ID: "i1", ClientID: "c1", Amount: 60}}
	return c
}

func TestPlanCascade_Client(t *testing.T) {
	snap := snapshotOf(cascadeCollections())

	plan, err := PlanCascade(domain.CascadeClient, "c1", snap)

	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, plan.ClientIDs)
	assert.Equal(t, []string{"d1", "d2"}, plan.DependentIDs)
	assert.Equal(t, []string{"e1", "e2"}, plan.EnrollmentIDs)
	assert.Equal(t, []string{"pay1"}, plan.RetainedPaymentIDs)
	assert.Equal(t, []string{"q1"}, plan.RetainedQuoteIDs)
	assert.Equal(t, []string{"i1"}, plan.RetainedInvoiceIDs)
	assert.Equal(t, 5, plan.Deletes())

	after := snap.Without(plan)
	_, ok := after.Client("c1")
	assert.False(t, ok)
	assert.Len(t, after.Payments(), 1, "payments survive the cascade")
	assert.Equal(t, 1, after.ConfirmedCount("w1"))
}

func TestPlanCascade_Dependent(t *testing.T) {
	plan, err := PlanCascade(domain.CascadeDependent, "d3", snapshotOf(cascadeCollections()))

	require.NoError(t, err)
	assert.Equal(t, []string{"d3"}, plan.DependentIDs)
	assert.Equal(t, []string{"e3"}, plan.EnrollmentIDs)
	assert.Empty(t, plan.ClientIDs)
}

func TestPlanCascade_SupplierOrphansSlots(t *testing.T) {
	plan, err := PlanCascade(domain.CascadeSupplier, "s1", snapshotOf(cascadeCollections()))

	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, plan.SupplierIDs)
	assert.Equal(t, []string{"v1"}, plan.VenueIDs)
	assert.Equal(t, []string{"w1"}, plan.OrphanedSlotIDs)
}

func TestPlanCascade_NotFound(t *testing.T) {
	snap := snapshotOf(cascadeCollections())

	tests := []struct {
		kind domain.CascadeKind
		want error
	}{
		{kind: domain.CascadeClient, want: domain.ErrClientNotFound},
		{kind: domain.CascadeDependent, want: domain.ErrDependentNotFound},
		{kind: domain.CascadeSupplier, want: domain.ErrSupplierNotFound},
	}
	for _, tt := range tests {
		_, err := PlanCascade(tt.kind, "nope", snap)
		assert.ErrorIs(t, err, tt.want, tt.kind)
	}

	_, err := PlanCascade("venue", "v1", snap)
	assert.Error(t, err)
}
