package service

import (
	"fmt"
	"strings"

	"github.com/officina/workshop-system/internal/core/domain"
)

// PricingPolicy decides which price an enrollment owes.
type PricingPolicy string

const (
	// PriceCurrent re-resolves the plan by name at computation time, so a
	// later price change also changes what past enrollments owe.
	PriceCurrent PricingPolicy = "current"
	// PriceFrozen bills the price recorded when the enrollment was created,
	// falling back to the current price for records that carry none.
	PriceFrozen PricingPolicy = "frozen"
)

// ParsePricingPolicy accepts "", "current" and "frozen".
func ParsePricingPolicy(s string) (PricingPolicy, error) {
	switch PricingPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PriceCurrent:
		return PriceCurrent, nil
	case PriceFrozen:
		return PriceFrozen, nil
	default:
		return "", fmt.Errorf("unknown pricing policy %q", s)
	}
}

// BillingReconciler compares what a client owes with what it paid. The
// comparison is aggregate: payments are never matched to single enrollments.
type BillingReconciler struct {
	policy PricingPolicy
}

func NewBillingReconciler(policy PricingPolicy) *BillingReconciler {
	if policy == "" {
		policy = PriceCurrent
	}
	return &BillingReconciler{policy: policy}
}

// Policy reports the pricing policy in use.
func (r *BillingReconciler) Policy() PricingPolicy { return r.policy }

// ComputeClientBalance returns due, paid and settled for one client.
func (r *BillingReconciler) ComputeClientBalance(clientID string, snap *domain.Snapshot) (domain.Balance, error) {
	if _, ok := snap.Client(clientID); !ok {
		return domain.Balance{}, domain.ErrClientNotFound
	}
	return r.balance(clientID, snap), nil
}

// Balances computes every client's balance in snapshot order.
func (r *BillingReconciler) Balances(snap *domain.Snapshot) []domain.Balance {
	clients := snap.Clients()
	out := make([]domain.Balance, 0, len(clients))
	for _, c := range clients {
		out = append(out, r.balance(c.ID, snap))
	}
	return out
}

// Settled is the per-client paid status used by participation reports.
func (r *BillingReconciler) Settled(clientID string, snap *domain.Snapshot) bool {
	return r.balance(clientID, snap).Settled
}

func (r *BillingReconciler) balance(clientID string, snap *domain.Snapshot) domain.Balance {
	due := domain.RoundCents(r.Due(clientID, snap))
	paid := domain.RoundCents(Paid(clientID, snap))
	b := domain.Balance{
		ClientID: clientID,
		Due:      due,
		Paid:     paid,
		Settled:  paid >= due,
	}
	if !b.Settled {
		b.Outstanding = domain.RoundCents(due - paid)
	}
	return b
}

// Due sums the price of every non-cancelled enrollment of the client's
// dependents. Plans that no longer resolve contribute nothing.
func (r *BillingReconciler) Due(clientID string, snap *domain.Snapshot) float64 {
	var total float64
	for _, dep := range snap.DependentsOf(clientID) {
		for _, e := range snap.EnrollmentsOf(dep.ID) {
			if e.Active() {
				total += r.EnrollmentPrice(e, snap)
			}
		}
	}
	return total
}

// EnrollmentPrice applies the pricing policy to one enrollment.
func (r *BillingReconciler) EnrollmentPrice(e domain.Enrollment, snap *domain.Snapshot) float64 {
	if r.policy == PriceFrozen && e.PriceAtEnrollment > 0 {
		return e.PriceAtEnrollment
	}
	if plan, ok := snap.PlanByName(e.PlanName); ok {
		return plan.Price
	}
	return 0
}

// Paid sums every payment of the client.
func Paid(clientID string, snap *domain.Snapshot) float64 {
	return sumOf(snap.PaymentsOf(clientID), func(p domain.Payment) float64 { return p.Amount })
}
