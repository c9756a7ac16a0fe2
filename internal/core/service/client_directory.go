package service

import (
	"cmp"
	"slices"
	"strings"

	"github.com/officina/workshop-system/internal/core/domain"
)

// ClientDirectory filters and sorts the client list with each balance.
type ClientDirectory struct {
	billing *BillingReconciler
}

func NewClientDirectory(billing *BillingReconciler) *ClientDirectory {
	if billing == nil {
		billing = NewBillingReconciler(PriceCurrent)
	}
	return &ClientDirectory{billing: billing}
}

// List applies f. Without a sort the snapshot order is kept.
func (d *ClientDirectory) List(f domain.ClientFilter, snap *domain.Snapshot) []domain.ClientSummary {
	needle := strings.ToLower(strings.TrimSpace(f.Name))

	out := make([]domain.ClientSummary, 0)
	for _, c := range snap.Clients() {
		if needle != "" && !matchesName(c, needle) {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.MinRating > 0 && c.Rating < f.MinRating {
			continue
		}
		balance := d.billing.balance(c.ID, snap)
		switch f.PaymentStatus {
		case domain.PaymentStatusPaid:
			if !balance.Settled {
				continue
			}
		case domain.PaymentStatusUnpaid:
			if balance.Settled {
				continue
			}
		}
		out = append(out, domain.ClientSummary{
			Client:     c,
			Dependents: len(snap.DependentsOf(c.ID)),
			Balance:    balance,
		})
	}

	if cmpFn := clientOrder(f.Sort); cmpFn != nil {
		slices.SortStableFunc(out, cmpFn)
	}
	return out
}

func matchesName(c domain.Client, needle string) bool {
	if strings.Contains(strings.ToLower(c.DisplayName()), needle) {
		return true
	}
	return strings.Contains(strings.ToLower(c.Email), needle)
}

func clientOrder(s domain.ClientSort) func(a, b domain.ClientSummary) int {
	switch s {
	case domain.SortSurnameAsc:
		return func(a, b domain.ClientSummary) int { return cmp.Compare(a.Client.SortKey(), b.Client.SortKey()) }
	case domain.SortSurnameDesc:
		return func(a, b domain.ClientSummary) int { return cmp.Compare(b.Client.SortKey(), a.Client.SortKey()) }
	case domain.SortRatingDesc:
		return func(a, b domain.ClientSummary) int { return cmp.Compare(b.Client.Rating, a.Client.Rating) }
	case domain.SortRatingAsc:
		return func(a, b domain.ClientSummary) int { return cmp.Compare(a.Client.Rating, b.Client.Rating) }
	default:
		return nil
	}
}
