package service

import (
	"time"

	"github.com/officina/workshop-system/internal/core/domain"
)

// Dashboard computes the home screen KPIs and rankings.
type Dashboard struct {
	billing *BillingReconciler
}

func NewDashboard(billing *BillingReconciler) *Dashboard {
	if billing == nil {
		billing = NewBillingReconciler(PriceCurrent)
	}
	return &Dashboard{billing: billing}
}

// Compute evaluates every KPI at now. "This month" is the calendar month of
// now in its own location.
func (d *Dashboard) Compute(snap *domain.Snapshot, now time.Time) domain.DashboardKPIs {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	thisMonth := domain.DateRange{From: monthStart, To: monthStart.AddDate(0, 1, -1)}

	kpis := domain.DashboardKPIs{SnapshotVersion: snap.Version()}

	for _, c := range snap.Clients() {
		if c.Status == domain.ClientActive {
			kpis.ActiveClients++
		}
	}

	for _, e := range snap.Enrollments() {
		if e.Confirmed() && thisMonth.Contains(e.RegistrationDate) {
			kpis.MonthlyEnrollments++
		}
	}

	revenueBySlot := newTally()
	for _, p := range snap.Payments() {
		if thisMonth.Contains(p.PaymentDate) {
			kpis.MonthlyIncome += p.Amount
		}
		if p.SlotID != "" {
			revenueBySlot.add(p.SlotID, p.Amount)
		}
	}
	kpis.MonthlyIncome = domain.RoundCents(kpis.MonthlyIncome)

	var bySlotRevenue, bySlotParticipants []domain.RankedEntry
	for _, slot := range snap.Slots() {
		confirmed := snap.ConfirmedCount(slot.ID)
		if confirmed > 0 {
			kpis.ActiveSlots++
			bySlotParticipants = append(bySlotParticipants, domain.RankedEntry{ID: slot.ID, Label: slot.Label(), Value: float64(confirmed)})
		}
		if revenue := revenueBySlot.total(slot.ID); revenue > 0 {
			bySlotRevenue = append(bySlotRevenue, domain.RankedEntry{ID: slot.ID, Label: slot.Label(), Value: domain.RoundCents(revenue)})
		}
	}
	kpis.TopSlotsByRevenue = RankTop(bySlotRevenue, TopN)
	kpis.TopSlotsByParticipants = RankTop(bySlotParticipants, TopN)

	var byClientPaid []domain.RankedEntry
	for _, b := range d.billing.Balances(snap) {
		kpis.Outstanding += b.Outstanding
		if !b.Settled {
			kpis.UnpaidClients++
		}
		if b.Paid > 0 {
			c, _ := snap.Client(b.ClientID)
			byClientPaid = append(byClientPaid, domain.RankedEntry{ID: b.ClientID, Label: c.DisplayName(), Value: b.Paid})
		}
	}
	kpis.Outstanding = domain.RoundCents(kpis.Outstanding)
	kpis.TopClientsByPaid = RankTop(byClientPaid, TopN)

	kpis.Quotes = ConvertQuotes(snap.Quotes())
	return kpis
}
