package service

import (
	"fmt"

	"github.com/officina/workshop-system/internal/core/domain"
)

// ReportAggregator builds the named reports. Every report is a pure
// function of the snapshot and the optional date range.
type ReportAggregator struct {
	billing *BillingReconciler
}

func NewReportAggregator(billing *BillingReconciler) *ReportAggregator {
	if billing == nil {
		billing = NewBillingReconciler(PriceCurrent)
	}
	return &ReportAggregator{billing: billing}
}

type reportDef struct {
	title         string
	requiresRange bool
	build         func(a *ReportAggregator, in reportInput) domain.Report
}

// reportOrder is also the order Types advertises.
var reportOrder = []domain.ReportType{
	domain.ReportRevenueByMethod,
	domain.ReportRevenueByWorkshop,
	domain.ReportRevenueByMonth,
	domain.ReportCostsByCategory,
	domain.ReportCostsBySupplier,
	domain.ReportProfitByWorkshop,
	domain.ReportProfitPerParticipant,
	domain.ReportParticipationByWorkshop,
	domain.ReportQuoteConversion,
	domain.ReportInvoicesByStatus,
	domain.ReportPeriodSummary,
	domain.ReportPayments,
	domain.ReportCosts,
	domain.ReportRegistrations,
}

var reportCatalog = map[domain.ReportType]reportDef{
	domain.ReportRevenueByMethod:         {title: "Entrate per metodo di pagamento", build: (*ReportAggregator).revenueByMethod},
	domain.ReportRevenueByWorkshop:       {title: "Entrate per workshop", build: (*ReportAggregator).revenueByWorkshop},
	domain.ReportRevenueByMonth:          {title: "Entrate per mese", build: (*ReportAggregator).revenueByMonth},
	domain.ReportCostsByCategory:         {title: "Costi per categoria", build: (*ReportAggregator).costsByCategory},
	domain.ReportCostsBySupplier:         {title: "Costi per fornitore", build: (*ReportAggregator).costsBySupplier},
	domain.ReportProfitByWorkshop:        {title: "Profitto per workshop", build: (*ReportAggregator).profitByWorkshop},
	domain.ReportProfitPerParticipant:    {title: "Profitto per partecipante", build: (*ReportAggregator).profitPerParticipant},
	domain.ReportParticipationByWorkshop: {title: "Partecipazione per workshop", build: (*ReportAggregator).participationByWorkshop},
	domain.ReportQuoteConversion:         {title: "Conversione preventivi", build: (*ReportAggregator).quoteConversion},
	domain.ReportInvoicesByStatus:        {title: "Fatture per stato", build: (*ReportAggregator).invoicesByStatus},
	domain.ReportPeriodSummary:           {title: "Riepilogo del periodo", requiresRange: true, build: (*ReportAggregator).periodSummary},
	domain.ReportPayments:                {title: "Pagamenti ricevuti", build: (*ReportAggregator).paymentsLedger},
	domain.ReportCosts:                   {title: "Costi operativi", build: (*ReportAggregator).costsLedger},
	domain.ReportRegistrations:           {title: "Iscrizioni confermate", build: (*ReportAggregator).registrations},
}

// Types lists every report the aggregator knows.
func (a *ReportAggregator) Types() []domain.ReportDescriptor {
	out := make([]domain.ReportDescriptor, 0, len(reportOrder))
	for _, t := range reportOrder {
		def := reportCatalog[t]
		out = append(out, domain.ReportDescriptor{Type: t, Title: def.title, RequiresRange: def.requiresRange})
	}
	return out
}

// Generate builds one report. Empty data is not an error: the result simply
// has zero rows or zero values.
func (a *ReportAggregator) Generate(t domain.ReportType, snap *domain.Snapshot, rng *domain.DateRange) (domain.Report, error) {
	def, ok := reportCatalog[t]
	if !ok {
		return domain.Report{}, fmt.Errorf("%w: %q", domain.ErrUnknownReportType, t)
	}

	var window domain.DateRange
	if rng != nil {
		if err := rng.Validate(); err != nil {
			return domain.Report{}, err
		}
		window = *rng
	}
	if def.requiresRange && !window.Closed() {
		return domain.Report{}, fmt.Errorf("%w: %s", domain.ErrMissingReportDate, t)
	}

	rep := def.build(a, reportInput{snap: snap, window: window})
	rep.Type = t
	rep.Title = def.title
	if rep.Rows == nil {
		rep.Rows = []domain.Row{}
	}
	return rep, nil
}

// reportInput exposes the date-filtered collections to the builders.
type reportInput struct {
	snap   *domain.Snapshot
	window domain.DateRange
}

func (in reportInput) payments() []domain.Payment {
	return filter(in.snap.Payments(), func(p domain.Payment) bool { return in.window.Contains(p.PaymentDate) })
}

func (in reportInput) costs() []domain.OperationalCost {
	return filter(in.snap.Costs(), func(c domain.OperationalCost) bool { return in.window.Contains(c.Date) })
}

func (in reportInput) enrollments() []domain.Enrollment {
	return filter(in.snap.Enrollments(), func(e domain.Enrollment) bool { return in.window.Contains(e.RegistrationDate) })
}

func (in reportInput) quotes() []domain.Quote {
	return filter(in.snap.Quotes(), func(q domain.Quote) bool { return in.window.Contains(q.Date) })
}

func (in reportInput) invoices() []domain.Invoice {
	return filter(in.snap.Invoices(), func(i domain.Invoice) bool { return in.window.Contains(i.IssueDate) })
}

func (in reportInput) slotLabel(id string) string {
	if id == "" {
		return domain.Unassigned
	}
	if slot, ok := in.snap.Slot(id); ok {
		return slot.Label()
	}
	return domain.MissingLabel(id)
}

func (in reportInput) venueName(slotID string) string {
	slot, ok := in.snap.Slot(slotID)
	if !ok {
		return domain.NotAvailable
	}
	if venue, ok := in.snap.Venue(slot.VenueID); ok {
		return venue.Name
	}
	return domain.NotAvailable
}

// ---------------------------------------------------------------------------
// Fixed-key partitions
// ---------------------------------------------------------------------------

func (a *ReportAggregator) revenueByMethod(in reportInput) domain.Report {
	const hMethod, hAmount = "Metodo", "Importo"
	byMethod := newTally()
	for _, p := range in.payments() {
		byMethod.add(string(p.Method), p.Amount)
	}

	rows := make([]domain.Row, 0, len(domain.PaymentMethods)+1)
	var total float64
	for _, m := range domain.PaymentMethods {
		amount := byMethod.total(string(m))
		total += amount
		rows = append(rows, domain.Row{hMethod: domain.Text(m.Label()), hAmount: domain.Money(amount)})
	}
	rows = append(rows, domain.Row{hMethod: domain.Text(domain.TotalLabel), hAmount: domain.Money(total)})
	return domain.Report{Headers: []string{hMethod, hAmount}, Rows: rows}
}

func (a *ReportAggregator) invoicesByStatus(in reportInput) domain.Report {
	const hStatus, hCount, hAmount = "Stato", "Numero", "Importo"
	byStatus := newTally()
	for _, inv := range in.invoices() {
		byStatus.add(string(inv.Status), inv.Amount)
	}

	rows := make([]domain.Row, 0, len(domain.InvoiceStatuses)+1)
	var total float64
	var count int
	for _, s := range domain.InvoiceStatuses {
		amount, n := byStatus.total(string(s)), byStatus.count(string(s))
		total += amount
		count += n
		rows = append(rows, domain.Row{hStatus: domain.Text(s.Label()), hCount: domain.Count(n), hAmount: domain.Money(amount)})
	}
	rows = append(rows, domain.Row{hStatus: domain.Text(domain.TotalLabel), hCount: domain.Count(count), hAmount: domain.Money(total)})
	return domain.Report{Headers: []string{hStatus, hCount, hAmount}, Rows: rows}
}

// ---------------------------------------------------------------------------
// Dynamic group-by
// ---------------------------------------------------------------------------

func (a *ReportAggregator) revenueByWorkshop(in reportInput) domain.Report {
	const hSlot, hVenue, hCount, hAmount = "Workshop", "Sede", "Pagamenti", "Importo"
	bySlot := newTally()
	for _, p := range in.payments() {
		bySlot.add(p.SlotID, p.Amount)
	}

	rows := make([]domain.Row, 0, len(bySlot.keys))
	for _, id := range bySlot.keys {
		venue := domain.NotAvailable
		if id != "" {
			venue = in.venueName(id)
		}
		rows = append(rows, domain.Row{
			hSlot:   domain.Text(in.slotLabel(id)),
			hVenue:  domain.Text(venue),
			hCount:  domain.Count(bySlot.count(id)),
			hAmount: domain.Money(bySlot.total(id)),
		})
	}
	return domain.Report{Headers: []string{hSlot, hVenue, hCount, hAmount}, Rows: rows}
}

func (a *ReportAggregator) revenueByMonth(in reportInput) domain.Report {
	const hMonth, hCount, hAmount = "Mese", "Pagamenti", "Importo"
	byMonth := newTally()
	for _, p := range in.payments() {
		byMonth.add(p.PaymentDate.Format("2006-01"), p.Amount)
	}

	keys := byMonth.sortedKeys()
	rows := make([]domain.Row, 0, len(keys))
	for _, month := range keys {
		rows = append(rows, domain.Row{
			hMonth:  domain.Text(month),
			hCount:  domain.Count(byMonth.count(month)),
			hAmount: domain.Money(byMonth.total(month)),
		})
	}
	return domain.Report{Headers: []string{hMonth, hCount, hAmount}, Rows: rows}
}

func (a *ReportAggregator) costsByCategory(in reportInput) domain.Report {
	const hCategory, hCount, hAmount = "Categoria", "Voci", "Importo"
	byCategory := newTally()
	for _, c := range in.costs() {
		byCategory.add(c.Category, c.Amount)
	}

	rows := make([]domain.Row, 0, len(byCategory.keys))
	for _, category := range byCategory.keys {
		label := category
		if label == "" {
			label = domain.Unassigned
		}
		rows = append(rows, domain.Row{
			hCategory: domain.Text(label),
			hCount:    domain.Count(byCategory.count(category)),
			hAmount:   domain.Money(byCategory.total(category)),
		})
	}
	return domain.Report{Headers: []string{hCategory, hCount, hAmount}, Rows: rows}
}

func (a *ReportAggregator) costsBySupplier(in reportInput) domain.Report {
	const hSupplier, hCount, hAmount = "Fornitore", "Voci", "Importo"
	bySupplier := newTally()
	for _, c := range in.costs() {
		bySupplier.add(c.SupplierID, c.Amount)
	}

	rows := make([]domain.Row, 0, len(bySupplier.keys))
	for _, id := range bySupplier.keys {
		label := "Nessun fornitore"
		if id != "" {
			label = domain.MissingLabel(id)
			if s, ok := in.snap.Supplier(id); ok {
				label = s.Name
			}
		}
		rows = append(rows, domain.Row{
			hSupplier: domain.Text(label),
			hCount:    domain.Count(bySupplier.count(id)),
			hAmount:   domain.Money(bySupplier.total(id)),
		})
	}
	return domain.Report{Headers: []string{hSupplier, hCount, hAmount}, Rows: rows}
}

// ---------------------------------------------------------------------------
// Cross-entity statistics
// ---------------------------------------------------------------------------

// slotEconomics is revenue, cost and roster of one slot.
type slotEconomics struct {
	id           string
	revenue      float64
	cost         float64
	participants int
}

func (e slotEconomics) profit() float64 { return e.revenue - e.cost }

// economics covers every slot of the snapshot, then any slot id only seen
// on payments or costs. Participants are the current confirmed roster.
func (in reportInput) economics() []slotEconomics {
	revenue, cost := newTally(), newTally()
	for _, p := range in.payments() {
		if p.SlotID != "" {
			revenue.add(p.SlotID, p.Amount)
		}
	}
	for _, c := range in.costs() {
		if c.SlotID != "" {
			cost.add(c.SlotID, c.Amount)
		}
	}

	seen := make(map[string]struct{})
	ids := make([]string, 0)
	push := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, s := range in.snap.Slots() {
		push(s.ID)
	}
	for _, id := range revenue.keys {
		push(id)
	}
	for _, id := range cost.keys {
		push(id)
	}

	out := make([]slotEconomics, 0, len(ids))
	for _, id := range ids {
		out = append(out, slotEconomics{
			id:           id,
			revenue:      revenue.total(id),
			cost:         cost.total(id),
			participants: in.snap.ConfirmedCount(id),
		})
	}
	return out
}

func (a *ReportAggregator) profitByWorkshop(in reportInput) domain.Report {
	const hSlot, hParticipants, hRevenue, hCost, hProfit = "Workshop", "Partecipanti", "Ricavi", "Costi", "Profitto"
	econ := in.economics()
	rows := make([]domain.Row, 0, len(econ))
	for _, e := range econ {
		rows = append(rows, domain.Row{
			hSlot:         domain.Text(in.slotLabel(e.id)),
			hParticipants: domain.Count(e.participants),
			hRevenue:      domain.Money(e.revenue),
			hCost:         domain.Money(e.cost),
			hProfit:       domain.Money(e.profit()),
		})
	}
	return domain.Report{Headers: []string{hSlot, hParticipants, hRevenue, hCost, hProfit}, Rows: rows}
}

// profitPerParticipant reports min, mean and max of profit / participants
// over slots with at least one participant. Empty slots are excluded.
func (a *ReportAggregator) profitPerParticipant(in reportInput) domain.Report {
	const hStat, hSlot, hValue = "Statistica", "Workshop", "Valore"

	var (
		qualifying       int
		sum              float64
		minV, maxV       float64
		minSlot, maxSlot string
	)
	for _, e := range in.economics() {
		if e.participants == 0 {
			continue
		}
		per := e.profit() / float64(e.participants)
		if qualifying == 0 || per < minV {
			minV, minSlot = per, e.id
		}
		if qualifying == 0 || per > maxV {
			maxV, maxSlot = per, e.id
		}
		sum += per
		qualifying++
	}

	var avg float64
	minLabel, maxLabel := domain.NotAvailable, domain.NotAvailable
	if qualifying > 0 {
		avg = sum / float64(qualifying)
		minLabel, maxLabel = in.slotLabel(minSlot), in.slotLabel(maxSlot)
	}

	rows := []domain.Row{
		{hStat: domain.Text("Workshop considerati"), hSlot: domain.Text(""), hValue: domain.Count(qualifying)},
		{hStat: domain.Text("Minimo"), hSlot: domain.Text(minLabel), hValue: domain.Money(minV)},
		{hStat: domain.Text("Media"), hSlot: domain.Text(""), hValue: domain.Money(avg)},
		{hStat: domain.Text("Massimo"), hSlot: domain.Text(maxLabel), hValue: domain.Money(maxV)},
	}
	return domain.Report{Headers: []string{hStat, hSlot, hValue}, Rows: rows}
}

// participationByWorkshop uses the billing reconciler to split each roster
// into participants whose client is settled and those who are not.
func (a *ReportAggregator) participationByWorkshop(in reportInput) domain.Report {
	const (
		hSlot     = "Workshop"
		hVenue    = "Sede"
		hEnrolled = "Iscritti"
		hCapacity = "Capienza"
		hFill     = "Occupazione"
		hPaid     = "In regola"
		hUnpaid   = "Non in regola"
	)

	settled := make(map[string]bool)
	isSettled := func(clientID string) bool {
		v, ok := settled[clientID]
		if !ok {
			v = a.billing.Settled(clientID, in.snap)
			settled[clientID] = v
		}
		return v
	}

	slots := in.snap.Slots()
	rows := make([]domain.Row, 0, len(slots))
	for _, slot := range slots {
		var enrolled, paid, unpaid int
		for _, e := range in.snap.EnrollmentsForSlot(slot.ID) {
			if !e.Confirmed() || !in.window.Contains(e.RegistrationDate) {
				continue
			}
			enrolled++
			dep, ok := in.snap.Dependent(e.DependentID)
			if ok && isSettled(dep.ParentID) {
				paid++
			} else {
				unpaid++
			}
		}

		capacity := EffectiveCapacity(slot, in.snap)
		capCell, fillCell := domain.Text("Illimitata"), domain.Text(domain.NotAvailable)
		if capacity >= 0 {
			capCell = domain.Count(capacity)
			if capacity > 0 {
				fillCell = domain.Percent(float64(enrolled) / float64(capacity))
			}
		}

		rows = append(rows, domain.Row{
			hSlot:     domain.Text(slot.Label()),
			hVenue:    domain.Text(in.venueName(slot.ID)),
			hEnrolled: domain.Count(enrolled),
			hCapacity: capCell,
			hFill:     fillCell,
			hPaid:     domain.Count(paid),
			hUnpaid:   domain.Count(unpaid),
		})
	}
	return domain.Report{Headers: []string{hSlot, hVenue, hEnrolled, hCapacity, hFill, hPaid, hUnpaid}, Rows: rows}
}

// ConvertQuotes computes approved / (approved + rejected). Sent quotes are
// undecided and only counted separately.
func ConvertQuotes(quotes []domain.Quote) domain.QuoteConversion {
	var qc domain.QuoteConversion
	for _, q := range quotes {
		switch q.Status {
		case domain.QuoteApproved:
			qc.Approved++
		case domain.QuoteRejected:
			qc.Rejected++
		case domain.QuoteSent:
			qc.Sent++
		}
	}
	if decided := qc.Approved + qc.Rejected; decided > 0 {
		qc.Decided = true
		qc.Rate = float64(qc.Approved) / float64(decided)
	}
	return qc
}

func (a *ReportAggregator) quoteConversion(in reportInput) domain.Report {
	const hItem, hValue = "Voce", "Valore"
	qc := ConvertQuotes(in.quotes())
	rate := domain.Text(domain.NotAvailable)
	if qc.Decided {
		rate = domain.Percent(qc.Rate)
	}
	rows := []domain.Row{
		{hItem: domain.Text("Approvati"), hValue: domain.Count(qc.Approved)},
		{hItem: domain.Text("Rifiutati"), hValue: domain.Count(qc.Rejected)},
		{hItem: domain.Text("Inviati (in attesa)"), hValue: domain.Count(qc.Sent)},
		{hItem: domain.Text("Tasso di conversione"), hValue: rate},
	}
	return domain.Report{Headers: []string{hItem, hValue}, Rows: rows}
}

func (a *ReportAggregator) periodSummary(in reportInput) domain.Report {
	const hItem, hValue = "Voce", "Valore"
	income := sumOf(in.payments(), func(p domain.Payment) float64 { return p.Amount })
	costs := sumOf(in.costs(), func(c domain.OperationalCost) float64 { return c.Amount })

	var created, cancelled int
	for _, e := range in.enrollments() {
		if e.Active() {
			created++
		} else {
			cancelled++
		}
	}
	var approved float64
	for _, q := range in.quotes() {
		if q.Status == domain.QuoteApproved {
			approved += q.Amount
		}
	}

	rows := []domain.Row{
		{hItem: domain.Text("Entrate"), hValue: domain.Money(income)},
		{hItem: domain.Text("Costi"), hValue: domain.Money(costs)},
		{hItem: domain.Text("Risultato netto"), hValue: domain.Money(income - costs)},
		{hItem: domain.Text("Nuove iscrizioni"), hValue: domain.Count(created)},
		{hItem: domain.Text("Iscrizioni annullate"), hValue: domain.Count(cancelled)},
		{hItem: domain.Text("Preventivi approvati"), hValue: domain.Money(approved)},
	}
	return domain.Report{Headers: []string{hItem, hValue}, Rows: rows}
}

// ---------------------------------------------------------------------------
// Listings
// ---------------------------------------------------------------------------

func (a *ReportAggregator) paymentsLedger(in reportInput) domain.Report {
	headers := []string{"Data", "Cliente", "Descrizione", "Importo", "Metodo"}
	payments := in.payments()
	rows := make([]domain.Row, 0, len(payments))
	for _, p := range payments {
		client := domain.NotAvailable
		if c, ok := in.snap.Client(p.ClientID); ok {
			client = c.DisplayName()
		}
		rows = append(rows, domain.Row{
			"Data":        domain.Date(p.PaymentDate),
			"Cliente":     domain.Text(client),
			"Descrizione": domain.Text(p.Description),
			"Importo":     domain.Money(p.Amount),
			"Metodo":      domain.Text(p.Method.Label()),
		})
	}
	return domain.Report{Headers: headers, Rows: rows}
}

func (a *ReportAggregator) costsLedger(in reportInput) domain.Report {
	headers := []string{"Data", "Descrizione", "Categoria", "Importo", "Fornitore"}
	costs := in.costs()
	rows := make([]domain.Row, 0, len(costs))
	for _, c := range costs {
		supplier := domain.NotAvailable
		if s, ok := in.snap.Supplier(c.SupplierID); ok {
			supplier = s.Name
		}
		rows = append(rows, domain.Row{
			"Data":        domain.Date(c.Date),
			"Descrizione": domain.Text(c.Description),
			"Categoria":   domain.Text(c.Category),
			"Importo":     domain.Money(c.Amount),
			"Fornitore":   domain.Text(supplier),
		})
	}
	return domain.Report{Headers: headers, Rows: rows}
}

func (a *ReportAggregator) registrations(in reportInput) domain.Report {
	headers := []string{"Data Iscrizione", "Bambino", "Workshop", "Sede", "Tipo Iscrizione", "Scadenza"}
	enrollments := filter(in.enrollments(), domain.Enrollment.Confirmed)
	rows := make([]domain.Row, 0, len(enrollments))
	for _, e := range enrollments {
		child := domain.NotAvailable
		if d, ok := in.snap.Dependent(e.DependentID); ok {
			child = d.FullName()
		}
		slot := domain.NotAvailable
		if s, ok := in.snap.Slot(e.SlotID); ok {
			slot = s.Label()
		}
		rows = append(rows, domain.Row{
			"Data Iscrizione": domain.Date(e.RegistrationDate),
			"Bambino":         domain.Text(child),
			"Workshop":        domain.Text(slot),
			"Sede":            domain.Text(in.venueName(e.SlotID)),
			"Tipo Iscrizione": domain.Text(e.PlanName),
			"Scadenza":        domain.OptionalDate(e.ExpirationDate),
		})
	}
	return domain.Report{Headers: headers, Rows: rows}
}
