package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ReportType names a report the aggregator can build.
type ReportType string

const (
	ReportRevenueByMethod         ReportType = "revenue_by_method"
	ReportInvoicesByStatus        ReportType = "invoices_by_status"
	ReportRevenueByWorkshop       ReportType = "revenue_by_workshop"
	ReportRevenueByMonth          ReportType = "revenue_by_month"
	ReportCostsByCategory         ReportType = "costs_by_category"
	ReportCostsBySupplier         ReportType = "costs_by_supplier"
	ReportProfitByWorkshop        ReportType = "profit_by_workshop"
	ReportProfitPerParticipant    ReportType = "profit_per_participant"
	ReportParticipationByWorkshop ReportType = "participation_by_workshop"
	ReportQuoteConversion         ReportType = "quote_conversion"
	ReportPeriodSummary           ReportType = "period_summary"
	ReportPayments                ReportType = "payments"
	ReportCosts                   ReportType = "costs"
	ReportRegistrations           ReportType = "registrations"
)

// TotalLabel is the label of the closing row of fixed-key partitions.
const TotalLabel = "Totale"

// Placeholders for references that cannot be resolved.
const (
	NotAvailable = "N/D"
	Unassigned   = "Non assegnato"
)

// MissingLabel is shown for a group whose referenced entity is gone.
func MissingLabel(id string) string {
	return "ID: " + id
}

// ValueKind decides how a report cell renders.
type ValueKind int

const (
	KindText ValueKind = iota
	KindMoney
	KindCount
	KindPercent
	KindDate
	KindNumber
)

const reportDateLayout = "02/01/2006"

// Value is one report cell.
type Value struct {
	Kind   ValueKind
	Text   string
	Number float64
	Time   time.Time
}

func Text(s string) Value         { return Value{Kind: KindText, Text: s} }
func Money(amount float64) Value  { return Value{Kind: KindMoney, Number: RoundCents(amount)} }
func Count(n int) Value           { return Value{Kind: KindCount, Number: float64(n)} }
func Number(f float64) Value      { return Value{Kind: KindNumber, Number: f} }
func Date(t time.Time) Value      { return Value{Kind: KindDate, Time: t} }
func Percent(ratio float64) Value { return Value{Kind: KindPercent, Number: ratio} }

// OptionalDate renders a missing date as N/D.
func OptionalDate(t *time.Time) Value {
	if t == nil || t.IsZero() {
		return Text(NotAvailable)
	}
	return Date(*t)
}

// String is the canonical rendering used by exports.
func (v Value) String() string {
	switch v.Kind {
	case KindMoney:
		return FormatEUR(v.Number)
	case KindCount:
		return strconv.FormatInt(int64(v.Number), 10)
	case KindPercent:
		return fmt.Sprintf("%.2f%%", v.Number*100)
	case KindDate:
		if v.Time.IsZero() {
			return NotAvailable
		}
		return v.Time.Format(reportDateLayout)
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', 2, 64)
	default:
		return v.Text
	}
}

// MarshalJSON keeps numbers numeric so API clients can chart them.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindMoney, KindCount, KindPercent, KindNumber:
		return json.Marshal(v.Number)
	case KindDate:
		if v.Time.IsZero() {
			return json.Marshal(nil)
		}
		return json.Marshal(v.Time.Format(time.DateOnly))
	default:
		return json.Marshal(v.Text)
	}
}

// Row maps a header to its cell.
type Row map[string]Value

// Report is a tabular result ready for rendering or export.
type Report struct {
	Type    ReportType `json:"type"`
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    []Row      `json:"rows"`
}

// Records renders every row as strings in header order.
func (r Report) Records() [][]string {
	out := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rec := make([]string, len(r.Headers))
		for i, h := range r.Headers {
			rec[i] = row[h].String()
		}
		out = append(out, rec)
	}
	return out
}

// ReportDescriptor advertises a report type.
type ReportDescriptor struct {
	Type          ReportType `json:"type"`
	Title         string     `json:"title"`
	RequiresRange bool       `json:"requires_range"`
}

// DateRange filters entities by their primary date. Zero bounds are open.
// To covers the whole day it falls on.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Validate rejects ranges that end before they start.
func (r DateRange) Validate() error {
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		return ErrInvalidDateRange
	}
	return nil
}

// Closed reports whether both bounds are set.
func (r DateRange) Closed() bool {
	return !r.From.IsZero() && !r.To.IsZero()
}

// Contains applies the range to t.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() {
		end := time.Date(r.To.Year(), r.To.Month(), r.To.Day(), 0, 0, 0, 0, r.To.Location()).AddDate(0, 0, 1)
		if !t.Before(end) {
			return false
		}
	}
	return true
}
