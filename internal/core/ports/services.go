package ports

import (
	"context"
	"time"

	"github.com/officina/workshop-system/internal/core/domain"
)

// ProposeEnrollmentInput asks the core for a new enrollment.
type ProposeEnrollmentInput struct {
	DependentID string
	SlotID      string
	PlanID      string
	// Pending creates the enrollment as pending instead of confirmed.
	Pending bool
}

// PaymentInput records a payment together with an enrollment.
type PaymentInput struct {
	Amount      float64
	Method      domain.PaymentMethod
	Description string // defaults to "Iscrizione <plan>"
	Date        time.Time
}

// EnrollInput is the transport DTO for EnrollmentService.Enroll.
type EnrollInput struct {
	ProposeEnrollmentInput
	Payment *PaymentInput // optional
}

// EnrollResult carries what was persisted. PaymentErr is set when the
// enrollment was stored but the payment taken with it was not.
type EnrollResult struct {
	Enrollment domain.Enrollment
	Payment    *domain.Payment
	PaymentErr error
}

// EnrollmentCheck is the full feedback of the enrollment rules.
type EnrollmentCheck struct {
	Allowed   bool
	Failures  []domain.Failure
	Capacity  int // -1 when unbounded
	Confirmed int
}

// EnrollmentService validates enrollments against the current snapshot and
// persists the result.
type EnrollmentService interface {
	Check(ctx context.Context, in ProposeEnrollmentInput) (*EnrollmentCheck, error)
	Enroll(ctx context.Context, in EnrollInput) (*EnrollResult, error)
	Cancel(ctx context.Context, enrollmentID string) (*domain.Enrollment, error)
}

// ClientService answers billing questions about clients.
type ClientService interface {
	List(ctx context.Context, filter domain.ClientFilter) ([]domain.ClientSummary, error)
	Balance(ctx context.Context, clientID string) (*domain.Balance, error)
}

// CascadeService plans and applies deletions.
type CascadeService interface {
	Plan(ctx context.Context, kind domain.CascadeKind, id string) (*domain.CascadePlan, error)
	Delete(ctx context.Context, kind domain.CascadeKind, id string) (*domain.CascadePlan, error)
}

// ReportFormat selects the rendered body of a report.
type ReportFormat string

const (
	FormatJSON ReportFormat = "json"
	FormatCSV  ReportFormat = "csv"
)

// ReportRequest describes one report rendering.
type ReportRequest struct {
	Type   domain.ReportType
	Range  *domain.DateRange
	Format ReportFormat
}

// RenderedReport is a report body ready to send.
type RenderedReport struct {
	ContentType string
	Filename    string
	Body        []byte
	Cached      bool
}

// ReportService renders reports with caching.
type ReportService interface {
	Types() []domain.ReportDescriptor
	Render(ctx context.Context, req ReportRequest) (*RenderedReport, error)
}

// DashboardService computes the KPIs shown on the home screen.
type DashboardService interface {
	KPIs(ctx context.Context) (*domain.DashboardKPIs, error)
}

// QuoteService resolves quotes for document rendering.
type QuoteService interface {
	Document(ctx context.Context, quoteID string) (*domain.QuoteDocument, error)
}

// FuelCostInput describes a round trip to a venue.
type FuelCostInput struct {
	VenueID    string
	DistanceKm float64
	CostPerKm  float64
	Date       time.Time
	SlotID     string
	Method     domain.PaymentMethod
}

// CostService records operational costs.
type CostService interface {
	RecordFuelCost(ctx context.Context, in FuelCostInput) (*domain.OperationalCost, error)
}
