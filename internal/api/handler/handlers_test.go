package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/officina/workshop-system/internal/api/middleware"
	"github.com/officina/workshop-system/internal/core/domain"
	"github.com/officina/workshop-system/internal/core/ports"
)

// --- stubs ---

type stubEnrollmentService struct {
	enrollFn func(ctx context.Context, in ports.EnrollInput) (*ports.EnrollResult, error)
	checkFn  func(ctx context.Context, in ports.ProposeEnrollmentInput) (*ports.EnrollmentCheck, error)
	cancelFn func(ctx context.Context, id string) (*domain.Enrollment, error)
}

func (s *stubEnrollmentService) Enroll(ctx context.Context, in ports.EnrollInput) (*ports.EnrollResult, error) {
	return s.enrollFn(ctx, in)
}

func (s *stubEnrollmentService) Check(ctx context.Context, in ports.ProposeEnrollmentInput) (*ports.EnrollmentCheck, error) {
	return s.checkFn(ctx, in)
}

func (s *stubEnrollmentService) Cancel(ctx context.Context, id string) (*domain.Enrollment, error) {
	return s.cancelFn(ctx, id)
}

type stubClientService struct {
	listFn func(ctx context.Context, f domain.ClientFilter) ([]domain.ClientSummary, error)
}

func (s *stubClientService) List(ctx context.Context, f domain.ClientFilter) ([]domain.ClientSummary, error) {
	return s.listFn(ctx, f)
}

func (s *stubClientService) Balance(_ context.Context, id string) (*domain.Balance, error) {
	if id != "c1" {
		return nil, domain.ErrClientNotFound
	}
	return &domain.Balance{ClientID: id, Due: 60, Paid: 60, Settled: true}, nil
}

type stubCascadeService struct {
	deleted []string
}

func (s *stubCascadeService) Plan(_ context.Context, kind domain.CascadeKind, id string) (*domain.CascadePlan, error) {
	return &domain.CascadePlan{Kind: kind, RootID: id}, nil
}

func (s *stubCascadeService) Delete(_ context.Context, kind domain.CascadeKind, id string) (*domain.CascadePlan, error) {
	s.deleted = append(s.deleted, string(kind)+":"+id)
	return &domain.CascadePlan{Kind: kind, RootID: id, ClientIDs: []string{id}}, nil
}

type stubReportService struct {
	got ports.ReportRequest
	out *ports.RenderedReport
	err error
}

func (s *stubReportService) Types() []domain.ReportDescriptor {
	return []domain.ReportDescriptor{{Type: "revenue_by_method", Title: "Incassi per metodo"}}
}

func (s *stubReportService) Render(_ context.Context, req ports.ReportRequest) (*ports.RenderedReport, error) {
	s.got = req
	return s.out, s.err
}

type stubCostService struct {
	got ports.FuelCostInput
}

func (s *stubCostService) RecordFuelCost(_ context.Context, in ports.FuelCostInput) (*domain.OperationalCost, error) {
	s.got = in
	return &domain.OperationalCost{ID: "k1", Amount: domain.RoundCents(in.DistanceKm * 2 * in.CostPerKm), CostType: domain.CostFuel}, nil
}

type stubSnapshots struct {
	snap *domain.Snapshot
}

func (s stubSnapshots) Current() (*domain.Snapshot, error) {
	if s.snap == nil {
		return nil, domain.ErrSnapshotUnavailable
	}
	return s.snap, nil
}

func (stubSnapshots) Apply(func(*domain.Snapshot) *domain.Snapshot) {}

func (stubSnapshots) Refresh(context.Context) error { return nil }

// --- helpers ---

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v (%s)", err, rec.Body.String())
	}
	return out
}

// --- enrollments ---

func TestEnrollmentHandler_Enroll_WithPayment(t *testing.T) {
	stub := &stubEnrollmentService{
		enrollFn: func(_ context.Context, in ports.EnrollInput) (*ports.EnrollResult, error) {
			if in.DependentID != "d1" || in.SlotID != "w1" || in.PlanID != "p1" || !in.Pending {
				t.Fatalf("unexpected proposal: %+v", in.ProposeEnrollmentInput)
			}
			if in.Payment == nil || in.Payment.Amount != 60 || in.Payment.Method != domain.MethodCash {
				t.Fatalf("unexpected payment: %+v", in.Payment)
			}
			if in.Payment.Date.Year() != 2024 || in.Payment.Date.Month() != time.March || in.Payment.Date.Day() != 5 {
				t.Fatalf("unexpected payment date: %v", in.Payment.Date)
			}
			return &ports.EnrollResult{
				Enrollment: domain.Enrollment{ID: "e1", DependentID: "d1", SlotID: "w1", Status: domain.EnrollmentPending},
				Payment:    &domain.Payment{ID: "pay1", Amount: 60},
			}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/v1/enrollments",
		`{"dependent_id":"d1","slot_id":"w1","plan_id":"p1","pending":true,"payment":{"amount":60,"method":"cash","date":"2024-03-05"}}`)

	if err := NewEnrollmentHandler(stub).Enroll(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	resp := decode(t, rec)
	enrollment, _ := resp["enrollment"].(map[string]any)
	if enrollment["id"] != "e1" || enrollment["status"] != "pending" {
		t.Errorf("unexpected enrollment payload: %+v", enrollment)
	}
	if _, ok := resp["payment"].(map[string]any); !ok {
		t.Errorf("expected payment in response")
	}
}

func TestEnrollmentHandler_Enroll_PaymentNotRecorded(t *testing.T) {
	stub := &stubEnrollmentService{
		enrollFn: func(context.Context, ports.EnrollInput) (*ports.EnrollResult, error) {
			return &ports.EnrollResult{
				Enrollment: domain.Enrollment{ID: "e1", DependentID: "d1", SlotID: "w1", Status: domain.EnrollmentConfirmed},
				PaymentErr: errors.New("record payment: mongo write timeout"),
			}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/v1/enrollments",
		`{"dependent_id":"d1","slot_id":"w1","plan_id":"p1","payment":{"amount":60,"method":"card"}}`)

	if err := NewEnrollmentHandler(stub).Enroll(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for a stored enrollment, got %d", rec.Code)
	}
	resp := decode(t, rec)
	if enrollment, _ := resp["enrollment"].(map[string]any); enrollment["id"] != "e1" {
		t.Errorf("unexpected enrollment payload: %+v", resp["enrollment"])
	}
	if _, ok := resp["payment"]; ok {
		t.Errorf("payment must be absent, got %+v", resp["payment"])
	}
	if resp["payment_error"] != "enrollment saved, payment not recorded" {
		t.Errorf("payment_error = %v", resp["payment_error"])
	}
}

func TestEnrollmentHandler_Enroll_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing slot", `{"dependent_id":"d1","plan_id":"p1"}`, "slot_id is required"},
		{"bad method", `{"dependent_id":"d1","slot_id":"w1","plan_id":"p1","payment":{"amount":5,"method":"cheque"}}`, "method must be one of"},
		{"zero amount", `{"dependent_id":"d1","slot_id":"w1","plan_id":"p1","payment":{"amount":0,"method":"cash"}}`, "amount must be greater than 0"},
		{"bad date", `{"dependent_id":"d1","slot_id":"w1","plan_id":"p1","payment":{"amount":5,"method":"cash","date":"05/03/2024"}}`, "date must be a date"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubEnrollmentService{
				enrollFn: func(context.Context, ports.EnrollInput) (*ports.EnrollResult, error) {
					t.Fatalf("service should not be called")
					return nil, nil
				},
			}
			c, rec := newContext(http.MethodPost, "/v1/enrollments", tc.body)

			_ = NewEnrollmentHandler(stub).Enroll(c)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if msg, _ := decode(t, rec)["error"].(string); !strings.Contains(msg, tc.want) {
				t.Errorf("expected error containing %q, got %q", tc.want, msg)
			}
		})
	}
}

func TestEnrollmentHandler_Enroll_PropagatesRuleFailure(t *testing.T) {
	var vf domain.ValidationFailure
	vf.Add("slot_id", domain.ErrCapacityExceeded)
	stub := &stubEnrollmentService{
		enrollFn: func(context.Context, ports.EnrollInput) (*ports.EnrollResult, error) {
			return nil, &vf
		},
	}
	c, _ := newContext(http.MethodPost, "/v1/enrollments", `{"dependent_id":"d1","slot_id":"w1","plan_id":"p1"}`)

	err := NewEnrollmentHandler(stub).Enroll(c)
	if !errors.Is(err, domain.ErrCapacityExceeded) {
		t.Fatalf("expected capacity error, got %v", err)
	}
}

func TestEnrollOutcome(t *testing.T) {
	confirmed := &ports.EnrollResult{Enrollment: domain.Enrollment{Status: domain.EnrollmentConfirmed}}
	tests := []struct {
		err  error
		want string
	}{
		{nil, "confirmed"},
		{domain.ErrDuplicateEnrollment, "duplicate"},
		{domain.ErrCapacityExceeded, "capacity"},
		{domain.ErrSlotBusy, "busy"},
		{domain.ErrPlanNotFound, "invalid"},
		{errors.New("boom"), "error"},
	}
	for _, tc := range tests {
		if got := enrollOutcome(confirmed, tc.err); got != tc.want {
			t.Errorf("enrollOutcome(%v): expected %q, got %q", tc.err, tc.want, got)
		}
	}
}

func TestEnrollmentHandler_Check(t *testing.T) {
	stub := &stubEnrollmentService{
		checkFn: func(_ context.Context, in ports.ProposeEnrollmentInput) (*ports.EnrollmentCheck, error) {
			return &ports.EnrollmentCheck{
				Allowed:   false,
				Failures:  []domain.Failure{{Field: "slot_id", Err: domain.ErrDuplicateEnrollment}},
				Capacity:  -1,
				Confirmed: 4,
			}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/v1/enrollments/check", `{"dependent_id":"d1","slot_id":"w1","plan_id":"p1"}`)

	if err := NewEnrollmentHandler(stub).Check(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec)
	if resp["allowed"] != false || resp["capacity"] != nil || resp["confirmed"] != float64(4) {
		t.Errorf("unexpected check payload: %+v", resp)
	}
	failures, _ := resp["failures"].([]any)
	if len(failures) != 1 || failures[0] != "slot_id: dependent already enrolled in this slot" {
		t.Errorf("unexpected failures: %+v", failures)
	}
}

func TestEnrollmentHandler_Cancel(t *testing.T) {
	stub := &stubEnrollmentService{
		cancelFn: func(_ context.Context, id string) (*domain.Enrollment, error) {
			if id != "e1" {
				return nil, domain.ErrEnrollmentNotFound
			}
			return &domain.Enrollment{ID: id, Status: domain.EnrollmentCancelled}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/v1/enrollments/e1/cancel", "")
	c.SetParamNames("id")
	c.SetParamValues("e1")

	if err := NewEnrollmentHandler(stub).Cancel(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if decode(t, rec)["status"] != "cancelled" {
		t.Errorf("expected cancelled status, got %s", rec.Body.String())
	}
}

// --- clients ---

func TestClientHandler_List(t *testing.T) {
	stub := &stubClientService{
		listFn: func(_ context.Context, f domain.ClientFilter) ([]domain.ClientSummary, error) {
			if f.Name != "ros" || f.Status != domain.ClientActive || f.MinRating != 3 ||
				f.PaymentStatus != domain.PaymentStatusUnpaid || f.Sort != domain.SortRatingDesc {
				t.Fatalf("unexpected filter: %+v", f)
			}
			return []domain.ClientSummary{{
				Client: domain.Client{
					ID:       "c2",
					Identity: domain.Organization{CompanyName: "Scuola Arcobaleno", VATNumber: "01234567890"},
					Status:   domain.ClientActive,
					Rating:   4,
				},
				Dependents: 1,
				Balance:    domain.Balance{ClientID: "c2", Due: 60, Outstanding: 60},
			}}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/v1/clients?name=ros&status=active&min_rating=3&payment_status=unpaid&sort=rating_desc", "")

	if err := NewClientHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec)
	if resp["total"] != float64(1) {
		t.Fatalf("expected 1 client, got %v", resp["total"])
	}
	row := resp["data"].([]any)[0].(map[string]any)
	if row["type"] != "organization" || row["display_name"] != "Scuola Arcobaleno" || row["tax_id"] != "01234567890" {
		t.Errorf("unexpected row: %+v", row)
	}
}

func TestClientHandler_List_RejectsUnknownSort(t *testing.T) {
	stub := &stubClientService{
		listFn: func(context.Context, domain.ClientFilter) ([]domain.ClientSummary, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/v1/clients?sort=name", "")

	_ = NewClientHandler(stub).List(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestClientHandler_Balance_NotFound(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/v1/clients/c9/balance", "")
	c.SetParamNames("id")
	c.SetParamValues("c9")

	err := NewClientHandler(&stubClientService{}).Balance(c)
	if !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// --- cascade ---

func TestCascadeHandler_DeleteNeedsClaims(t *testing.T) {
	stub := &stubCascadeService{}
	c, _ := newContext(http.MethodDelete, "/v1/clients/c1", "")
	c.SetParamNames("id")
	c.SetParamValues("c1")

	err := NewCascadeHandler(stub, domain.CascadeClient, zerolog.Nop()).Delete(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if len(stub.deleted) != 0 {
		t.Errorf("nothing should be deleted")
	}
}

func TestCascadeHandler_Delete(t *testing.T) {
	stub := &stubCascadeService{}
	c, rec := newContext(http.MethodDelete, "/v1/suppliers/s1", "")
	c.SetParamNames("id")
	c.SetParamValues("s1")
	c.Set(middleware.CtxRole, domain.RoleAdmin)
	c.Set(middleware.CtxUsername, "admin")

	if err := NewCascadeHandler(stub, domain.CascadeSupplier, zerolog.Nop()).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(stub.deleted) != 1 || stub.deleted[0] != "supplier:s1" {
		t.Errorf("unexpected deletions: %v", stub.deleted)
	}
	if decode(t, rec)["kind"] != "supplier" {
		t.Errorf("unexpected plan: %s", rec.Body.String())
	}
}

// --- reports ---

func TestReportHandler_Get_CSV(t *testing.T) {
	stub := &stubReportService{out: &ports.RenderedReport{
		ContentType: "text/csv; charset=utf-8",
		Filename:    "revenue_by_method_report.csv",
		Body:        []byte(`"Metodo","Totale"` + "\n"),
		Cached:      true,
	}}
	c, rec := newContext(http.MethodGet, "/v1/reports/revenue_by_method?from=2024-03-01&to=2024-03-31&format=csv", "")
	c.SetParamNames("type")
	c.SetParamValues("revenue_by_method")

	if err := NewReportHandler(stub).Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if stub.got.Type != "revenue_by_method" || stub.got.Format != ports.FormatCSV {
		t.Errorf("unexpected request: %+v", stub.got)
	}
	if stub.got.Range == nil || stub.got.Range.From.Day() != 1 || stub.got.Range.To.Day() != 31 {
		t.Errorf("unexpected range: %+v", stub.got.Range)
	}
	if got := rec.Header().Get(echo.HeaderContentDisposition); got != `attachment; filename="revenue_by_method_report.csv"` {
		t.Errorf("unexpected content disposition: %q", got)
	}
	if rec.Header().Get("X-Cache") != "hit" {
		t.Errorf("expected cache hit header")
	}
	if !strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "text/csv") {
		t.Errorf("unexpected content type: %q", rec.Header().Get(echo.HeaderContentType))
	}
}

func TestReportHandler_Get_OpenRange(t *testing.T) {
	stub := &stubReportService{out: &ports.RenderedReport{ContentType: "application/json", Body: []byte(`{}`)}}
	c, _ := newContext(http.MethodGet, "/v1/reports/registrations?from=2024-03-01", "")
	c.SetParamNames("type")
	c.SetParamValues("registrations")

	if err := NewReportHandler(stub).Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.got.Range == nil || stub.got.Range.From.IsZero() || !stub.got.Range.To.IsZero() {
		t.Errorf("expected a half-open range, got %+v", stub.got.Range)
	}
}

func TestReportHandler_Get_NoRange(t *testing.T) {
	stub := &stubReportService{out: &ports.RenderedReport{ContentType: "application/json", Body: []byte(`{}`)}}
	c, _ := newContext(http.MethodGet, "/v1/reports/registrations", "")
	c.SetParamNames("type")
	c.SetParamValues("registrations")

	if err := NewReportHandler(stub).Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.got.Range != nil {
		t.Errorf("expected no range, got %+v", stub.got.Range)
	}
}

func TestReportHandler_Get_BadDate(t *testing.T) {
	stub := &stubReportService{}
	c, rec := newContext(http.MethodGet, "/v1/reports/registrations?from=01/03/2024", "")
	c.SetParamNames("type")
	c.SetParamValues("registrations")

	_ = NewReportHandler(stub).Get(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if stub.got.Type != "" {
		t.Errorf("service should not be called")
	}
}

func TestReportHandler_Get_PropagatesUnknownType(t *testing.T) {
	stub := &stubReportService{err: domain.ErrUnknownReportType}
	c, _ := newContext(http.MethodGet, "/v1/reports/nope", "")
	c.SetParamNames("type")
	c.SetParamValues("nope")

	if err := NewReportHandler(stub).Get(c); !errors.Is(err, domain.ErrUnknownReportType) {
		t.Fatalf("expected unknown report type, got %v", err)
	}
}

// --- costs ---

func TestCostHandler_RecordFuel(t *testing.T) {
	stub := &stubCostService{}
	c, rec := newContext(http.MethodPost, "/v1/costs/fuel", `{"venue_id":"v1","distance_km":12.5,"cost_per_km":0.2,"date":"2024-03-05"}`)

	if err := NewCostHandler(stub).RecordFuel(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if stub.got.VenueID != "v1" || stub.got.Date.Day() != 5 {
		t.Errorf("unexpected input: %+v", stub.got)
	}
	if decode(t, rec)["amount"] != float64(5) {
		t.Errorf("unexpected amount: %s", rec.Body.String())
	}
}

func TestCostHandler_RecordFuel_Validation(t *testing.T) {
	stub := &stubCostService{}
	c, rec := newContext(http.MethodPost, "/v1/costs/fuel", `{"venue_id":"v1","distance_km":-3,"cost_per_km":0.2}`)

	_ = NewCostHandler(stub).RecordFuel(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if stub.got.VenueID != "" {
		t.Errorf("service should not be called")
	}
}

// --- health ---

func TestHealthDependenciesHandler_Readiness(t *testing.T) {
	ready := stubSnapshots{snap: domain.NewSnapshot(domain.Collections{}, 7, time.Now())}
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name      string
		probes    map[string]Probe
		snapshots stubSnapshots
		wantCode  int
	}{
		{"all healthy", map[string]Probe{"mongodb": ok, "redis": ok}, ready, http.StatusOK},
		{"redis down", map[string]Probe{"mongodb": ok, "redis": down}, ready, http.StatusServiceUnavailable},
		{"snapshot not loaded", map[string]Probe{"mongodb": ok}, stubSnapshots{}, http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/health/ready", "")

			if err := NewHealthDependenciesHandler(tc.probes, tc.snapshots).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
		})
	}
}
