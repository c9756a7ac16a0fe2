package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/officina/workshop-system/internal/api/metrics"
	"github.com/officina/workshop-system/internal/core/domain"
	"github.com/officina/workshop-system/internal/core/ports"
)

const dateLayout = "2006-01-02"

// EnrollmentHandler handles HTTP requests for enrollment operations.
type EnrollmentHandler struct {
	service ports.EnrollmentService
}

func NewEnrollmentHandler(service ports.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

// --- Request / Response types ---

type proposeRequest struct {
	DependentID string `json:"dependent_id" validate:"required"`
	SlotID      string `json:"slot_id" validate:"required"`
	PlanID      string `json:"plan_id" validate:"required"`
	Pending     bool   `json:"pending"`
}

type paymentRequest struct {
	Amount      float64 `json:"amount" validate:"gt=0"`
	Method      string  `json:"method" validate:"required,oneof=cash transfer card"`
	Description string  `json:"description"`
	Date        string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type enrollRequest struct {
	proposeRequest
	Payment *paymentRequest `json:"payment"`
}

type enrollResponse struct {
	Enrollment   domain.Enrollment `json:"enrollment"`
	Payment      *domain.Payment   `json:"payment,omitempty"`
	PaymentError string            `json:"payment_error,omitempty"`
}

type checkResponse struct {
	Allowed   bool     `json:"allowed"`
	Failures  []string `json:"failures"`
	Capacity  *int     `json:"capacity"` // null when unbounded
	Confirmed int      `json:"confirmed"`
}

func (r proposeRequest) input() ports.ProposeEnrollmentInput {
	return ports.ProposeEnrollmentInput{
		DependentID: r.DependentID,
		SlotID:      r.SlotID,
		PlanID:      r.PlanID,
		Pending:     r.Pending,
	}
}

// Enroll handles POST /v1/enrollments.
//
// @Summary      Enroll a dependent in a workshop slot
// @Description  Validates the proposal against the current data and stores it, together with an optional payment. When the payment cannot be stored the enrollment is still returned with payment_error set.
// @Tags         enrollments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      enrollRequest  true  "Enrollment proposal"
// @Success      201   {object}  enrollResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/enrollments [post]
func (h *EnrollmentHandler) Enroll(c echo.Context) error {
	var req enrollRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	}

	in := ports.EnrollInput{ProposeEnrollmentInput: req.input()}
	if p := req.Payment; p != nil {
		payment := ports.PaymentInput{
			Amount:      p.Amount,
			Method:      domain.PaymentMethod(p.Method),
			Description: p.Description,
		}
		if p.Date != "" {
			// Already checked by the validator.
			payment.Date, _ = parseDate(p.Date)
		}
		in.Payment = &payment
	}

	result, err := h.service.Enroll(c.Request().Context(), in)
	metrics.EnrollmentsTotal.WithLabelValues(enrollOutcome(result, err)).Inc()
	if err != nil {
		return err
	}

	resp := enrollResponse{Enrollment: result.Enrollment, Payment: result.Payment}
	if result.PaymentErr != nil {
		resp.PaymentError = "enrollment saved, payment not recorded"
	}
	return c.JSON(http.StatusCreated, resp)
}

// Check handles POST /v1/enrollments/check.
//
// @Summary      Evaluate an enrollment proposal
// @Description  Reports every failed rule without storing anything.
// @Tags         enrollments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      proposeRequest  true  "Enrollment proposal"
// @Success      200   {object}  checkResponse
// @Failure      400   {object}  map[string]string
// @Router       /v1/enrollments/check [post]
func (h *EnrollmentHandler) Check(c echo.Context) error {
	var req proposeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	}

	check, err := h.service.Check(c.Request().Context(), req.input())
	if err != nil {
		return err
	}

	resp := checkResponse{Allowed: check.Allowed, Failures: []string{}, Confirmed: check.Confirmed}
	for _, f := range check.Failures {
		resp.Failures = append(resp.Failures, f.String())
	}
	if check.Capacity >= 0 {
		capacity := check.Capacity
		resp.Capacity = &capacity
	}
	return c.JSON(http.StatusOK, resp)
}

// Cancel handles POST /v1/enrollments/:id/cancel.
//
// @Summary      Cancel an enrollment
// @Description  Payments linked to the client are left untouched.
// @Tags         enrollments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Enrollment id"
// @Success      200  {object}  domain.Enrollment
// @Failure      404  {object}  map[string]string
// @Router       /v1/enrollments/{id}/cancel [post]
func (h *EnrollmentHandler) Cancel(c echo.Context) error {
	e, err := h.service.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func enrollOutcome(result *ports.EnrollResult, err error) string {
	switch {
	case err == nil:
		return string(result.Enrollment.Status)
	case errors.Is(err, domain.ErrDuplicateEnrollment):
		return "duplicate"
	case errors.Is(err, domain.ErrCapacityExceeded):
		return "capacity"
	case errors.Is(err, domain.ErrSlotBusy):
		return "busy"
	case domain.IsNotFound(err), errors.Is(err, domain.ErrInvalidAmount):
		return "invalid"
	default:
		return "error"
	}
}
