package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/officina/workshop-system/internal/core/domain"
	"github.com/officina/workshop-system/internal/core/ports"
)

// DashboardHandler serves the home screen KPIs.
type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// KPIs handles GET /v1/dashboard.
//
// @Summary      Dashboard KPIs
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.DashboardKPIs
// @Failure      503  {object}  map[string]string
// @Router       /v1/dashboard [get]
func (h *DashboardHandler) KPIs(c echo.Context) error {
	kpis, err := h.service.KPIs(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, kpis)
}

// QuoteHandler serves resolved quote documents.
type QuoteHandler struct {
	service ports.QuoteService
}

func NewQuoteHandler(service ports.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// Document handles GET /v1/quotes/:id/document.
//
// @Summary      Quote document
// @Description  Resolves the recipient and the issuer and computes stamp duty and total.
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Quote id"
// @Success      200  {object}  domain.QuoteDocument
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/quotes/{id}/document [get]
func (h *QuoteHandler) Document(c echo.Context) error {
	doc, err := h.service.Document(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// CostHandler records operational costs.
type CostHandler struct {
	service ports.CostService
}

func NewCostHandler(service ports.CostService) *CostHandler {
	return &CostHandler{service: service}
}

type fuelCostRequest struct {
	VenueID    string  `json:"venue_id" validate:"required"`
	DistanceKm float64 `json:"distance_km" validate:"gt=0"`
	CostPerKm  float64 `json:"cost_per_km" validate:"gt=0"`
	Date       string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	SlotID     string  `json:"slot_id"`
	Method     string  `json:"method" validate:"omitempty,oneof=cash transfer card"`
}

// RecordFuel handles POST /v1/costs/fuel.
//
// @Summary      Record a fuel cost
// @Description  Prices the round trip to a venue (distance counted twice) and stores it.
// @Tags         costs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      fuelCostRequest  true  "Trip details"
// @Success      201   {object}  domain.OperationalCost
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/costs/fuel [post]
func (h *CostHandler) RecordFuel(c echo.Context) error {
	var req fuelCostRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	}

	var date time.Time
	if req.Date != "" {
		date, _ = parseDate(req.Date)
	}
	cost, err := h.service.RecordFuelCost(c.Request().Context(), ports.FuelCostInput{
		VenueID:    req.VenueID,
		DistanceKm: req.DistanceKm,
		CostPerKm:  req.CostPerKm,
		Date:       date,
		SlotID:     req.SlotID,
		Method:     domain.PaymentMethod(req.Method),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cost)
}
