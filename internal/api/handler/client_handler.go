package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/officina/workshop-system/internal/core/domain"
	"github.com/officina/workshop-system/internal/core/ports"
)

// ClientHandler serves client listings and balances.
type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

type listClientsRequest struct {
	Name          string `query:"name"`
	Status        string `query:"status" validate:"omitempty,oneof=active suspended prospect terminated"`
	MinRating     int    `query:"min_rating" validate:"gte=0,lte=5"`
	PaymentStatus string `query:"payment_status" validate:"omitempty,oneof=paid unpaid"`
	Sort          string `query:"sort" validate:"omitempty,oneof=surname_asc surname_desc rating_desc rating_asc"`
}

type clientResponse struct {
	ID          string               `json:"id"`
	Type        string               `json:"type,omitempty"`
	DisplayName string               `json:"display_name"`
	TaxID       string               `json:"tax_id,omitempty"`
	Email       string               `json:"email,omitempty"`
	Phone       string               `json:"phone,omitempty"`
	Address     domain.PostalAddress `json:"address"`
	Status      string               `json:"status"`
	Rating      int                  `json:"rating"`
	CreatedAt   string               `json:"created_at,omitempty"`
	Dependents  int                  `json:"dependents"`
	Balance     domain.Balance       `json:"balance"`
}

type listClientsResponse struct {
	Data  []clientResponse `json:"data"`
	Total int              `json:"total"`
}

func toClientResponse(s domain.ClientSummary) clientResponse {
	c := s.Client
	resp := clientResponse{
		ID:          c.ID,
		Type:        string(c.Kind()),
		DisplayName: c.DisplayName(),
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		Status:      string(c.Status),
		Rating:      c.Rating,
		Dependents:  s.Dependents,
		Balance:     s.Balance,
	}
	switch id := c.Identity.(type) {
	case domain.Individual:
		resp.TaxID = id.TaxCode
	case domain.Organization:
		resp.TaxID = id.VATNumber
	}
	if !c.CreatedAt.IsZero() {
		resp.CreatedAt = c.CreatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

// List handles GET /v1/clients.
//
// @Summary      List clients
// @Description  Filters by name, status, minimum rating and payment status, then sorts.
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        name            query     string  false  "Substring of the display name"
// @Param        status          query     string  false  "active, suspended, prospect or terminated"
// @Param        min_rating      query     int     false  "Minimum rating (0-5)"
// @Param        payment_status  query     string  false  "paid or unpaid"
// @Param        sort            query     string  false  "surname_asc, surname_desc, rating_desc or rating_asc"
// @Success      200             {object}  listClientsResponse
// @Failure      400             {object}  map[string]string
// @Router       /v1/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	var req listClientsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid query parameters"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	}

	rows, err := h.service.List(c.Request().Context(), domain.ClientFilter{
		Name:          req.Name,
		Status:        domain.ClientStatus(req.Status),
		MinRating:     req.MinRating,
		PaymentStatus: domain.PaymentStatus(req.PaymentStatus),
		Sort:          domain.ClientSort(req.Sort),
	})
	if err != nil {
		return err
	}

	resp := listClientsResponse{Data: make([]clientResponse, 0, len(rows)), Total: len(rows)}
	for _, r := range rows {
		resp.Data = append(resp.Data, toClientResponse(r))
	}
	return c.JSON(http.StatusOK, resp)
}

// Balance handles GET /v1/clients/:id/balance.
//
// @Summary      Client balance
// @Description  Compares the dues of the client's active enrollments with everything it paid.
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  domain.Balance
// @Failure      404  {object}  map[string]string
// @Router       /v1/clients/{id}/balance [get]
func (h *ClientHandler) Balance(c echo.Context) error {
	b, err := h.service.Balance(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}
