package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/officina/workshop-system/internal/core/domain"
	"github.com/officina/workshop-system/internal/core/ports"
)

// CascadeHandler previews and applies deletions of clients, dependents and
// suppliers. One handler value serves one root kind.
type CascadeHandler struct {
	service ports.CascadeService
	kind    domain.CascadeKind
	log     zerolog.Logger
}

func NewCascadeHandler(service ports.CascadeService, kind domain.CascadeKind, log zerolog.Logger) *CascadeHandler {
	return &CascadeHandler{service: service, kind: kind, log: log}
}

// Plan handles GET /v1/{clients|dependents|suppliers}/:id/cascade.
//
// @Summary      Preview a deletion
// @Description  Lists what deleting the record removes and which financial records are kept.
// @Tags         cascade
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Record id"
// @Success      200  {object}  domain.CascadePlan
// @Failure      404  {object}  map[string]string
// @Router       /v1/clients/{id}/cascade [get]
// @Router       /v1/dependents/{id}/cascade [get]
// @Router       /v1/suppliers/{id}/cascade [get]
func (h *CascadeHandler) Plan(c echo.Context) error {
	plan, err := h.service.Plan(c.Request().Context(), h.kind, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, plan)
}

// Delete handles DELETE /v1/{clients|dependents|suppliers}/:id. Admin only.
//
// @Summary      Delete a record and everything that depends on it
// @Tags         cascade
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Record id"
// @Success      200  {object}  domain.CascadePlan
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/clients/{id} [delete]
// @Router       /v1/dependents/{id} [delete]
// @Router       /v1/suppliers/{id} [delete]
func (h *CascadeHandler) Delete(c echo.Context) error {
	op, err := ctxOperator(c)
	if err != nil {
		return err
	}

	plan, err := h.service.Delete(c.Request().Context(), h.kind, c.Param("id"))
	if err != nil {
		return err
	}

	h.log.Info().
		Str("operator", op.Username).
		Str("kind", string(h.kind)).
		Str("id", plan.RootID).
		Msg("record deleted")
	return c.JSON(http.StatusOK, plan)
}
