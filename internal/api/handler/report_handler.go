package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/officina/workshop-system/internal/api/metrics"
	"github.com/officina/workshop-system/internal/core/domain"
	"github.com/officina/workshop-system/internal/core/ports"
)

// ReportHandler serves the reporting aggregator.
type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

type reportQuery struct {
	From   string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Format string `query:"format" validate:"omitempty,oneof=json csv"`
}

// Types handles GET /v1/reports.
//
// @Summary      List report types
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.ReportDescriptor
// @Router       /v1/reports [get]
func (h *ReportHandler) Types(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Types())
}

// Get handles GET /v1/reports/:type.
//
// @Summary      Generate a report
// @Description  Dates are inclusive; to covers the whole day. CSV bodies quote every cell.
// @Tags         reports
// @Produce      json
// @Produce      text/csv
// @Security     BearerAuth
// @Param        type    path      string  true   "Report type"
// @Param        from    query     string  false  "Start date (YYYY-MM-DD)"
// @Param        to      query     string  false  "End date (YYYY-MM-DD)"
// @Param        format  query     string  false  "json (default) or csv"
// @Success      200     {object}  domain.Report
// @Failure      400     {object}  map[string]string
// @Failure      422     {object}  map[string]string
// @Router       /v1/reports/{type} [get]
func (h *ReportHandler) Get(c echo.Context) error {
	var q reportQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid query parameters"))
	}
	if err := c.Validate(&q); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	}

	req := ports.ReportRequest{
		Type:   domain.ReportType(c.Param("type")),
		Format: ports.ReportFormat(q.Format),
	}
	if q.From != "" || q.To != "" {
		var r domain.DateRange
		r.From, _ = parseDate(q.From)
		r.To, _ = parseDate(q.To)
		req.Range = &r
	}

	out, err := h.service.Render(c.Request().Context(), req)
	if err != nil {
		return err
	}

	cache := "miss"
	if out.Cached {
		cache = "hit"
	}
	metrics.ReportCacheTotal.WithLabelValues(cache).Inc()
	metrics.ReportsRenderedTotal.WithLabelValues(string(req.Type), formatLabel(req.Format)).Inc()

	c.Response().Header().Set("X-Cache", cache)
	if out.Filename != "" {
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", out.Filename))
	}
	return c.Blob(http.StatusOK, out.ContentType, out.Body)
}

// parseDate returns the zero time for an empty string. Dates are local
// calendar days.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(dateLayout, s, time.Local)
}

func formatLabel(f ports.ReportFormat) string {
	if f == ports.FormatCSV {
		return string(ports.FormatCSV)
	}
	return string(ports.FormatJSON)
}
