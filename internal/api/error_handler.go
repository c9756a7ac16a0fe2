package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/officina/workshop-system/internal/core/domain"
	"github.com/officina/workshop-system/internal/infrastructure/queue"
)

// errorResponse is the canonical error envelope for all API errors.
// Details lists every failed rule when a proposal is rejected.
type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	resp := errorResponse{Error: rootMessage(err)}
	if vf, ok := domain.AsValidationFailure(err); ok {
		resp.Details = vf.Messages()
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case domain.IsNotFound(err), errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, resp
	case errors.Is(err, domain.ErrDuplicateEnrollment),
		errors.Is(err, domain.ErrSlotBusy),
		errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, resp
	case errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrMissingReportDate),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrQuoteRecipientMissing),
		errors.Is(err, domain.ErrCompanyProfileMissing):
		return http.StatusUnprocessableEntity, resp
	case errors.Is(err, domain.ErrUnknownReportType):
		return http.StatusBadRequest, resp
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrSnapshotUnavailable), errors.Is(err, queue.ErrStopped):
		return http.StatusServiceUnavailable, errorResponse{Error: "service not ready"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

// rootMessage drops the "op: " prefixes added while the error bubbled up.
func rootMessage(err error) string {
	if vf, ok := domain.AsValidationFailure(err); ok {
		return vf.Error()
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
