package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/officina/workshop-system/internal/api/middleware"
)

// operator identifies who made the request.
type operator struct {
	ID       string
	Username string
	Role     string
}

// ctxOperator extracts the claims injected by the Auth middleware. A missing
// role means the middleware never ran.
func ctxOperator(c echo.Context) (operator, error) {
	var op operator
	op.Role, _ = c.Get(middleware.CtxRole).(string)
	if op.Role == "" {
		return op, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	op.ID, _ = c.Get(middleware.CtxUserID).(string)
	op.Username, _ = c.Get(middleware.CtxUsername).(string)
	return op, nil
}

// errorBody is the envelope for errors answered directly by handlers.
func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
