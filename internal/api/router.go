package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/officina/workshop-system/internal/api/handler"
	"github.com/officina/workshop-system/internal/api/middleware"
	"github.com/officina/workshop-system/internal/core/domain"
	"github.com/officina/workshop-system/internal/core/ports"

	_ "github.com/officina/workshop-system/docs" // swagger spec registration
)

// Dependencies are the services the HTTP surface exposes.
type Dependencies struct {
	Auth        ports.AuthService
	Enrollments ports.EnrollmentService
	Clients     ports.ClientService
	Cascade     ports.CascadeService
	Reports     ports.ReportService
	Dashboard   ports.DashboardService
	Quotes      ports.QuoteService
	Costs       ports.CostService

	Snapshots ports.SnapshotProvider
	Probes    map[string]handler.Probe

	JWTSecret string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddleware("workshop"))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Probes, deps.Snapshots)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies and data up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Back office API ---
	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret), middleware.RBAC(domain.RoleAdmin, domain.RoleStaff))
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	enrollments := handler.NewEnrollmentHandler(deps.Enrollments)
	v1.POST("/enrollments", enrollments.Enroll)
	v1.POST("/enrollments/check", enrollments.Check)
	v1.POST("/enrollments/:id/cancel", enrollments.Cancel)

	clients := handler.NewClientHandler(deps.Clients)
	v1.GET("/clients", clients.List)
	v1.GET("/clients/:id/balance", clients.Balance)

	for prefix, kind := range map[string]domain.CascadeKind{
		"/clients":    domain.CascadeClient,
		"/dependents": domain.CascadeDependent,
		"/suppliers":  domain.CascadeSupplier,
	} {
		h := handler.NewCascadeHandler(deps.Cascade, kind, deps.Log)
		v1.GET(prefix+"/:id/cascade", h.Plan)
		v1.DELETE(prefix+"/:id", h.Delete, adminOnly)
	}

	reports := handler.NewReportHandler(deps.Reports)
	v1.GET("/reports", reports.Types)
	v1.GET("/reports/:type", reports.Get)

	v1.GET("/dashboard", handler.NewDashboardHandler(deps.Dashboard).KPIs)
	v1.GET("/quotes/:id/document", handler.NewQuoteHandler(deps.Quotes).Document)
	v1.POST("/costs/fuel", handler.NewCostHandler(deps.Costs).RecordFuel)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
