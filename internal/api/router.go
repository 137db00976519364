package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/richschool/compound-school/internal/api/handler"
	"github.com/richschool/compound-school/internal/api/middleware"
	"github.com/richschool/compound-school/internal/core/domain"
	"github.com/richschool/compound-school/internal/core/ports"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Game      ports.GameService
	Auth      ports.AuthService
	JWTSecret string
	// Checks are pinged by the readiness probe, keyed by dependency name.
	Checks map[string]handler.Check
	Log    zerolog.Logger

	// Registerer and Gatherer default to the process-wide Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType, "Idempotency-Key"},
		ExposeHeaders: []string{echo.HeaderContentDisposition},
	}))
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "compound_school",
		Registerer: d.Registerer,
	}))

	// --- Handlers ---
	sessionHandler := handler.NewSessionHandler(d.Game, d.Auth)
	classroomHandler := handler.NewClassroomHandler(d.Game)
	authHandler := handler.NewAuthHandler(d.Auth)
	healthHandler := handler.NewHealthHandler(d.Checks)
	auth := middleware.Auth(d.JWTSecret)

	// --- Probes, metrics, docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")
	v1.POST("/auth/teacher", authHandler.TeacherLogin)

	// --- Sessions ---
	v1.POST("/sessions", sessionHandler.Create)
	sessions := v1.Group("/sessions/:id", auth)
	sessions.GET("", sessionHandler.Get)
	sessions.DELETE("", sessionHandler.Reset)
	sessions.POST("/events", sessionHandler.PostEvent)
	sessions.GET("/certificate.png", sessionHandler.Certificate)

	// --- Classroom ---
	classroom := v1.Group("/classroom", auth, middleware.RBAC(domain.RoleTeacher))
	classroom.GET("/sessions", classroomHandler.List)
	classroom.GET("/sessions/:id/journal", classroomHandler.Journal)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

