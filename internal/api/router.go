package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/goldline/production-tracker/docs"
	"github.com/goldline/production-tracker/internal/api/handler"
	"github.com/goldline/production-tracker/internal/api/middleware"
	"github.com/goldline/production-tracker/internal/core/domain"
	"github.com/goldline/production-tracker/internal/core/ports"
)

// Services groups the use cases exposed over HTTP.
type Services struct {
	Jobs      ports.JobService
	Users     ports.UserService
	Auth      ports.AuthService
	DailyLogs ports.DailyLogService
	Uploads   ports.UploadService
}

// Options tunes the router.
type Options struct {
	// JWTSecret enables bearer-token protection of user administration.
	// Empty leaves every route open.
	JWTSecret         string
	PinLoginPerMinute int
	ReadinessChecks   map[string]handler.DependencyCheck
	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// default Prometheus registry.
	Registry *prometheus.Registry
	Logger   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(opts.Logger))
	e.Use(echomiddleware.CORS())
	e.Use(prometheusMiddleware(opts.Registry))

	// --- Handlers ---
	jobHandler := handler.NewJobHandler(svc.Jobs)
	userHandler := handler.NewUserHandler(svc.Users)
	authHandler := handler.NewAuthHandler(svc.Auth)
	dailyLogHandler := handler.NewDailyLogHandler(svc.DailyLogs)
	uploadHandler := handler.NewUploadHandler(svc.Uploads)

	var adminOnly []echo.MiddlewareFunc
	if opts.JWTSecret != "" {
		adminOnly = []echo.MiddlewareFunc{middleware.Auth(opts.JWTSecret), middleware.RBAC(domain.RoleAdmin)}
	}

	api := e.Group("/api")

	// --- Users ---
	api.GET("/users", userHandler.List)
	api.GET("/users/:id", userHandler.Get)
	api.POST("/users", userHandler.Create, adminOnly...)
	api.PUT("/users/:id", userHandler.Update, adminOnly...)
	api.DELETE("/users/:id", userHandler.Delete, adminOnly...)
	// Seeding only ever touches an empty installation, where nobody could
	// hold an admin token yet.
	api.POST("/init", userHandler.Init)

	// --- Auth ---
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/pin-login", authHandler.PinLogin, middleware.RateLimitByIP(opts.PinLoginPerMinute))

	// --- Jobs ---
	api.GET("/jobs", jobHandler.List)
	api.GET("/jobs/:id", jobHandler.Get)
	api.POST("/jobs", jobHandler.Create)
	api.PUT("/jobs/:id", jobHandler.Update)
	api.POST("/jobs/:id/log", jobHandler.AppendLog)

	// --- Daily logs (/api/logs is the older path for the same resource) ---
	for _, prefix := range []string{"/daily-logs", "/logs"} {
		api.GET(prefix, dailyLogHandler.List)
		api.POST(prefix, dailyLogHandler.Create)
	}
	api.GET("/daily-logs/:id", dailyLogHandler.Get)
	api.DELETE("/daily-logs/:id", dailyLogHandler.Delete)

	// --- Uploads ---
	api.POST("/upload", uploadHandler.Upload)
	api.GET("/uploads/:name", uploadHandler.Serve)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(opts.ReadinessChecks)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", metricsHandler(opts.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

func prometheusMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	cfg := echoprometheus.MiddlewareConfig{
		Namespace: "tracker",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health" || c.Path() == "/health/ready"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return echoprometheus.NewMiddlewareWithConfig(cfg)
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}
