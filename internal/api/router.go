package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/landsurveyors/directory-api/docs"
	"github.com/landsurveyors/directory-api/internal/api/handler"
	"github.com/landsurveyors/directory-api/internal/api/middleware"
	"github.com/landsurveyors/directory-api/internal/core/ports"
	"github.com/landsurveyors/directory-api/internal/infrastructure/http/handlers"
)

// Options carries the transport settings of the router.
type Options struct {
	Env            string
	RequestTimeout time.Duration
	CORSOrigins    []string
	// GeneralLimit applies to every /api route, AuthLimit additionally to
	// login and registration. Both are ignored when Deps.Limiter is nil.
	GeneralLimit middleware.RateLimitConfig
	AuthLimit    middleware.RateLimitConfig
}

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Auth      ports.AuthService
	Profiles  ports.ProfileService
	Reference ports.ReferenceService
	Mail      ports.EmailQueue
	Tokens    middleware.TokenVerifier
	// Limiter backs rate limiting; nil disables it.
	Limiter middleware.WindowCounter
	// Checks are the readiness probes served on /health/ready.
	Checks map[string]handlers.Check
	// Registry receives the HTTP metrics and serves /metrics. Nil uses the
	// default prometheus registry.
	Registry *prometheus.Registry
	Log      zerolog.Logger
	Options  Options
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Options.Env)

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: corsOrigins(d.Options.CORSOrigins),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "directory",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/health")
		},
	}))
	if d.Options.RequestTimeout > 0 {
		e.Use(echomiddleware.ContextTimeoutWithConfig(echomiddleware.ContextTimeoutConfig{
			Timeout: d.Options.RequestTimeout,
		}))
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	profileHandler := handler.NewProfileHandler(d.Profiles)
	directoryHandler := handler.NewDirectoryHandler(d.Profiles, d.Reference)
	emailHandler := handler.NewEmailHandler(d.Mail)
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Checks)

	// --- Operational routes (no auth, no rate limit) ---
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	authLimit := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if d.Limiter != nil {
		api.Use(middleware.RateLimit(d.Limiter, d.Options.GeneralLimit, d.Log))
		authLimit = middleware.RateLimit(d.Limiter, d.Options.AuthLimit, d.Log)
	}

	// --- Auth routes ---
	api.POST("/auth/login", authHandler.Login, authLimit)
	api.POST("/registration/register-user", authHandler.Register, authLimit)

	// --- Owner-only profile routes ---
	// Auth is attached per route: group middleware would also claim unmatched
	// paths under the prefix and answer them 401 instead of 404.
	profile := api.Group("/user-profile")
	owner := []echo.MiddlewareFunc{middleware.Auth(d.Tokens), middleware.RequireOwner("id")}
	profile.GET("/:id", profileHandler.Get, owner...)
	profile.PUT("/info/:id", profileHandler.UpdateInfo, owner...)
	profile.PATCH("/password/:id", profileHandler.ChangePassword, owner...)
	profile.PUT("/services/:id", profileHandler.ReplaceServices, owner...)
	profile.PUT("/areas/:id", profileHandler.ReplaceAreas, owner...)
	profile.DELETE("/:id", profileHandler.Delete, owner...)

	// --- Public directory ---
	api.GET("/surveyors", directoryHandler.List)
	api.GET("/reference/services", directoryHandler.ServiceCategories)
	api.GET("/reference/counties", directoryHandler.Counties)

	// --- Email ---
	api.POST("/email/send-email", emailHandler.Send)

	return e
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// requestLogger writes one zerolog line per request.
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
			switch {
			case v.Status >= http.StatusInternalServerError:
				ev = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				ev = log.Warn()
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
