package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/absolutecinema/absolutecinema/internal/api/handlers"
	apimw "github.com/absolutecinema/absolutecinema/internal/api/middleware"
	"github.com/absolutecinema/absolutecinema/internal/api/ratelimit"
	"github.com/absolutecinema/absolutecinema/internal/config"
	"github.com/absolutecinema/absolutecinema/internal/health"
	"github.com/absolutecinema/absolutecinema/internal/movies"
	"github.com/absolutecinema/absolutecinema/internal/preferences"
	"github.com/absolutecinema/absolutecinema/internal/scheduler"
	"github.com/absolutecinema/absolutecinema/internal/store"
	"github.com/absolutecinema/absolutecinema/internal/websocket"
)

// Version is reported by the status endpoint.
var Version = "0.1.0-dev"

// Deps are the services served over HTTP. Any of them may be nil.
type Deps struct {
	Movies      *movies.Repository
	Store       *store.Store
	Preferences *preferences.Service
	Scheduler   *scheduler.Scheduler
	Health      *health.Service
	Hub         *websocket.Hub
}

// Server is the HTTP API server.
type Server struct {
	echo      *echo.Echo
	deps      Deps
	cfg       *config.Config
	limiter   *ratelimit.IPLimiter
	startTime time.Time
	logger    zerolog.Logger
}

// NewServer creates a new API server instance.
func NewServer(deps Deps, cfg *config.Config, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		deps:      deps,
		cfg:       cfg,
		limiter:   ratelimit.NewIPLimiter(cfg.Server.RequestsPerSecond, cfg.Server.Burst),
		startTime: time.Now(),
		logger:    logger.With().Str("component", "api").Logger(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(apimw.SecurityHeaders())

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Debug().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	if s.deps.Hub != nil {
		s.echo.GET("/ws", s.deps.Hub.HandleWebSocket)
	}

	api := s.echo.Group("/api/v1", s.limiter.Middleware())
	api.GET("/status", s.getStatus)

	var searches movies.SearchRecorder
	if s.deps.Preferences != nil {
		searches = s.deps.Preferences
		preferences.NewHandlers(s.deps.Preferences).RegisterRoutes(api.Group("/preferences"))
	}
	if s.deps.Movies != nil {
		movies.NewHandlers(s.deps.Movies, searches, s.logger).RegisterRoutes(api)
	}
	if s.deps.Health != nil {
		health.NewHandlers(s.deps.Health).RegisterRoutes(api.Group("/health"))
	}
	if s.deps.Scheduler != nil {
		handlers.NewSchedulerHandler(s.deps.Scheduler).RegisterRoutes(api.Group("/scheduler"))
	}
}

// Start starts the HTTP server and forgets idle rate limit entries until ctx is done.
func (s *Server) Start(ctx context.Context, address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	s.limiter.StartCleanup(ctx, time.Minute)
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(c echo.Context) error {
	status := map[string]interface{}{
		"version":   Version,
		"startTime": s.startTime.UTC().Format(time.RFC3339),
	}
	if s.deps.Store != nil {
		count, err := s.deps.Store.Queries().Count(c.Request().Context(), store.TableMovies)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Failed to count cached titles")
		}
		status["cachedTitles"] = count
	}
	if s.deps.Hub != nil {
		status["clients"] = s.deps.Hub.ClientCount()
	}
	return c.JSON(http.StatusOK, status)
}
