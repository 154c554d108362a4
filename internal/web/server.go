// Package web assembles the panel's HTTP server: the gin router with
// its middleware stack, the route registration of every API group, and
// graceful startup and shutdown around the standard http.Server.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nexus-panel/internal/ai"
	"nexus-panel/internal/api"
	"nexus-panel/internal/auth"
	"nexus-panel/internal/database"
	"nexus-panel/internal/monitoring"
	"nexus-panel/internal/session"
	"nexus-panel/internal/state"
)

// Server is the panel's HTTP server.
type Server struct {
	router *gin.Engine
	server *http.Server
	log    *zap.SugaredLogger
}

// Dependencies carries everything the route handlers need.
type Dependencies struct {
	DB      *database.Database
	Servers *state.ServerController
	Users   *state.UserController
	Gate    *session.Gate
	Tokens  *auth.Manager
	Monitor *monitoring.Monitor
	Gateway *ai.Gateway
	Log     *zap.SugaredLogger
}

// ServerConfig holds the HTTP-level knobs.
type ServerConfig struct {
	Addr         string        // Listen address, e.g. ":8080"
	ReadTimeout  time.Duration // HTTP read timeout
	WriteTimeout time.Duration // HTTP write timeout
	Debug        bool          // Leave gin in debug mode
}

// NewServer creates a server with default HTTP settings.
func NewServer(addr string, deps Dependencies) *Server {
	return NewServerWithConfig(&ServerConfig{
		Addr:         addr,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}, deps)
}

// NewServerWithConfig creates a server with custom HTTP settings and
// registers all routes.
func NewServerWithConfig(config *ServerConfig, deps Dependencies) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router: gin.New(),
		log:    deps.Log,
	}
	s.setupRoutes(deps)

	s.server = &http.Server{
		Addr:         config.Addr,
		Handler:      s.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return s
}

// Router exposes the underlying gin engine, used by handler tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start begins serving. It blocks until the server stops; a shutdown
// initiated by Stop returns nil.
func (s *Server) Start() error {
	s.log.Infow("http server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down, waiting for in-flight requests
// up to the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// setupRoutes wires the middleware stack and every API group.
func (s *Server) setupRoutes(deps Dependencies) {
	s.router.Use(s.requestLogger())
	s.router.Use(gin.Recovery())

	sessionAPI := api.NewSessionAPI(deps.Gate, deps.Tokens, deps.Log)

	public := s.router.Group("/api")
	{
		sessionAPI.RegisterPublicRoutes(public)
		public.GET("/health", s.health(deps.Monitor))
	}

	middleware := auth.NewMiddleware(deps.Tokens)
	protected := s.router.Group("/api")
	protected.Use(middleware.RequireAuth())
	{
		sessionAPI.RegisterRoutes(protected)
		api.NewDashboardAPI(deps.Monitor, deps.Log).RegisterRoutes(protected)
		api.NewServerAPI(deps.Servers, deps.DB, deps.Log).RegisterRoutes(protected)
		api.NewUserAPI(deps.Users, deps.Log).RegisterRoutes(protected)
		api.NewMonetizationAPI(deps.DB, deps.Log).RegisterRoutes(protected)
		api.NewInsightsAPI(deps.Monitor, deps.Gateway, deps.Log).RegisterRoutes(protected)
	}
}

// health answers liveness probes with the fleet's global status.
func (s *Server) health(monitor *monitoring.Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := monitor.Report()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"global_status": report.GlobalStatus,
		})
	}
}

// requestLogger logs each request through the structured logger.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
