package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/userauth/component"
	"github.com/kbukum/userauth/logger"
	"github.com/kbukum/userauth/server/endpoint"
	"github.com/kbukum/userauth/server/middleware"
)

// shutdownTimeout bounds graceful shutdown when the caller's context has no deadline.
const shutdownTimeout = 5 * time.Second

// Server is the HTTP server: a Gin engine mounted on a root ServeMux, wrapped
// by the net/http middleware chain and served over HTTP/1.1 and h2c.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	mux        *http.ServeMux
	config     Config
	log        *logger.Logger
	authLimit  gin.HandlerFunc
	draining   atomic.Bool

	mu       sync.Mutex
	listener net.Listener
}

// New creates a new Server. cfg is expected to have defaults applied.
func New(cfg Config, log *logger.Logger) *Server {
	// Set Gin mode based on global zerolog level.
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	mux := http.NewServeMux()
	mux.Handle("/", engine)

	s := &Server{
		engine: engine,
		mux:    mux,
		config: cfg,
		log:    log.WithComponent("server"),
	}
	s.applyErrorHandlers()
	s.authLimit = s.newAuthLimiter()

	// h2c serves HTTP/2 over cleartext alongside HTTP/1.1.
	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      h2c.NewHandler(s.chain()(mux), h2s),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}
	return s
}

// chain is the server-level middleware stack applied to every request:
// recovery, request-ID, request logging, CORS and the body-size limit.
func (s *Server) chain() middleware.Middleware {
	return middleware.Chain(
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.RequestLogger(s.log),
		middleware.CORS(&s.config.CORS),
		middleware.BodySizeLimit(s.config.maxBodyBytes()),
	)
}

func (s *Server) applyErrorHandlers() {
	s.engine.NoRoute(func(c *gin.Context) {
		RespondWithError(c, errNoRoute(c.Request.Method, c.Request.URL.Path))
	})
	s.engine.NoMethod(func(c *gin.Context) {
		RespondWithError(c, errNoMethod(c.Request.Method, c.Request.URL.Path))
	})
}

func (s *Server) newAuthLimiter() gin.HandlerFunc {
	if s.config.RateLimit.Disabled {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerMinute: s.config.RateLimit.RequestsPerMinute,
	})
}

// GinEngine returns the underlying Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// API returns the router group mounted at the configured base path.
func (s *Server) API() *gin.RouterGroup {
	return s.engine.Group(s.config.BasePath)
}

// AuthRateLimit returns the per-IP limiter shared by the unauthenticated
// register and login routes. It is a pass-through when disabled.
func (s *Server) AuthRateLimit() gin.HandlerFunc {
	return s.authLimit
}

// Handler returns the fully wrapped root handler, as served on the listener.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start binds the port and begins serving. It returns once the listener is
// bound so the caller knows the port is ready; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("Starting HTTP server", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", map[string]interface{}{
				logger.FieldError: err.Error(),
			})
		}
	}()

	s.log.Info("HTTP server started", map[string]interface{}{
		"addr": listener.Addr().String(),
	})
	return nil
}

// Stop gracefully shuts down the server, waiting for in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Server shutdown error", map[string]interface{}{
			logger.FieldError: err.Error(),
		})
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("HTTP server shut down successfully")
	return nil
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// RegisterDefaultEndpoints registers the welcome page, favicon and the
// operational /health, /ready, /alive and /info endpoints.
func (s *Server) RegisterDefaultEndpoints(serviceName string, checker endpoint.HealthChecker) {
	s.engine.GET("/", endpoint.Welcome("Welcome to the API"))
	s.engine.GET("/favicon.ico", endpoint.Favicon())
	s.engine.GET("/health", endpoint.Health(serviceName, checker))
	s.engine.GET("/ready", endpoint.Readiness(serviceName, s.readiness(checker)))
	s.engine.GET("/alive", endpoint.Liveness(serviceName))
	s.engine.GET("/info", endpoint.Info(serviceName))
}

// Drain makes /ready answer 503 so load balancers stop routing new traffic,
// then waits the configured drain delay or until ctx is done. Call it before
// Stop.
func (s *Server) Drain(ctx context.Context) {
	if !s.draining.CompareAndSwap(false, true) {
		return
	}
	delay := time.Duration(s.config.DrainDelay) * time.Second
	s.log.Info("Draining: readiness now reports not ready", logger.Fields("delay", delay.String()))
	if delay <= 0 {
		return
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (s *Server) readiness(checker endpoint.HealthChecker) endpoint.HealthChecker {
	return func(ctx context.Context) []component.Health {
		var hs []component.Health
		if checker != nil {
			hs = checker(ctx)
		}
		if s.draining.Load() {
			hs = append(hs, component.Unhealthy(componentName, "draining"))
		}
		return hs
	}
}
