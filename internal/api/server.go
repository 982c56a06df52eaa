package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/reiki-home/reiki-core/internal/history"
	"github.com/reiki-home/reiki-core/internal/hub"
	"github.com/reiki-home/reiki-core/internal/infrastructure/config"
	"github.com/reiki-home/reiki-core/internal/infrastructure/logging"
	"github.com/reiki-home/reiki-core/internal/registry"
	"github.com/reiki-home/reiki-core/internal/scene"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config     config.APIConfig
	WS         config.WebSocketConfig
	Logger     *logging.Logger
	Hub        *hub.Hub
	Dispatcher hub.Dispatcher
	Scenes     *scene.Resolver
	State      *registry.Registry
	History    *history.Store // optional; history endpoints 404 without it
	Version    string
}

// Server is the HTTP API server for Reiki Core.
//
// It manages the HTTP listener, routes, and middleware, and hands
// WebSocket connections to the hub. The server is created with New()
// and started with Start().
type Server struct {
	cfg        config.APIConfig
	wsCfg      config.WebSocketConfig
	logger     *logging.Logger
	hub        *hub.Hub
	dispatcher hub.Dispatcher
	scenes     *scene.Resolver
	state      *registry.Registry
	history    *history.Store
	version    string
	server     *http.Server
	wsCtx      context.Context
	cancel     context.CancelFunc
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Hub == nil {
		return nil, fmt.Errorf("hub is required")
	}
	if deps.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if deps.State == nil {
		return nil, fmt.Errorf("state registry is required")
	}
	if deps.Scenes == nil {
		return nil, fmt.Errorf("scene resolver is required")
	}

	return &Server{
		wsCtx:      context.Background(),
		cfg:        deps.Config,
		wsCfg:      deps.WS,
		logger:     deps.Logger,
		hub:        deps.Hub,
		dispatcher: deps.Dispatcher,
		scenes:     deps.Scenes,
		state:      deps.State,
		history:    deps.History,
		version:    deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It builds the router and launches the HTTP listener in a background
// goroutine. The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	// Internal context so Close() can stop WebSocket pumps independently
	// of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)
	s.wsCtx = srvCtx

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
