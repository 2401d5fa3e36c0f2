// Package status serves a small operator HTTP endpoint next to the RPC
// listener: liveness with sink health, serving statistics and the recent
// command audit trail.
//
//	srv, err := status.New(deps)
//	srv.Start(ctx)
//	defer srv.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package status

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/nerrad567/homerpc/internal/audit"
	"github.com/nerrad567/homerpc/internal/server"
)

// gracefulShutdownTimeout bounds how long Close waits for in-flight requests.
const gracefulShutdownTimeout = 10 * time.Second

// Logger is the logging surface used by the endpoint.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// StatsSource provides serving statistics.
type StatsSource interface {
	Snapshot() server.Snapshot
}

// HealthChecker is implemented by every optional sink.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Timeouts bounds HTTP exchanges. Zero disables a limit.
type Timeouts struct {
	Read  time.Duration
	Write time.Duration
	Idle  time.Duration
}

// Deps holds the dependencies of the status server.
type Deps struct {
	// Address is host:port to bind; port 0 picks a free port.
	Address  string
	Timeouts Timeouts
	Logger   Logger
	Stats    StatsSource

	// Audit is nil when the audit trail is disabled.
	Audit audit.Repository

	// Checks maps a component name to its health check.
	Checks  map[string]HealthChecker
	Version string
}

// Server is the status HTTP server.
type Server struct {
	addr     string
	timeouts Timeouts
	logger   Logger
	stats    StatsSource
	audit    audit.Repository
	checks   map[string]HealthChecker
	version  string

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// New creates a status server. It is not listening until Start.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if deps.Stats == nil {
		return nil, errors.New("stats source is required")
	}

	return &Server{
		addr:     deps.Address,
		timeouts: deps.Timeouts,
		logger:   deps.Logger,
		stats:    deps.Stats,
		audit:    deps.Audit,
		checks:   deps.Checks,
		version:  deps.Version,
	}, nil
}

// Handler returns the routed handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start binds the configured address and serves in the background.
//
// Returns:
//   - error: If the address cannot be bound
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("binding status endpoint %s: %w", s.addr, err)
	}

	srv := &http.Server{
		Handler:           s.buildRouter(),
		ReadTimeout:       s.timeouts.Read,
		ReadHeaderTimeout: s.timeouts.Read,
		WriteTimeout:      s.timeouts.Write,
		IdleTimeout:       s.timeouts.Idle,
	}

	s.mu.Lock()
	s.server = srv
	s.listener = ln
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("status server error", "error", err)
		}
	}()

	s.logger.Info("status endpoint listening",
		"address", ln.Addr().String(),
		"components", s.componentNames(),
	)
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close gracefully shuts the server down. Further calls are no-ops.
func (s *Server) Close() error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down status server: %w", err)
	}
	return nil
}
