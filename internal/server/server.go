package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/nerrad567/homerpc/internal/stp"
)

// ErrNotListening is returned by Serve when Listen has not succeeded.
var ErrNotListening = errors.New("server: not listening")

// Logger defines the logging interface used by the Server.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Accept retry backoff after listener failures, as net/http does.
const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// listener is the part of *stp.Listener the accept loop uses.
type listener interface {
	Accept() (*stp.Conn, error)
	Addr() net.Addr
	Close() error
}

// Handler turns one raw request batch into one raw reply.
// *dispatch.Dispatcher satisfies it.
type Handler interface {
	Handle(ctx context.Context, raw []byte) []byte
}

// Config contains the listener settings.
type Config struct {
	Address          string
	IOTimeout        time.Duration
	HandshakeTimeout time.Duration
}

// Server accepts STP connections and answers one batch per connection.
type Server struct {
	cfg     Config
	handler Handler
	stats   *Stats
	logger  Logger

	mu sync.Mutex
	ln listener
}

// New creates a server that answers requests with h.
func New(cfg Config, h Handler) *Server {
	return &Server{
		cfg:     cfg,
		handler: h,
		stats:   NewStats(),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the server.
func (s *Server) SetLogger(logger Logger) {
	s.logger = logger
}

// Stats returns the serving statistics. The same value should be
// registered as a dispatch observer to count commands and replies.
func (s *Server) Stats() *Stats {
	return s.stats
}

// Listen binds the configured address.
func (s *Server) Listen() error {
	ln, err := stp.Bind(s.cfg.Address, stp.Config{
		IOTimeout:        s.cfg.IOTimeout,
		HandshakeTimeout: s.cfg.HandshakeTimeout,
	})
	if err != nil {
		return fmt.Errorf("binding %s: %w", s.cfg.Address, err)
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.logger.Info("listening", "address", ln.Addr().String())
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve runs the accept loop until ctx is cancelled or the server is
// closed. It returns nil on a clean shutdown.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return ErrNotListening
	}

	stop := context.AfterFunc(ctx, func() {
		ln.Close() //nolint:errcheck // unblocks Accept
	})
	defer stop()

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.logger.Info("accept loop stopped")
				return nil
			}
			s.stats.transportError()

			// A rejected peer costs nothing; a failing listener (EMFILE and
			// the like) is retried with growing pauses.
			if !errors.Is(err, stp.ErrAcceptFailed) {
				s.logger.Warn("handshake failed", "error", err)
				continue
			}
			delay = nextAcceptDelay(delay)
			s.logger.Warn("accept failed", "error", err, "retry_in", delay)
			select {
			case <-ctx.Done():
				s.logger.Info("accept loop stopped")
				return nil
			case <-time.After(delay):
			}
			continue
		}
		delay = 0

		s.serveConn(ctx, conn)
	}
}

// nextAcceptDelay doubles the previous delay within [minAcceptDelay, maxAcceptDelay].
func nextAcceptDelay(prev time.Duration) time.Duration {
	if prev == 0 {
		return minAcceptDelay
	}
	return min(prev*2, maxAcceptDelay)
}

func (s *Server) serveConn(ctx context.Context, conn *stp.Conn) {
	defer conn.Close() //nolint:errcheck // connection is done either way

	peer := conn.PeerAddr()
	s.stats.connectionAccepted()
	s.logger.Debug("request received", "peer", peer)

	err := conn.ProcessRequest(func(req []byte) []byte {
		return s.handler.Handle(ctx, req)
	})
	if err != nil {
		s.stats.transportError()
		s.logger.Warn("request exchange failed", "peer", peer, "error", err)
		return
	}

	s.logger.Debug("reply sent", "peer", peer)
}

// Close stops accepting connections.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}
