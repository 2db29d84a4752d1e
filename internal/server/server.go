// Package server owns the HTTP listener lifecycle.
//
// A Server moves through Created → RouterAttached → Listening and never
// back. The handler must be attached before Listen opens the socket, so no
// connection can be accepted without something to dispatch it to:
//
//	srv := server.New()
//	if err := srv.Attach(r); err != nil { ... }
//	err := srv.Listen(ctx, ":5000", func() { fmt.Println("ready") })
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/logger"
)

var (
	ErrNilHandler       = errors.New("server: nil handler")
	ErrAlreadyAttached  = errors.New("server: handler already attached")
	ErrNoHandler        = errors.New("server: listen called before a handler was attached")
	ErrAlreadyListening = errors.New("server: already listening")
	ErrInvalidPort      = errors.New("server: port out of range")
	ErrReadyPanicked    = errors.New("server: ready callback panicked")
)

// BindError reports that the listening socket could not be opened.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("server: bind %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// Timeouts applied to the underlying http.Server. Zero means no limit.
type Timeouts struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
}

type Server struct {
	mu       sync.Mutex
	state    State
	handler  http.Handler
	listener net.Listener
	timeouts Timeouts
}

// New returns a server in the Created state with no handler.
func New() *Server {
	return &Server{state: Created}
}

// WithTimeouts sets the HTTP timeouts. It must be called before Listen.
func (s *Server) WithTimeouts(t Timeouts) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeouts = t
	return s
}

// Attach registers h to receive every incoming request. It performs no I/O
// and may be called once.
func (s *Server) Attach(h http.Handler) error {
	if h == nil {
		return ErrNilHandler
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Created {
		return ErrAlreadyAttached
	}
	s.handler = h
	s.state = RouterAttached
	return nil
}

// Listen binds addr and serves the attached handler on it.
//
// A bind failure is returned as *BindError and onReady is never called.
// Otherwise onReady (if non-nil) runs exactly once, after the socket is
// accepting connections and before the first request is served. Listen
// then blocks until ctx is cancelled, in which case in-flight requests are
// drained within Timeouts.Shutdown and Listen returns nil, or until the
// listener fails. A panicking onReady closes the socket and is reported as
// ErrReadyPanicked.
func (s *Server) Listen(ctx context.Context, addr string, onReady func()) error {
	s.mu.Lock()
	switch s.state {
	case Created:
		s.mu.Unlock()
		return ErrNoHandler
	case Listening:
		s.mu.Unlock()
		return ErrAlreadyListening
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.mu.Unlock()
		return &BindError{Addr: addr, Err: err}
	}

	s.listener = ln
	s.state = Listening
	handler := s.handler
	timeouts := s.timeouts
	s.mu.Unlock()

	logger.Info("listener bound", "addr", ln.Addr().String())

	if err := notifyReady(onReady); err != nil {
		ln.Close()
		return err
	}

	return serve(ctx, ln, handler, timeouts)
}

func notifyReady(onReady func()) (err error) {
	if onReady == nil {
		return nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrReadyPanicked, rec)
		}
	}()

	onReady()
	return nil
}

// Addr returns the bound address, or nil before Listen succeeds.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func serve(ctx context.Context, ln net.Listener, h http.Handler, t Timeouts) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: t.ReadHeader,
		ReadTimeout:       t.Read,
		WriteTimeout:      t.Write,
		IdleTimeout:       t.Idle,
		ErrorLog:          slog.NewLogLogger(logger.L.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", "addr", ln.Addr().String())

	shutdownCtx := context.Background()
	if t.Shutdown > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, t.Shutdown)
		defer cancel()
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: serve: %w", err)
	}
	return nil
}

// ValidatePort accepts 1–65535, plus 0 which asks the OS for an ephemeral port.
func ValidatePort(port int) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}
	return nil
}

// Address joins host and port. An empty host binds every interface.
func Address(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
