package http

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/webapp-server/internal/logging"
	"github.com/example/webapp-server/internal/protocol"
)

type ServerConfig struct {
	Router *Router
	Logger *slog.Logger

	// MaxConnections bounds concurrently served connections. Zero means
	// unbounded.
	MaxConnections int

	// NewID generates connection ids. Defaults to random UUIDs.
	NewID func() string
}

// Server accepts connections and serves one request on each.
type Server struct {
	router *Router
	logger *slog.Logger
	newID  func() string
	slots  chan struct{}
	wg     sync.WaitGroup
}

func NewServer(cfg ServerConfig) *Server {
	s := &Server{
		router: cfg.Router,
		logger: defaultLogger(cfg.Logger),
		newID:  cfg.NewID,
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.NewString() }
	}
	if cfg.MaxConnections > 0 {
		s.slots = make(chan struct{}, cfg.MaxConnections)
	}
	return s
}

// Serve accepts connections on ln until ctx is cancelled or ln fails. Each
// connection is served on its own goroutine. Serve closes ln before
// returning; it returns nil after cancellation.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()
	defer ln.Close()

	s.logger.InfoContext(ctx, "server listening", "addr", ln.Addr().String())

	var delay time.Duration
	for {
		if err := s.acquire(ctx); err != nil {
			return nil
		}

		conn, err := ln.Accept()
		if err != nil {
			s.release()
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				delay = nextDelay(delay)
				s.logger.WarnContext(ctx, "accept failed, retrying", "error", err, "delay", delay)
				time.Sleep(delay)
				continue
			}
			return err
		}
		delay = 0

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.release()
			s.ServeConn(ctx, conn)
		}()
	}
}

func nextDelay(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	if d *= 2; d > time.Second {
		d = time.Second
	}
	return d
}

func (s *Server) acquire(ctx context.Context) error {
	if s.slots == nil {
		return ctx.Err()
	}
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) release() {
	if s.slots != nil {
		<-s.slots
	}
}

// Wait blocks until every in-flight connection finishes or ctx is done.
func (s *Server) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ServeConn reads one request from conn, dispatches it and closes conn.
// Failures and panics are logged and end the connection; they never
// propagate to the caller.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) {
	start := time.Now()
	connID := s.newID()
	logger := s.logger.With("conn_id", connID, "remote_addr", remoteAddr(conn))
	ctx = logging.ContextWithLogger(ctx, logger)

	defer func() {
		if p := recover(); p != nil {
			logger.ErrorContext(ctx, "connection handler panicked", "panic", p, "error_kind", "panic")
		}
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			logger.DebugContext(ctx, "connection close failed", "error", err)
		}
		logger.InfoContext(ctx, "connection closed", "duration", time.Since(start))
	}()

	logger.DebugContext(ctx, "connection accepted")

	req, err := protocol.ReadRequest(bufio.NewReader(conn))
	if err != nil {
		s.logFailure(ctx, logger, "request parse failed", err)
		return
	}

	logger = logger.With("method", req.Method, "target", req.Target)
	ctx = logging.ContextWithLogger(ctx, logger)
	logger.DebugContext(ctx, "request parsed", "content_length", req.ContentLength)

	if s.router == nil {
		logger.ErrorContext(ctx, "no router configured")
		return
	}

	w := protocol.NewResponseWriter(conn)
	if err := s.router.Dispatch(ctx, w, req); err != nil {
		s.logFailure(ctx, logger, "request handling failed", err)
		return
	}
	if w.Sent() {
		logger.InfoContext(ctx, "request served", "status", int(w.Status()), "bytes", w.Written())
	}
}

// logFailure reports stream failures at warn level and everything else at
// error level.
func (s *Server) logFailure(ctx context.Context, logger *slog.Logger, msg string, err error) {
	var ioErr *protocol.IOError
	if errors.As(err, &ioErr) {
		logger.WarnContext(ctx, "connection abandoned", "reason", msg, "op", ioErr.Op, "error", err, "error_kind", errorKind(err))
		return
	}
	logger.ErrorContext(ctx, msg, "error", err, "error_kind", errorKind(err))
}

func remoteAddr(conn net.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
