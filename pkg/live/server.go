package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reflow-dev/reflow/pkg/reactive"
)

// RenderFunc produces the value pushed to clients. It runs inside a
// reactive effect, so every store path it reads becomes a re-render
// dependency for the session that owns it.
type RenderFunc func() any

// ApplyFunc applies a client-submitted patch payload to application
// state. It runs on the session's read goroutine; implementations that
// write through a store's patch contract get change-only notification
// for free.
type ApplyFunc func(data json.RawMessage) error

// Config holds tunables for the live server.
type Config struct {
	// ReadTimeout bounds how long a connection may stay silent before
	// the read loop gives up on it.
	ReadTimeout time.Duration

	// WriteTimeout bounds each outbound WebSocket write.
	WriteTimeout time.Duration

	// PingInterval is how often the write loop pings idle clients.
	// Must be shorter than ReadTimeout on the client side.
	PingInterval time.Duration

	// MaxFrameSize limits inbound frame size in bytes.
	MaxFrameSize int64

	// SendBuffer is the per-session outbound frame queue length. A
	// session that falls this far behind is closed rather than allowed
	// to stall renders for everyone else.
	SendBuffer int

	// CheckOrigin overrides the upgrader's origin check. Nil accepts
	// same-origin requests only (gorilla's default).
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns the default live server configuration.
func DefaultConfig() *Config {
	return &Config{
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 10 * time.Second,
		PingInterval: 25 * time.Second,
		MaxFrameSize: 1 << 20, // 1 MB
		SendBuffer:   32,
	}
}

// Option configures a Server.
type Option func(*Server)

// WithConfig replaces the server's configuration. Zero fields are
// filled in from DefaultConfig.
func WithConfig(config *Config) Option {
	return func(s *Server) {
		s.config = config
	}
}

// WithLogger sets the base logger. The server tags it with
// component=live.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// Server accepts WebSocket clients and keeps each one subscribed to
// the render function's reactive dependencies.
type Server struct {
	render RenderFunc
	apply  ApplyFunc

	config   *Config
	logger   *slog.Logger
	upgrader websocket.Upgrader
	tracer   *frameTracer

	// refresh is read by every session's render effect; bumping it
	// re-renders all sessions even when no store path changed.
	refresh *reactive.Signal[uint64]

	mu       sync.Mutex
	sessions map[uint64]*Session
	closed   bool
}

// NewServer creates a live server for the given render and apply
// functions. apply may be nil, in which case patch frames are rejected
// with an error frame.
func NewServer(render RenderFunc, apply ApplyFunc, opts ...Option) *Server {
	s := &Server{
		render:   render,
		apply:    apply,
		sessions: make(map[uint64]*Session),
		refresh:  reactive.NewSignal(uint64(0)),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.config == nil {
		s.config = DefaultConfig()
	} else {
		defaults := DefaultConfig()
		if s.config.ReadTimeout == 0 {
			s.config.ReadTimeout = defaults.ReadTimeout
		}
		if s.config.WriteTimeout == 0 {
			s.config.WriteTimeout = defaults.WriteTimeout
		}
		if s.config.PingInterval == 0 {
			s.config.PingInterval = defaults.PingInterval
		}
		if s.config.MaxFrameSize == 0 {
			s.config.MaxFrameSize = defaults.MaxFrameSize
		}
		if s.config.SendBuffer == 0 {
			s.config.SendBuffer = defaults.SendBuffer
		}
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "live")

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.config.CheckOrigin,
	}
	s.tracer = newFrameTracer()

	return s
}

// Handler returns the server's HTTP handler:
//
//   - /live     WebSocket upgrade
//   - /metrics  Prometheus exposition
//   - /healthz  liveness probe
//
// Mount it directly or under a parent router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/live", s.handleWebSocket)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return r
}

// handleWebSocket upgrades the connection and starts a session.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	session := newSession(s, conn)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.sessions[session.id] = session
	s.mu.Unlock()

	sessionsActive.Inc()
	s.logger.Info("session connected", "session_id", session.id, "remote", conn.RemoteAddr())

	session.start()
}

// Refresh re-renders every connected session, whether or not a store
// path changed. Use it when the render function also reads data the
// reactive graph cannot see, such as a clock or an external cache.
func (s *Server) Refresh() {
	s.refresh.Update(func(n uint64) uint64 { return n + 1 })
}

// SessionCount returns the number of connected sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// removeSession unregisters a closed session.
func (s *Server) removeSession(id uint64) {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		sessionsActive.Dec()
		s.logger.Info("session closed", "session_id", id)
	}
}

// Shutdown closes all sessions and stops accepting new ones. It
// returns once every session has fully stopped or the context is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		for _, session := range sessions {
			session.Close()
		}
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
