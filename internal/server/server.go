package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/beltsim/internal/sim"
	"github.com/san-kum/beltsim/internal/storage"
)

const (
	// DefaultConcurrency bounds simultaneous runs per connection.
	DefaultConcurrency = 2

	maxMessageSize  = 8 << 20
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	log         logrus.FieldLogger
	store       *storage.Store
	limits      sim.Limits
	concurrency int
}

type Option func(*Server)

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Server) { s.log = l }
}

// WithStore persists every completed run and returns its ID to the client.
func WithStore(st *storage.Store) Option {
	return func(s *Server) { s.store = st }
}

// WithLimits sets the engine limits applied to every run. Case files cannot
// override them.
func WithLimits(l sim.Limits) Option {
	return func(s *Server) { s.limits = l }
}

func WithConcurrency(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func NewServer(addr string, opts ...Option) *Server {
	s := &Server{
		addr:        addr,
		upgrader:    websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096},
		log:         logrus.StandardLogger(),
		limits:      sim.DefaultLimits(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	s.log.WithField("remote", conn.RemoteAddr().String()).Info("client connected")
	newHub(s, conn).serve(r.Context())
	s.log.WithField("remote", conn.RemoteAddr().String()).Info("client disconnected")
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	hs := &http.Server{Addr: s.addr, Handler: s.Handler()}

	errc := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.addr).Info("listening")
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
