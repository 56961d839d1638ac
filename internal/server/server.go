package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/celerix-dev/phonebook/internal/config"
	"go.uber.org/zap"
)

const defaultShutdownTimeout = 10 * time.Second

// Server hosts the HTTP surface and shuts it down when its context ends.
type Server struct {
	http     *http.Server
	log      *zap.Logger
	shutdown time.Duration

	mu       sync.Mutex
	listener net.Listener
}

func New(handler http.Handler, addr string, cfg config.HTTPConfig, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	shutdown := cfg.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = defaultShutdownTimeout
	}
	return &Server{
		http: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log:      log,
		shutdown: shutdown,
	}
}

// Addr returns the bound address, or nil before the listener is open.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	errc := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))
		errc <- s.http.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutdown signal received, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errc
	return nil
}
