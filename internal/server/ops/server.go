// Package ops serves the operational HTTP endpoints: Prometheus metrics and
// health probes. The auth operations themselves are a Go API; they have no
// HTTP surface here.
package ops

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avasiliev/authkeeper/internal/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadyChecker returns nil when the service is ready to accept work.
type ReadyChecker func(ctx context.Context) error

type Server struct {
	httpServer *http.Server
	logger     logging.Logger
}

// NewServer builds the ops server on addr. checkReady is consulted on /readyz.
func NewServer(addr string, checkReady ReadyChecker, logger logging.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := checkReady(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(fmt.Sprintf("NOT READY: %v", err)))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	})

	return &Server{
		httpServer: &http.Server{Addr: addr, Handler: mux},
		logger:     logger.With("module", "ops_server"),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping ops server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting ops server", "address", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
