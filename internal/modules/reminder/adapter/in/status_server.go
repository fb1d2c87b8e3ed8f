package in

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	reminderin "cradle/internal/modules/reminder/port/in"
	"cradle/internal/platform/logger"
)

// StatusServer is the daemon's loopback HTTP surface: liveness, Prometheus
// metrics and the reminder engine state.
type StatusServer struct {
	addr    string
	usecase reminderin.Usecase
	log     *logger.Logger
}

func NewStatusServer(addr string, usecase reminderin.Usecase, log *logger.Logger) *StatusServer {
	if log == nil {
		log = logger.NewNop()
	}
	return &StatusServer{addr: addr, usecase: usecase, log: log}
}

func (s *StatusServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(httprate.LimitByIP(120, time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/reminders", func(r chi.Router) {
		r.Get("/status", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, s.usecase.Status(req.Context()))
		})
		r.Post("/tick", func(w http.ResponseWriter, req *http.Request) {
			report, err := s.usecase.Tick(req.Context())
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, report)
		})
	})
	return r
}

// Serve blocks until ctx ends, then shuts the listener down.
func (s *StatusServer) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("start status listener: %w", err)
	}
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 2 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.Info("status server listening", "addr", ln.Addr().String())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
