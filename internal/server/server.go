// Package server exposes a board over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/rcliao/arsip-kita/internal/board"
	"github.com/rcliao/arsip-kita/internal/logging"
	"github.com/rcliao/arsip-kita/internal/metrics"
)

// Server wires the HTTP routes to a board.
type Server struct {
	board       *board.Board
	logger      *zap.Logger
	metrics     *metrics.Collector
	corsOrigins []string
}

// New creates a server for b.
func New(b *board.Board, logger *zap.Logger, m *metrics.Collector, corsOrigins []string) *Server {
	return &Server{
		board:       b,
		logger:      logging.ForComponent(logger, "http"),
		metrics:     m,
		corsOrigins: corsOrigins,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Method("GET", "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.getState)
		r.Put("/draft", s.putDraft)
		r.Post("/draft/submit", s.submitDraft)
		r.Get("/writes", s.streamWrites)

		r.Route("/memories", func(r chi.Router) {
			r.Get("/", s.listMemories)
			r.Post("/", s.createMemory)
			r.Post("/{id}/delete", s.requestDelete)
			r.Get("/{id}/write-status", s.writeStatus)
		})

		r.Route("/gate", func(r chi.Router) {
			r.Post("/confirm", s.confirmDelete)
			r.Post("/cancel", s.cancelDelete)
		})
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.HTTPRequest(r.Method, route, strconv.Itoa(status))

		s.logger.Info("HTTP Request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("requestID", chimiddleware.GetReqID(r.Context())),
		)
	})
}
