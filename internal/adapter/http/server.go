package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/insurance-quote-service/internal/domain"
	"github.com/couchcryptid/insurance-quote-service/internal/observability"
)

// Intake accepts applications and exposes the stored records.
type Intake interface {
	SubmitFull(ctx context.Context, app domain.FullApplication) (domain.Submission, error)
	SubmitQuick(ctx context.Context, app domain.QuickHealthApplication) (domain.Submission, error)
	Records(ctx context.Context) ([]domain.Record, error)
	CheckReadiness(ctx context.Context) error
}

// Locator resolves landmark names to coordinates.
type Locator interface {
	Locate(ctx context.Context, name string) (domain.LocateResult, error)
}

// Server serves the application forms, the JSON API, and the ops endpoints.
type Server struct {
	httpServer *http.Server
	intake     Intake
	locator    Locator
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer wires all routes onto a chi router.
func NewServer(addr string, intake Intake, locator Locator, metrics *observability.Metrics, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		intake:  intake,
		locator: locator,
		metrics: metrics,
		logger:  logger,
	}

	r.Use(RequestID, Logger(logger), Recovery(logger))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/apply", http.StatusSeeOther)
	})
	r.Get("/apply", s.handleFullForm)
	r.Post("/apply", s.handleFullFormPost)
	r.Get("/health-quick", s.handleQuickForm)
	r.Post("/health-quick", s.handleQuickFormPost)
	r.Get("/records", s.handleRecordsPage)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Post("/quotes/full", s.handleQuoteFull)
		r.Post("/quotes/quick", s.handleQuoteQuick)
		r.Post("/applications/full", s.handleSubmitFull)
		r.Post("/applications/quick", s.handleSubmitQuick)
		r.Get("/records", s.handleListRecords)
		r.Get("/landmarks", s.handleListLandmarks)
		r.Get("/landmarks/{name}", s.handleLocate)
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.intake.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
