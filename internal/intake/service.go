// Package intake runs application submissions through the gate, the store,
// the event stream, and the summary renderer.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/insurance-quote-service/internal/domain"
	"github.com/couchcryptid/insurance-quote-service/internal/observability"
)

// RecordStore persists normalized records.
type RecordStore interface {
	Load(ctx context.Context) ([]domain.Record, error)
	Submit(ctx context.Context, rec domain.Record) error
}

// Renderer produces the downloadable summary for a persisted record.
type Renderer interface {
	Render(rec domain.Record) (domain.Document, error)
}

// EventPublisher announces persisted submissions downstream.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.SubmissionEvent) error
}

// Service accepts applications. Submissions are serialized so the store
// sees one writer per process.
type Service struct {
	store     RecordStore
	renderer  Renderer
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	mu        sync.Mutex
}

// New creates a Service. publisher may be nil to disable submission events.
func New(store RecordStore, renderer Renderer, publisher EventPublisher, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		store:     store,
		renderer:  renderer,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// SubmitFull validates, persists, and renders a full application.
//
// A *domain.ValidationError means nothing was stored. A *domain.RenderError
// is returned together with a Submission whose record is already stored.
func (s *Service) SubmitFull(ctx context.Context, app domain.FullApplication) (domain.Submission, error) {
	if err := app.Validate(); err != nil {
		return domain.Submission{}, s.rejected(domain.FlowFull, err)
	}
	rec, quote := app.Normalize()
	sub, err := s.submit(ctx, domain.FlowFull, rec)
	if err != nil && sub.ID == "" {
		return sub, err
	}
	sub.FullQuote = &quote
	return sub, err
}

// SubmitQuick validates, persists, and renders a quick health application.
// Errors follow SubmitFull.
func (s *Service) SubmitQuick(ctx context.Context, app domain.QuickHealthApplication) (domain.Submission, error) {
	if err := app.Validate(); err != nil {
		return domain.Submission{}, s.rejected(domain.FlowQuick, err)
	}
	rec, quote := app.Normalize()
	sub, err := s.submit(ctx, domain.FlowQuick, rec)
	if err != nil && sub.ID == "" {
		return sub, err
	}
	sub.QuickQuote = &quote
	return sub, err
}

// Records returns every stored record in insertion order.
func (s *Service) Records(ctx context.Context) ([]domain.Record, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("load").Inc()
		s.logger.Error("load records failed", "error", err)
		return nil, err
	}
	s.metrics.RecordsStored.Set(float64(len(records)))
	return records, nil
}

// CheckReadiness returns nil when the store can be read.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if _, err := s.store.Load(ctx); err != nil {
		return fmt.Errorf("store not readable: %w", err)
	}
	return nil
}

func (s *Service) rejected(flow domain.Flow, err error) error {
	s.metrics.ValidationFailures.WithLabelValues(string(flow)).Inc()
	s.logger.Warn("application rejected", "flow", flow, "error", err)
	return err
}

func (s *Service) submit(ctx context.Context, flow domain.Flow, rec domain.Record) (domain.Submission, error) {
	sub, err := s.persist(ctx, flow, rec)
	if err != nil {
		return domain.Submission{}, err
	}
	s.publish(ctx, sub)

	doc, err := s.renderer.Render(rec)
	if err != nil {
		s.metrics.RenderErrors.WithLabelValues(string(flow)).Inc()
		s.logger.Error("render summary failed", "flow", flow, "id", sub.ID, "error", err)
		var re *domain.RenderError
		if !errors.As(err, &re) {
			err = &domain.RenderError{Filename: domain.SummaryFilename(flow), Err: err}
		}
		return sub, err
	}
	sub.Document = doc
	return sub, nil
}

func (s *Service) persist(ctx context.Context, flow domain.Flow, rec domain.Record) (domain.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	err := s.store.Submit(ctx, rec)
	s.metrics.StoreWriteDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("submit").Inc()
		s.logger.Error("store submit failed", "flow", flow, "error", err)
		var se *domain.StoreError
		if !errors.As(err, &se) {
			err = &domain.StoreError{Op: "submit", Err: err}
		}
		return domain.Submission{}, err
	}

	s.metrics.Submissions.WithLabelValues(string(flow)).Inc()
	s.metrics.RecordsStored.Inc()

	sub := domain.Submission{
		ID:          uuid.NewString(),
		Flow:        flow,
		SubmittedAt: domain.Now().UTC(),
		Record:      rec,
	}
	s.logger.Info("application stored", "flow", flow, "id", sub.ID)
	return sub, nil
}

// publish is best-effort: the record is already durable.
func (s *Service) publish(ctx context.Context, sub domain.Submission) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, sub.Event()); err != nil {
		s.metrics.EventsPublished.WithLabelValues("error").Inc()
		s.logger.Warn("publish submission event failed", "id", sub.ID, "error", err)
		return
	}
	s.metrics.EventsPublished.WithLabelValues("success").Inc()
}
