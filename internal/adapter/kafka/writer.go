package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/insurance-quote-service/internal/config"
	"github.com/couchcryptid/insurance-quote-service/internal/domain"
)

// Header keys set on every submission message.
const (
	HeaderFlow        = "flow"
	HeaderSubmittedAt = "submitted_at"
)

// Writer produces submission events to a Kafka topic.
// It implements intake.EventPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured submissions topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes one event keyed by submission ID, so every event for an ID
// lands on the same partition.
func (w *Writer) Publish(ctx context.Context, event domain.SubmissionEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write submission event %s: %w", event.ID, err)
	}
	w.logger.Debug("submission event published", "id", event.ID, "flow", event.Flow)
	return nil
}

// Close flushes pending messages and closes the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a SubmissionEvent into a Kafka message.
func serializeToMessage(event domain.SubmissionEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize submission event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: HeaderFlow, Value: []byte(event.Flow)},
			{Key: HeaderSubmittedAt, Value: []byte(event.SubmittedAt.Format(time.RFC3339))},
		},
	}, nil
}
