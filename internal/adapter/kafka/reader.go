package kafka

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/insurance-quote-service/internal/domain"
)

// Reader consumes submission events, for operators tailing the stream.
type Reader struct {
	reader *kafkago.Reader
}

// NewReader creates a consumer on topic. An empty groupID reads partition 0
// from the first offset without committing.
func NewReader(brokers []string, topic, groupID string) *Reader {
	cfg := kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	}
	if groupID == "" {
		cfg.StartOffset = kafkago.FirstOffset
	}
	return &Reader{reader: kafkago.NewReader(cfg)}
}

// Next blocks until the next event arrives or ctx is done.
func (r *Reader) Next(ctx context.Context) (domain.SubmissionEvent, error) {
	msg, err := r.reader.ReadMessage(ctx)
	if err != nil {
		return domain.SubmissionEvent{}, err
	}
	return deserializeMessage(msg)
}

// Close closes the consumer.
func (r *Reader) Close() error {
	return r.reader.Close()
}

func deserializeMessage(msg kafkago.Message) (domain.SubmissionEvent, error) {
	var event domain.SubmissionEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return domain.SubmissionEvent{}, fmt.Errorf("decode submission event at offset %d: %w", msg.Offset, err)
	}
	if event.ID == "" {
		event.ID = string(msg.Key)
	}
	return event, nil
}
