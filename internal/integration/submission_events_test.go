//go:build integration

package integration_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/insurance-quote-service/internal/adapter/csvstore"
	kafkaadapter "github.com/couchcryptid/insurance-quote-service/internal/adapter/kafka"
	"github.com/couchcryptid/insurance-quote-service/internal/adapter/pdf"
	"github.com/couchcryptid/insurance-quote-service/internal/config"
	"github.com/couchcryptid/insurance-quote-service/internal/domain"
	"github.com/couchcryptid/insurance-quote-service/internal/intake"
	"github.com/couchcryptid/insurance-quote-service/internal/observability"
)

const testTopic = "test-submissions"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0", kafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = container.Terminate(ctx)
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "find controller")

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}), "create topic")
}

// TestSubmissionPublishesEvent wires the intake service to a CSV store, the
// PDF renderer, and a real Kafka writer, then reads the event back.
func TestSubmissionPublishesEvent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaTopic: testTopic}
	writer := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	store := csvstore.New(filepath.Join(t.TempDir(), "insurance_data.csv"))
	svc := intake.New(store, pdf.NewRenderer(nil), writer, discardLogger(), observability.NewMetricsForTesting())

	sub, err := svc.SubmitQuick(ctx, domain.QuickHealthApplication{
		Name:         "Jean",
		Age:          40,
		Employment:   "Teacher",
		HealthIssues: []domain.HealthIssue{domain.IssueDiabetes, domain.IssueAsthma},
		Dependents:   1,
	})
	require.NoError(t, err)
	require.NotEmpty(t, sub.ID)
	assert.Equal(t, domain.QuickSummaryFilename, sub.Document.Filename)

	reader := kafkaadapter.NewReader([]string{broker}, testTopic, "")
	t.Cleanup(func() { _ = reader.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	event, err := reader.Next(readCtx)
	require.NoError(t, err, "read submission event")

	assert.Equal(t, sub.ID, event.ID)
	assert.Equal(t, domain.FlowQuick, event.Flow)
	assert.True(t, sub.SubmittedAt.Equal(event.SubmittedAt))
	assert.Equal(t, sub.Record, event.Record)
	require.NotNil(t, event.Record.Cost)
	assert.Equal(t, 1950, *event.Record.Cost)

	records, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, sub.Record, records[0])
}

// TestEventHeaders checks the message metadata consumers route on.
func TestEventHeaders(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	writer := kafkaadapter.NewWriter(&config.Config{KafkaBrokers: []string{broker}, KafkaTopic: testTopic}, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	submittedAt := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
	require.NoError(t, writer.Publish(ctx, domain.SubmissionEvent{
		ID:          "sub-42",
		Flow:        domain.FlowFull,
		SubmittedAt: submittedAt,
		Record:      domain.Record{Name: "Marie Curie"},
	}))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "sub-42", string(msg.Key))
	assert.Equal(t, "full", headers[kafkaadapter.HeaderFlow])
	assert.Equal(t, "2026-03-14T09:30:00Z", headers[kafkaadapter.HeaderSubmittedAt])
}
