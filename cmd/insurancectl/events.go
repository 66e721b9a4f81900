package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	kafkaadapter "github.com/couchcryptid/insurance-quote-service/internal/adapter/kafka"
)

func newEventsCmd() *cobra.Command {
	var (
		brokers string
		topic   string
		group   string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print submission events from Kafka as JSON lines.",
		Long: `events consumes the submission topic and prints one JSON object per event.
Without --group it reads from the beginning of the topic and commits nothing.
It stops after --limit events, or on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reader := kafkaadapter.NewReader(splitBrokers(brokers), topic, group)
			defer reader.Close()

			for n := 0; limit <= 0 || n < limit; n++ {
				event, err := reader.Next(ctx)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return err
				}
				if err := printEvent(cmd, event); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&brokers, "brokers", envOr("KAFKA_BROKERS", "localhost:9092"), "comma-separated Kafka brokers")
	cmd.Flags().StringVar(&topic, "topic", envOr("KAFKA_TOPIC", "insurance-submissions"), "submission topic")
	cmd.Flags().StringVar(&group, "group", "", "consumer group (empty reads from the start without committing)")
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many events (0 means no limit)")
	return cmd
}

func printEvent(cmd *cobra.Command, event any) error {
	return json.NewEncoder(cmd.OutOrStdout()).Encode(event)
}

func splitBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
