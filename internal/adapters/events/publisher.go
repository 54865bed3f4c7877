package events

import (
	"context"
	"log/slog"
)

// LoggingPublisher is the no-broker fallback: outbox entries that would go
// to Kafka are written to the service log instead, so local runs without a
// broker still drain the outbox.
type LoggingPublisher struct {
	logger *slog.Logger
}

func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	return &LoggingPublisher{logger: logger}
}

func (p *LoggingPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	p.logger.InfoContext(ctx, "outbox event drained to log",
		"module", "events.publisher",
		"event_type", eventType,
		"partition_key", partitionKey,
		"payload_bytes", len(payload),
	)
	return nil
}
