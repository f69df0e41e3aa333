package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/aqi-surface/internal/config"
	"github.com/couchcryptid/aqi-surface/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Message header keys.
const (
	HeaderSnapshotSource = "snapshot_source"
	HeaderBuiltAt        = "built_at"
)

// Writer publishes grid build events to a Kafka topic.
// It implements domain.GridPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured grid topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaGridTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishGrid serializes and writes one grid event.
func (w *Writer) PublishGrid(ctx context.Context, event domain.GridEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write grid event: %w", err)
	}
	w.logger.Debug("grid event published", "snapshot_id", event.SnapshotID, "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a GridEvent into a Kafka message keyed by
// snapshot id, so every build of one snapshot lands on the same partition.
func serializeToMessage(event domain.GridEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize grid event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.SnapshotID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: HeaderSnapshotSource, Value: []byte(event.SnapshotSource)},
			{Key: HeaderBuiltAt, Value: []byte(event.BuiltAt.Format(time.RFC3339))},
		},
	}, nil
}

// DecodeMessage parses a message produced by PublishGrid.
func DecodeMessage(msg kafkago.Message) (domain.GridEvent, error) {
	var event domain.GridEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return domain.GridEvent{}, fmt.Errorf("deserialize grid event: %w", err)
	}
	return event, nil
}
