//go:build integration

package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/couchcryptid/aqi-surface/internal/adapter/kafka"
	"github.com/couchcryptid/aqi-surface/internal/adapter/synthetic"
	"github.com/couchcryptid/aqi-surface/internal/config"
	"github.com/couchcryptid/aqi-surface/internal/domain"
	"github.com/couchcryptid/aqi-surface/internal/observability"
	"github.com/couchcryptid/aqi-surface/internal/service"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGridTopic = "test-grid-builds"

// TestGridEventsRoundTrip builds a grid through the service with the Kafka
// writer attached and reads the published event back from the topic.
func TestGridEventsRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testGridTopic)

	cfg := &config.Config{
		KafkaBrokers:   []string{broker},
		KafkaGridTopic: testGridTopic,
	}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	japan := domain.Bounds{MinLat: 24, MinLon: 123, MaxLat: 46, MaxLon: 146}
	svc, err := service.New(service.Options{
		Fallback:  synthetic.NewSeededGenerator(japan, 60, 42),
		Publisher: writer,
		Metrics:   observability.NewMetricsForTesting(),
		Logger:    discardLogger(),
	})
	require.NoError(t, err)

	snap, err := svc.Refresh(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.SourceSynthetic, snap.Source)

	params := domain.GridParams{Rows: 20, Cols: 30, K: 4}
	res, err := svc.Grid(ctx, params)
	require.NoError(t, err)

	// A cache hit must not publish a second event.
	_, err = svc.Grid(ctx, params)
	require.NoError(t, err)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testGridTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	t.Cleanup(func() { _ = reader.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err, "read grid event")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, snap.ID, string(msg.Key))
	assert.Equal(t, domain.SourceSynthetic, headers[kafka.HeaderSnapshotSource])
	assert.NotEmpty(t, headers[kafka.HeaderBuiltAt])

	event, err := kafka.DecodeMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, event.SnapshotID)
	assert.Equal(t, 60, event.Stations)
	assert.Equal(t, params, event.Params)
	assert.Equal(t, res.Grid.Bounds(), event.Bounds)
	assert.Equal(t, params.Rows*params.Cols, event.Summary.Count)

	// Only one event was written.
	lag, err := reader.ReadLag(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), lag)
}
