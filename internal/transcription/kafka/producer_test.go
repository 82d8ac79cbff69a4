package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romariotrain/transcription-platform/internal/transcription/domain"
)

func newTestProducer(t *testing.T) *Producer {
	t.Helper()
	producer, err := NewProducer(ProducerConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "transcription.events",
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return producer
}

// completedEvent builds a finished transcription and returns its aggregate
// id with the marshalled TranscriptionCompleted payload, the exact shape the
// outbox publisher hands to Publish.
func completedEvent(t *testing.T) (key string, payload []byte) {
	t.Helper()

	file, err := domain.NewAudioFile("/tmp/interview.mp3", "interview.mp3", "audio/mpeg", 2*1024*1024)
	require.NoError(t, err)
	tr, err := domain.CreateFromFile(file, domain.French(), domain.UserID("user-1"))
	require.NoError(t, err)
	require.NoError(t, tr.StartProcessing(""))
	text, err := domain.NewTranscribedText("hello world", []domain.Segment{{Text: "hello world", Start: 0, End: 2}})
	require.NoError(t, err)
	require.NoError(t, tr.Complete(text, nil))

	events := tr.ReleaseEvents()
	last := events[len(events)-1]
	raw, err := json.Marshal(last)
	require.NoError(t, err)
	return last.AggregateID(), raw
}

func TestNewProducer(t *testing.T) {
	producer := newTestProducer(t)

	assert.Equal(t, "transcription.events", producer.config.Topic)
	assert.Equal(t, 3, producer.config.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, producer.config.RetryBackoff)
	assert.Equal(t, 10*time.Second, producer.config.WriteTimeout)
	assert.Equal(t, 100, producer.config.BatchSize)
	assert.False(t, producer.config.Async)
}

func TestNewProducer_RejectsBadConfig(t *testing.T) {
	valid := ProducerConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "transcription.events",
		Logger:  zerolog.Nop(),
	}

	tests := []struct {
		name    string
		mutate  func(*ProducerConfig)
		wantErr string
	}{
		{"no brokers", func(c *ProducerConfig) { c.Brokers = nil }, "brokers list is empty"},
		{"no topic", func(c *ProducerConfig) { c.Topic = "" }, "topic is empty"},
		{"negative retries", func(c *ProducerConfig) { c.MaxRetries = -1 }, "max_retries cannot be negative"},
		{"negative backoff", func(c *ProducerConfig) { c.RetryBackoff = -time.Second }, "retry_backoff cannot be negative"},
		{"negative write timeout", func(c *ProducerConfig) { c.WriteTimeout = -time.Second }, "write_timeout cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			producer, err := NewProducer(cfg)
			require.Error(t, err)
			assert.Nil(t, producer)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSetDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := ProducerConfig{
		MaxRetries:   5,
		RetryBackoff: 200 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
		BatchSize:    50,
	}
	setDefaults(&cfg)

	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 200*time.Millisecond, cfg.RetryBackoff)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 50, cfg.BatchSize)

	var zero ProducerConfig
	setDefaults(&zero)
	assert.Equal(t, 3, zero.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, zero.RetryBackoff)
	assert.Equal(t, 10*time.Second, zero.WriteTimeout)
	assert.Equal(t, 100, zero.BatchSize)
}

func TestIsRetriableError(t *testing.T) {
	retriable := []error{
		errors.New("connection refused"),
		errors.New("connection reset by peer"),
		errors.New("i/o timeout"),
		errors.New("leader not available"),
		errors.New("broker restarting"), // unknown defaults to retriable
	}
	for _, err := range retriable {
		assert.True(t, isRetriableError(err), "expected retriable: %v", err)
	}

	terminal := []error{
		nil,
		context.Canceled,
		context.DeadlineExceeded,
		errors.New("invalid message format"),
		errors.New("message too large"),
		errors.New("authorization failed"),
	}
	for _, err := range terminal {
		assert.False(t, isRetriableError(err), "expected terminal: %v", err)
	}
}

func TestGetMetrics(t *testing.T) {
	producer := newTestProducer(t)

	metrics := producer.GetMetrics()
	assert.Zero(t, metrics.MessagesPublished)
	assert.Zero(t, metrics.MessagesFailed)
	assert.Zero(t, metrics.RetriesTotal)
	assert.Zero(t, metrics.AvgPublishTime)

	producer.metrics.MessagesPublished.Add(10)
	producer.metrics.MessagesFailed.Add(2)
	producer.metrics.RetriesTotal.Add(5)
	producer.metrics.PublishDuration.Add(int64(100 * time.Millisecond))

	metrics = producer.GetMetrics()
	assert.Equal(t, int64(10), metrics.MessagesPublished)
	assert.Equal(t, int64(2), metrics.MessagesFailed)
	assert.Equal(t, int64(5), metrics.RetriesTotal)
	assert.Equal(t, 10*time.Millisecond, metrics.AvgPublishTime)
}

func TestGetMetrics_NoPublishedAvoidsDivision(t *testing.T) {
	producer := newTestProducer(t)
	producer.metrics.PublishDuration.Add(int64(100 * time.Millisecond))

	assert.Equal(t, time.Duration(0), producer.GetMetrics().AvgPublishTime)
}

func TestClose(t *testing.T) {
	producer := newTestProducer(t)

	// first close may error without a reachable broker; closed flips anyway
	_ = producer.Close()
	assert.True(t, producer.closed.Load())

	err := producer.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already closed")
}

func TestPublishAfterClose(t *testing.T) {
	producer := newTestProducer(t)
	producer.closed.Store(true)

	key, payload := completedEvent(t)
	err := producer.Publish(context.Background(), key, payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "producer is closed")

	// the payload really is the event wire shape
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "TranscriptionCompleted", decoded["event_type"])
	assert.Equal(t, key, decoded["transcription_id"])
}

func TestPublishBatchAfterClose(t *testing.T) {
	producer := newTestProducer(t)
	producer.closed.Store(true)

	keyA, payloadA := completedEvent(t)
	keyB, payloadB := completedEvent(t)
	err := producer.PublishBatch(context.Background(), []Message{
		{Key: keyA, Value: payloadA},
		{Key: keyB, Value: payloadB},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "producer is closed")
}

func TestPublishBatch_EmptyIsNoOp(t *testing.T) {
	producer := newTestProducer(t)

	require.NoError(t, producer.PublishBatch(context.Background(), nil))
	assert.Zero(t, producer.GetMetrics().MessagesPublished)
}

func TestHealthCheck_Closed(t *testing.T) {
	producer := newTestProducer(t)
	producer.closed.Store(true)

	err := producer.HealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "producer is closed")
}
