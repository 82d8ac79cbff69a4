package event

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/romariotrain/transcription-platform/internal/transcription/domain"
)

// NotificationSubscriber emits user-facing notifications for lifecycle
// milestones. Delivery is log-only here; a mail or push channel plugs in
// behind the same subscriber.
type NotificationSubscriber struct {
	logger zerolog.Logger
}

func NewNotificationSubscriber(logger zerolog.Logger) *NotificationSubscriber {
	return &NotificationSubscriber{
		logger: logger.With().Str("component", "notifications").Logger(),
	}
}

func (s *NotificationSubscriber) Name() string { return "notifications" }

func (s *NotificationSubscriber) Handle(ctx context.Context, e domain.DomainEvent) error {
	switch ev := e.(type) {
	case *domain.TranscriptionCreated:
		s.logger.Info().
			Str("transcription_id", ev.AggregateID()).
			Str("user_id", ev.UserID()).
			Str("language", ev.LanguageCode()).
			Msg("transcription accepted")
	case *domain.TranscriptionCompleted:
		s.logger.Info().
			Str("transcription_id", ev.AggregateID()).
			Int("word_count", ev.WordCount()).
			Float64("processing_seconds", ev.ProcessingSeconds()).
			Msg("transcription ready")
	case *domain.TranscriptionFailed:
		s.logger.Warn().
			Str("transcription_id", ev.AggregateID()).
			Str("reason", ev.Reason()).
			Str("error_code", ev.ErrorCode()).
			Msg("transcription failed")
	}
	return nil
}

// StatsSubscriber keeps running counters per event type. It backs the
// operational snapshot exposed over the API, not billing.
type StatsSubscriber struct {
	mu       sync.RWMutex
	counters map[string]int
	words    int
	seconds  float64
}

func NewStatsSubscriber() *StatsSubscriber {
	return &StatsSubscriber{counters: make(map[string]int)}
}

func (s *StatsSubscriber) Name() string { return "stats_projection" }

func (s *StatsSubscriber) Handle(ctx context.Context, e domain.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[e.EventType()]++
	if completed, ok := e.(*domain.TranscriptionCompleted); ok {
		s.words += completed.WordCount()
		s.seconds += completed.AudioDuration()
	}
	return nil
}

func (s *StatsSubscriber) Counters() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.counters))
	for k, v := range s.counters {
		out[k] = v
	}
	return out
}

func (s *StatsSubscriber) TotalWords() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.words
}

func (s *StatsSubscriber) TotalAudioSeconds() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seconds
}

// AuditRecord is one line of the in-memory audit trail.
type AuditRecord struct {
	EventType   string
	AggregateID string
	OccurredAt  time.Time
	RecordedAt  time.Time
}

// AuditSubscriber appends a compact record per event. Durable auditing goes
// through the outbox; this trail serves debugging and tests.
type AuditSubscriber struct {
	mu      sync.RWMutex
	records []AuditRecord
}

func NewAuditSubscriber() *AuditSubscriber {
	return &AuditSubscriber{}
}

func (s *AuditSubscriber) Name() string { return "audit_log" }

func (s *AuditSubscriber) Handle(ctx context.Context, e domain.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, AuditRecord{
		EventType:   e.EventType(),
		AggregateID: e.AggregateID(),
		OccurredAt:  e.OccurredAt(),
		RecordedAt:  time.Now().UTC(),
	})
	return nil
}

func (s *AuditSubscriber) Records() []AuditRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]AuditRecord, len(s.records))
	copy(out, s.records)
	return out
}
