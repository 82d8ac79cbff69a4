package event

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/romariotrain/transcription-platform/internal/transcription/domain"
)

// History bounds: per event type, at most maxHistory entries; on overflow
// the buffer is trimmed to the most recent keepHistory before appending.
const (
	maxHistory  = 1000
	keepHistory = 500
)

// Subscriber consumes domain events. A subscriber error is logged and
// isolated; it never stops delivery to the remaining subscribers.
type Subscriber interface {
	Name() string
	Handle(ctx context.Context, e domain.DomainEvent) error
}

// HistoryEntry is one dispatched event kept for inspection, not replay.
type HistoryEntry struct {
	Event      domain.DomainEvent
	ReceivedAt time.Time
}

// Dispatcher is the in-process pub/sub fan-out for domain events.
type Dispatcher struct {
	mu             sync.RWMutex
	subscribers    map[string][]Subscriber
	history        map[string][]HistoryEntry
	historyEnabled bool
	stats          map[string]int
	logger         zerolog.Logger
}

func NewDispatcher(logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		subscribers: make(map[string][]Subscriber),
		history:     make(map[string][]HistoryEntry),
		stats:       make(map[string]int),
		logger:      logger.With().Str("component", "event_dispatcher").Logger(),
	}
}

func (d *Dispatcher) Subscribe(eventType string, s Subscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers[eventType] = append(d.subscribers[eventType], s)
}

func (d *Dispatcher) Unsubscribe(eventType string, s Subscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()

	subs := d.subscribers[eventType]
	kept := subs[:0]
	for _, sub := range subs {
		if sub != s {
			kept = append(kept, sub)
		}
	}
	d.subscribers[eventType] = kept
}

// Dispatch delivers one event to every subscriber of its type. The event
// is logged unconditionally; each subscriber runs independently.
func (d *Dispatcher) Dispatch(ctx context.Context, e domain.DomainEvent) {
	eventType := e.EventType()

	d.logger.Info().
		Str("event", eventType).
		Str("event_id", e.EventID().String()).
		Str("aggregate_id", e.AggregateID()).
		Time("occurred_at", e.OccurredAt()).
		Msg("event dispatched")

	d.mu.Lock()
	d.stats[eventType]++
	if d.historyEnabled {
		d.appendHistory(eventType, e)
	}
	subs := make([]Subscriber, len(d.subscribers[eventType]))
	copy(subs, d.subscribers[eventType])
	d.mu.Unlock()

	for _, sub := range subs {
		if err := sub.Handle(ctx, e); err != nil {
			d.logger.Error().
				Err(err).
				Str("event", eventType).
				Str("event_id", e.EventID().String()).
				Str("subscriber", sub.Name()).
				Msg("subscriber failed")
		}
	}
}

func (d *Dispatcher) DispatchAll(ctx context.Context, events []domain.DomainEvent) {
	for _, e := range events {
		d.Dispatch(ctx, e)
	}
}

func (d *Dispatcher) appendHistory(eventType string, e domain.DomainEvent) {
	entries := d.history[eventType]
	if len(entries) >= maxHistory {
		trimmed := make([]HistoryEntry, keepHistory)
		copy(trimmed, entries[len(entries)-keepHistory:])
		entries = trimmed
	}
	d.history[eventType] = append(entries, HistoryEntry{Event: e, ReceivedAt: time.Now().UTC()})
}

// EnableHistory toggles the bounded in-memory history. Debug tooling only;
// no durability or replay semantics.
func (d *Dispatcher) EnableHistory(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.historyEnabled = enabled
}

func (d *Dispatcher) History(eventType string) []HistoryEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()

	entries := d.history[eventType]
	out := make([]HistoryEntry, len(entries))
	copy(out, entries)
	return out
}

func (d *Dispatcher) ClearHistory() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.history = make(map[string][]HistoryEntry)
}

func (d *Dispatcher) Stats() map[string]int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]int, len(d.stats))
	for k, v := range d.stats {
		out[k] = v
	}
	return out
}

func (d *Dispatcher) HasSubscribers(eventType string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subscribers[eventType]) > 0
}
