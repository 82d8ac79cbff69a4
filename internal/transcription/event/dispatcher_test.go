package event

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romariotrain/transcription-platform/internal/transcription/domain"
)

type recordingSubscriber struct {
	name   string
	events []domain.DomainEvent
	err    error
}

func (s *recordingSubscriber) Name() string { return s.name }

func (s *recordingSubscriber) Handle(ctx context.Context, e domain.DomainEvent) error {
	s.events = append(s.events, e)
	return s.err
}

func createdEvent(t *testing.T) domain.DomainEvent {
	t.Helper()
	file, err := domain.NewAudioFile("/tmp/a.mp3", "a.mp3", "audio/mpeg", 1024*1024)
	require.NoError(t, err)
	tr, err := domain.CreateFromFile(file, domain.French(), domain.UserID("user-1"))
	require.NoError(t, err)
	events := tr.ReleaseEvents()
	require.Len(t, events, 1)
	return events[0]
}

func TestDispatcher_DeliversToSubscribers(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())
	e := createdEvent(t)

	a := &recordingSubscriber{name: "a"}
	b := &recordingSubscriber{name: "b"}
	d.Subscribe(e.EventType(), a)
	d.Subscribe(e.EventType(), b)

	d.Dispatch(context.Background(), e)

	require.Len(t, a.events, 1)
	require.Len(t, b.events, 1)
	assert.Equal(t, e.EventID(), a.events[0].EventID())
}

func TestDispatcher_SubscriberErrorDoesNotStopDelivery(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())
	e := createdEvent(t)

	failing := &recordingSubscriber{name: "failing", err: errors.New("boom")}
	sibling := &recordingSubscriber{name: "sibling"}
	d.Subscribe(e.EventType(), failing)
	d.Subscribe(e.EventType(), sibling)

	d.Dispatch(context.Background(), e)

	assert.Len(t, failing.events, 1)
	assert.Len(t, sibling.events, 1)
}

func TestDispatcher_DispatchWithoutSubscribers(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())
	e := createdEvent(t)

	assert.False(t, d.HasSubscribers(e.EventType()))
	d.Dispatch(context.Background(), e)

	assert.Equal(t, 1, d.Stats()[e.EventType()])
}

func TestDispatcher_Unsubscribe(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())
	e := createdEvent(t)

	sub := &recordingSubscriber{name: "a"}
	d.Subscribe(e.EventType(), sub)
	require.True(t, d.HasSubscribers(e.EventType()))

	d.Unsubscribe(e.EventType(), sub)
	assert.False(t, d.HasSubscribers(e.EventType()))

	d.Dispatch(context.Background(), e)
	assert.Empty(t, sub.events)
}

func TestDispatcher_DispatchAllPreservesOrder(t *testing.T) {
	ctx := context.Background()
	d := NewDispatcher(zerolog.Nop())

	file, err := domain.NewAudioFile("/tmp/a.mp3", "a.mp3", "audio/mpeg", 1024*1024)
	require.NoError(t, err)
	tr, err := domain.CreateFromFile(file, domain.French(), domain.UserID("user-1"))
	require.NoError(t, err)
	require.NoError(t, tr.StartProcessing(""))

	events := tr.ReleaseEvents()
	require.Len(t, events, 2)

	sub := &recordingSubscriber{name: "a"}
	for _, e := range events {
		d.Subscribe(e.EventType(), sub)
	}

	d.DispatchAll(ctx, events)

	require.Len(t, sub.events, 2)
	assert.Equal(t, "TranscriptionCreated", sub.events[0].EventType())
	assert.Equal(t, "TranscriptionStartedProcessing", sub.events[1].EventType())
}

func TestDispatcher_HistoryDisabledByDefault(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())
	e := createdEvent(t)

	d.Dispatch(context.Background(), e)
	assert.Empty(t, d.History(e.EventType()))
}

func TestDispatcher_HistoryIsBounded(t *testing.T) {
	ctx := context.Background()
	d := NewDispatcher(zerolog.Nop())
	d.EnableHistory(true)

	e := createdEvent(t)
	for i := 0; i < maxHistory+1; i++ {
		d.Dispatch(ctx, e)
	}

	// overflow trims to the most recent keepHistory, then appends
	history := d.History(e.EventType())
	assert.Len(t, history, keepHistory+1)
	assert.Equal(t, maxHistory+1, d.Stats()[e.EventType()])
}

func TestDispatcher_ClearHistory(t *testing.T) {
	ctx := context.Background()
	d := NewDispatcher(zerolog.Nop())
	d.EnableHistory(true)

	e := createdEvent(t)
	d.Dispatch(ctx, e)
	require.Len(t, d.History(e.EventType()), 1)

	d.ClearHistory()
	assert.Empty(t, d.History(e.EventType()))
	// counters survive a history reset
	assert.Equal(t, 1, d.Stats()[e.EventType()])
}

func TestStatsSubscriber_AggregatesCompletedWork(t *testing.T) {
	ctx := context.Background()
	sub := NewStatsSubscriber()

	file, err := domain.NewAudioFile("/tmp/a.mp3", "a.mp3", "audio/mpeg", 1024*1024)
	require.NoError(t, err)
	tr, err := domain.CreateFromFile(file, domain.French(), domain.UserID("user-1"))
	require.NoError(t, err)
	require.NoError(t, tr.StartProcessing(""))
	text, err := domain.NewTranscribedText("hello brave new world", []domain.Segment{{Text: "hello brave new world", Start: 0, End: 4}})
	require.NoError(t, err)
	require.NoError(t, tr.Complete(text, nil))

	for _, e := range tr.ReleaseEvents() {
		require.NoError(t, sub.Handle(ctx, e))
	}

	counters := sub.Counters()
	assert.Equal(t, 1, counters["TranscriptionCreated"])
	assert.Equal(t, 1, counters["TranscriptionCompleted"])
	assert.Equal(t, 4, sub.TotalWords())
	assert.Equal(t, 4.0, sub.TotalAudioSeconds())
}

func TestDispatcher_SharedSubscriberAggregatesAcrossEventTypes(t *testing.T) {
	ctx := context.Background()
	d := NewDispatcher(zerolog.Nop())

	// one instance wired to every type, so counters stay in one place
	stats := NewStatsSubscriber()
	for _, eventType := range []string{"TranscriptionCreated", "TranscriptionStartedProcessing"} {
		d.Subscribe(eventType, stats)
	}

	file, err := domain.NewAudioFile("/tmp/a.mp3", "a.mp3", "audio/mpeg", 1024*1024)
	require.NoError(t, err)
	tr, err := domain.CreateFromFile(file, domain.French(), domain.UserID("user-1"))
	require.NoError(t, err)
	require.NoError(t, tr.StartProcessing(""))

	d.DispatchAll(ctx, tr.ReleaseEvents())

	counters := stats.Counters()
	assert.Equal(t, 1, counters["TranscriptionCreated"])
	assert.Equal(t, 1, counters["TranscriptionStartedProcessing"])
}

func TestAuditSubscriber_RecordsTrail(t *testing.T) {
	ctx := context.Background()
	sub := NewAuditSubscriber()
	e := createdEvent(t)

	require.NoError(t, sub.Handle(ctx, e))

	records := sub.Records()
	require.Len(t, records, 1)
	assert.Equal(t, e.EventType(), records[0].EventType)
	assert.Equal(t, e.AggregateID(), records[0].AggregateID)
	assert.False(t, records[0].RecordedAt.IsZero())
}
