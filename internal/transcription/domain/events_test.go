package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptionCreated_MarshalJSON(t *testing.T) {
	tr := testTranscription(t)
	events := tr.RecordedEvents()
	require.Len(t, events, 1)

	payload, err := json.Marshal(events[0])
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, "TranscriptionCreated", decoded["event_type"])
	assert.Equal(t, tr.ID().String(), decoded["transcription_id"])
	assert.Equal(t, "user-1", decoded["user_id"])
	assert.Equal(t, "fr", decoded["language_code"])
	assert.NotContains(t, decoded, "youtube_url") // omitted for uploads
	assert.NotEmpty(t, decoded["event_id"])
	assert.NotEmpty(t, decoded["occurred_at"])
}

func TestTranscriptionFailed_PayloadIsClosed(t *testing.T) {
	tr := testTranscription(t)
	require.NoError(t, tr.Fail("timeout", "TIMEOUT", map[string]string{"secret": "value"}))

	events := tr.RecordedEvents()
	payload, err := json.Marshal(events[len(events)-1])
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, "timeout", decoded["reason"])
	assert.Equal(t, "TIMEOUT", decoded["error_code"])
	// failure context stays in the aggregate, never on the wire
	assert.NotContains(t, string(payload), "secret")
}

func TestEvents_HaveDistinctIDs(t *testing.T) {
	tr := testTranscription(t)
	require.NoError(t, tr.StartProcessing(""))
	text, err := NewTranscribedText("done", nil)
	require.NoError(t, err)
	require.NoError(t, tr.Complete(text, nil))

	events := tr.RecordedEvents()
	require.Len(t, events, 3)

	seen := map[string]bool{}
	for _, e := range events {
		assert.False(t, seen[e.EventID().String()])
		seen[e.EventID().String()] = true
		assert.Equal(t, tr.ID().String(), e.AggregateID())
		assert.False(t, e.OccurredAt().IsZero())
	}
}
