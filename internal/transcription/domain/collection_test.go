package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCollection(t *testing.T) Collection {
	t.Helper()

	pending := testTranscription(t)

	processing := testTranscription(t)
	require.NoError(t, processing.StartProcessing(""))

	completed := testTranscription(t)
	require.NoError(t, completed.StartProcessing(""))
	text, err := NewTranscribedText("one two three", []Segment{{Text: "one two three", Start: 0, End: 3}})
	require.NoError(t, err)
	require.NoError(t, completed.Complete(text, nil))

	failed := testTranscription(t)
	require.NoError(t, failed.Fail("boom", "", nil))

	youtube, err := NewYouTubeMetadata("dQw4w9WgXcQ", "https://youtu.be/dQw4w9WgXcQ", "", 0)
	require.NoError(t, err)
	fromYT, err := CreateFromYouTube(testAudioFile(t), youtube, English(), UserID("user-2"))
	require.NoError(t, err)

	return NewCollection(pending, processing, completed, failed, fromYT)
}

func TestCollection_FilterDoesNotMutateSource(t *testing.T) {
	c := buildCollection(t)

	completed := c.OnlyCompleted()
	assert.Equal(t, 1, completed.Count())
	assert.Equal(t, 5, c.Count())

	failed := c.OnlyFailed()
	assert.Equal(t, 1, failed.Count())
	assert.Equal(t, 5, c.Count())
}

func TestCollection_FilterEqualsChainedFilters(t *testing.T) {
	c := buildCollection(t)

	combined := c.Filter(And(ByUser(UserID("user-1")), ByStatus(StatusPending)))
	chained := c.Filter(ByUser(UserID("user-1"))).ByStatus(StatusPending)
	assert.Equal(t, chained.Count(), combined.Count())
}

func TestCollection_Shortcuts(t *testing.T) {
	c := buildCollection(t)

	assert.Equal(t, 2, c.OnlyPending().Count()) // uploaded pending + youtube pending
	assert.Equal(t, 1, c.OnlyProcessing().Count())
	assert.Equal(t, 1, c.OnlyYouTube().Count())
	assert.Equal(t, 4, c.ByLanguage(French()).Count())
}

func TestCollection_Paginate(t *testing.T) {
	c := buildCollection(t)

	first := c.Paginate(1, 2)
	assert.Equal(t, 2, first.Count())
	assert.Equal(t, 2, c.Paginate(2, 2).Count())
	assert.Equal(t, 1, c.Paginate(3, 2).Count())
	assert.True(t, c.Paginate(4, 2).IsEmpty())
	assert.True(t, c.Paginate(0, 2).IsEmpty())
	assert.True(t, c.Paginate(1, 0).IsEmpty())
}

func TestCollection_Window(t *testing.T) {
	c := buildCollection(t)
	all := c.Items()

	// offsets need not align with the limit
	window := c.Window(3, 4)
	require.Equal(t, 2, window.Count())
	assert.Equal(t, all[3].ID(), window.Items()[0].ID())
	assert.Equal(t, all[4].ID(), window.Items()[1].ID())

	assert.Equal(t, 2, c.Window(0, 2).Count())
	assert.True(t, c.Window(5, 2).IsEmpty())
	assert.True(t, c.Window(-1, 2).IsEmpty())
	assert.True(t, c.Window(0, 0).IsEmpty())
	assert.Equal(t, 5, c.Count())
}

func TestCollection_Statistics(t *testing.T) {
	c := buildCollection(t)
	stats := c.Statistics()

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Processing)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 0, stats.Cancelled)
	assert.Equal(t, 1, stats.YouTubeSources)
	assert.Equal(t, 3, stats.TotalWords)
	assert.Equal(t, 3.0, stats.TotalDuration)
	assert.Equal(t, 4, stats.Languages["fr"])
	assert.Equal(t, 1, stats.Languages["en"])

	assert.Equal(t, 3, c.TotalWordCount())
	assert.Equal(t, 3.0, c.TotalDuration())
}

func TestCollection_First(t *testing.T) {
	empty := NewCollection()
	_, ok := empty.First()
	assert.False(t, ok)

	c := buildCollection(t)
	first, ok := c.First()
	require.True(t, ok)
	assert.NotNil(t, first)
}
