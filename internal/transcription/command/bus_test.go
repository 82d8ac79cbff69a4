package command

import (
	"context"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romariotrain/transcription-platform/internal/transcription/domain"
	"github.com/romariotrain/transcription-platform/internal/transcription/repository"
)

type stubHandler struct {
	names  []string
	result any
	err    error
	calls  int
}

func (h *stubHandler) CommandNames() []string { return h.names }

func (h *stubHandler) Handle(ctx context.Context, cmd Command) (any, error) {
	h.calls++
	return h.result, h.err
}

func TestBus_DispatchRoutesToHandler(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	h := &stubHandler{names: []string{CancelName}, result: "ok"}
	require.NoError(t, bus.Register(h))

	cmd, err := NewCancel(domain.NewTranscriptionID())
	require.NoError(t, err)

	result, err := bus.Dispatch(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, h.calls)
}

func TestBus_DispatchUnknownCommand(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	cmd, err := NewCancel(domain.NewTranscriptionID())
	require.NoError(t, err)

	_, err = bus.Dispatch(context.Background(), cmd)
	require.ErrorIs(t, err, ErrNoHandler)
	assert.Contains(t, err.Error(), CancelName)
}

func TestBus_UnknownCommandLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	bus := NewBus(zerolog.Nop())
	// only lifecycle commands are routable, creation is not
	require.NoError(t, bus.Register(NewLifecycleHandler(repo, &dispatcherRecorder{})))

	file, err := domain.NewAudioFile("/tmp/a.mp3", "a.mp3", "audio/mpeg", 1024)
	require.NoError(t, err)
	cmd, err := NewCreateFromFile(domain.UserID("user-1"), file, domain.French(), false)
	require.NoError(t, err)

	_, err = bus.Dispatch(ctx, cmd)
	require.ErrorIs(t, err, ErrNoHandler)

	count, err := repo.CountByUser(ctx, domain.UserID("user-1"))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestBus_RegisterDuplicate(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	require.NoError(t, bus.Register(&stubHandler{names: []string{CancelName}}))

	err := bus.Register(&stubHandler{names: []string{RetryName, CancelName}})
	require.ErrorIs(t, err, ErrDuplicateHandler)
}

func TestBus_RegisteredCommands(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	require.NoError(t, bus.Register(&stubHandler{names: []string{CancelName, RetryName}}))

	assert.True(t, bus.HasHandler(CancelName))
	assert.False(t, bus.HasHandler(ProcessName))

	names := bus.RegisteredCommands()
	sort.Strings(names)
	assert.Equal(t, []string{CancelName, RetryName}, names)
}
