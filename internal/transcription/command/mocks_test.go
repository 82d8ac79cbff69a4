package command

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/romariotrain/transcription-platform/internal/transcription/domain"
	"github.com/romariotrain/transcription-platform/internal/transcription/service"
)

type TranscriberMock struct {
	mock.Mock
}

func (m *TranscriberMock) Transcribe(ctx context.Context, file domain.AudioFile, language domain.Language) (service.TranscriptionResult, error) {
	args := m.Called(ctx, file, language)
	return args.Get(0).(service.TranscriptionResult), args.Error(1)
}

type DownloaderMock struct {
	mock.Mock
}

func (m *DownloaderMock) Metadata(ctx context.Context, url string) (service.VideoMetadata, error) {
	args := m.Called(ctx, url)
	return args.Get(0).(service.VideoMetadata), args.Error(1)
}

func (m *DownloaderMock) DownloadAudio(ctx context.Context, url string) (service.DownloadedAudio, error) {
	args := m.Called(ctx, url)
	return args.Get(0).(service.DownloadedAudio), args.Error(1)
}

// dispatcherRecorder collects everything dispatched, in order.
type dispatcherRecorder struct {
	events []domain.DomainEvent
}

func (d *dispatcherRecorder) DispatchAll(ctx context.Context, events []domain.DomainEvent) {
	d.events = append(d.events, events...)
}

func (d *dispatcherRecorder) eventTypes() []string {
	out := make([]string, len(d.events))
	for i, e := range d.events {
		out[i] = e.EventType()
	}
	return out
}
