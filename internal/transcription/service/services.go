package service

import (
	"context"
	"io"

	"github.com/romariotrain/transcription-platform/internal/transcription/domain"
)

// TranscriptionResult is what a provider returns for one audio file.
type TranscriptionResult struct {
	Text domain.TranscribedText
	Cost domain.Money
}

// Transcriber converts audio to text. Implementations live outside the
// core (Whisper API, local models); errors surface as processing failures.
type Transcriber interface {
	Transcribe(ctx context.Context, file domain.AudioFile, language domain.Language) (TranscriptionResult, error)
}

// Summarizer condenses a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, text string, style string) (string, error)
}

// DownloadedAudio describes an audio file fetched by a VideoDownloader.
type DownloadedAudio struct {
	Path         string
	OriginalName string
	MimeType     string
	Size         int64
	Duration     float64
}

// VideoMetadata is the probe result for a remote video.
type VideoMetadata struct {
	VideoID  string
	Title    string
	Duration int
}

// VideoDownloader fetches audio and metadata for remote videos (yt-dlp or
// similar behind the interface).
type VideoDownloader interface {
	DownloadAudio(ctx context.Context, url string) (DownloadedAudio, error)
	Metadata(ctx context.Context, url string) (VideoMetadata, error)
}

// Storage is a generic blob store for audio files and exports.
type Storage interface {
	Store(ctx context.Context, path string, r io.Reader) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error
	Move(ctx context.Context, from, to string) error
	List(ctx context.Context, prefix string) ([]string, error)
}
