package domain

import (
	"strings"
	"time"
)

// Transcription is the aggregate root of the pipeline. Its mutation methods
// are the only writers of its state; every legal transition records a
// domain event referencing the aggregate by id.
type Transcription struct {
	id            TranscriptionID
	userID        UserID
	audioFile     AudioFile
	language      Language
	status        Status
	text          TranscribedText
	youtube       YouTubeMetadata
	createdAt     time.Time
	startedAt     time.Time
	completedAt   time.Time
	failureReason string
	metadata      map[string]string
	version       int
	recorded      []DomainEvent
}

func newTranscription(id TranscriptionID, userID UserID, file AudioFile, language Language, youtube YouTubeMetadata) (*Transcription, error) {
	if id.IsZero() {
		return nil, &ValidationError{Field: "transcription id", Value: "", Expected: "non-empty id"}
	}
	if userID.IsZero() {
		return nil, &ValidationError{Field: "user id", Value: "", Expected: "non-empty id"}
	}
	if file.IsZero() {
		return nil, &ValidationError{Field: "audio file", Value: "", Expected: "validated audio file"}
	}
	if language.IsZero() {
		return nil, &ValidationError{Field: "language", Value: "", Expected: "supported language"}
	}

	t := &Transcription{
		id:        id,
		userID:    userID,
		audioFile: file,
		language:  language,
		status:    StatusPending,
		youtube:   youtube,
		createdAt: time.Now().UTC(),
		metadata:  map[string]string{},
	}
	t.record(NewTranscriptionCreated(id, userID, file, language, youtube.OriginalURL()))
	return t, nil
}

// CreateFromFile starts the lifecycle for an uploaded audio file.
func CreateFromFile(file AudioFile, language Language, userID UserID) (*Transcription, error) {
	return newTranscription(NewTranscriptionID(), userID, file, language, YouTubeMetadata{})
}

// CreateFromYouTube starts the lifecycle for audio downloaded from YouTube.
func CreateFromYouTube(file AudioFile, youtube YouTubeMetadata, language Language, userID UserID) (*Transcription, error) {
	if youtube.IsZero() {
		return nil, &ValidationError{Field: "youtube metadata", Value: "", Expected: "non-empty metadata"}
	}
	return newTranscription(NewTranscriptionID(), userID, file, language, youtube)
}

// StartProcessing moves a pending transcription to processing. When the
// audio was preprocessed, the file is swapped for the preprocessed path.
func (t *Transcription) StartProcessing(preprocessedPath string) error {
	if !t.status.IsPending() {
		return &InvalidStateError{Op: "start processing", From: t.status, To: StatusProcessing}
	}

	t.status = StatusProcessing
	t.startedAt = time.Now().UTC()
	if preprocessedPath != "" {
		t.audioFile = t.audioFile.WithPreprocessedPath(preprocessedPath)
	}

	t.record(NewTranscriptionStartedProcessing(t.id, "whisper", preprocessedPath))
	return nil
}

// Complete finishes a processing transcription with its result text. The
// result text is the only legal writer of the text field.
func (t *Transcription) Complete(text TranscribedText, metadata map[string]string) error {
	if !t.status.IsProcessing() {
		return &InvalidStateError{Op: "complete", From: t.status, To: StatusCompleted}
	}
	if text.IsZero() {
		return &ValidationError{Field: "transcribed text", Value: "", Expected: "non-empty text"}
	}

	t.status = StatusCompleted
	t.text = text
	t.completedAt = time.Now().UTC()
	for k, v := range metadata {
		t.metadata[k] = v
	}

	t.record(NewTranscriptionCompleted(t.id, text.WordCount(), text.Duration(), t.ProcessingDuration()))
	return nil
}

// Fail marks any non-completed transcription as failed. The failure context
// lands in the aggregate metadata; the event carries reason and code only.
func (t *Transcription) Fail(reason, errorCode string, context map[string]string) error {
	if t.status.IsCompleted() {
		return &InvalidStateError{Op: "fail", From: t.status, To: StatusFailed}
	}
	if errorCode == "" {
		errorCode = "UNKNOWN_ERROR"
	}

	t.status = StatusFailed
	t.failureReason = reason
	t.completedAt = time.Now().UTC()
	for k, v := range context {
		t.metadata["failure."+k] = v
	}

	t.record(NewTranscriptionFailed(t.id, reason, errorCode))
	return nil
}

// Cancel stops an unfinished transcription. Cancelling an already finished
// one is a no-op, not an error.
func (t *Transcription) Cancel() error {
	if t.status.IsFinished() {
		return nil
	}

	previous := t.status
	t.status = StatusCancelled
	t.completedAt = time.Now().UTC()

	t.record(NewTranscriptionCancelled(t.id, previous))
	return nil
}

// Retry returns a failed or cancelled transcription to pending, clearing
// the result, failure reason, failure metadata and timestamps. Metadata
// attached outside the failure path survives the retry.
func (t *Transcription) Retry() error {
	if !t.status.IsFailed() && !t.status.IsCancelled() {
		return &InvalidStateError{Op: "retry", From: t.status, To: StatusPending}
	}

	previous := t.status
	t.status = StatusPending
	t.text = TranscribedText{}
	t.failureReason = ""
	t.startedAt = time.Time{}
	t.completedAt = time.Time{}
	for k := range t.metadata {
		if strings.HasPrefix(k, "failure.") {
			delete(t.metadata, k)
		}
	}

	t.record(NewTranscriptionRetried(t.id, previous))
	return nil
}

func (t *Transcription) record(e DomainEvent) {
	t.recorded = append(t.recorded, e)
}

// RecordedEvents returns the events accumulated since the last release
// without clearing them. Used by storage adapters writing the outbox.
func (t *Transcription) RecordedEvents() []DomainEvent {
	out := make([]DomainEvent, len(t.recorded))
	copy(out, t.recorded)
	return out
}

// ReleaseEvents returns and clears the accumulated events. Called once per
// dispatch after the aggregate has been persisted.
func (t *Transcription) ReleaseEvents() []DomainEvent {
	out := t.recorded
	t.recorded = nil
	return out
}

func (t *Transcription) ID() TranscriptionID      { return t.id }
func (t *Transcription) UserID() UserID           { return t.userID }
func (t *Transcription) AudioFile() AudioFile     { return t.audioFile }
func (t *Transcription) Language() Language       { return t.language }
func (t *Transcription) Status() Status           { return t.status }
func (t *Transcription) Text() TranscribedText    { return t.text }
func (t *Transcription) HasText() bool            { return !t.text.IsZero() }
func (t *Transcription) YouTube() YouTubeMetadata { return t.youtube }
func (t *Transcription) IsYouTubeSource() bool    { return !t.youtube.IsZero() }
func (t *Transcription) CreatedAt() time.Time     { return t.createdAt }
func (t *Transcription) StartedAt() time.Time     { return t.startedAt }
func (t *Transcription) CompletedAt() time.Time   { return t.completedAt }
func (t *Transcription) FailureReason() string    { return t.failureReason }
func (t *Transcription) Version() int             { return t.version }

func (t *Transcription) Metadata() map[string]string {
	out := make(map[string]string, len(t.metadata))
	for k, v := range t.metadata {
		out[k] = v
	}
	return out
}

// ProcessingDuration is the wall-clock seconds between start and finish,
// 0 while either timestamp is unset.
func (t *Transcription) ProcessingDuration() float64 {
	if t.startedAt.IsZero() || t.completedAt.IsZero() {
		return 0
	}
	return t.completedAt.Sub(t.startedAt).Seconds()
}

func (t *Transcription) PreviewText(length int) string {
	if t.text.IsZero() {
		return ""
	}
	return t.text.Excerpt(length)
}

// MarkPersisted bumps the optimistic-concurrency token. Repositories call
// it after a successful compare-and-swap save.
func (t *Transcription) MarkPersisted() {
	t.version++
}

// Snapshot is the flat persistence shape of the aggregate. Storage adapters
// rebuild aggregates from it via FromSnapshot.
type Snapshot struct {
	ID               string
	UserID           string
	Path             string
	OriginalName     string
	MimeType         string
	Size             int64
	AudioDuration    float64
	PreprocessedPath string
	LanguageCode     string
	Status           string
	Text             string
	Segments         []Segment
	YouTubeVideoID   string
	YouTubeURL       string
	YouTubeTitle     string
	YouTubeDuration  int
	CreatedAt        time.Time
	StartedAt        time.Time
	CompletedAt      time.Time
	FailureReason    string
	Metadata         map[string]string
	Version          int
}

func (t *Transcription) Snapshot() Snapshot {
	return Snapshot{
		ID:               t.id.String(),
		UserID:           t.userID.String(),
		Path:             t.audioFile.Path(),
		OriginalName:     t.audioFile.OriginalName(),
		MimeType:         t.audioFile.MimeType(),
		Size:             t.audioFile.Size(),
		AudioDuration:    t.audioFile.Duration(),
		PreprocessedPath: t.audioFile.PreprocessedPath(),
		LanguageCode:     t.language.Code(),
		Status:           t.status.String(),
		Text:             t.text.Content(),
		Segments:         t.text.Segments(),
		YouTubeVideoID:   t.youtube.VideoID(),
		YouTubeURL:       t.youtube.OriginalURL(),
		YouTubeTitle:     t.youtube.Title(),
		YouTubeDuration:  t.youtube.Duration(),
		CreatedAt:        t.createdAt,
		StartedAt:        t.startedAt,
		CompletedAt:      t.completedAt,
		FailureReason:    t.failureReason,
		Metadata:         t.Metadata(),
		Version:          t.version,
	}
}

// FromSnapshot rehydrates an aggregate from storage. It revalidates value
// objects but records no events.
func FromSnapshot(s Snapshot) (*Transcription, error) {
	file, err := NewAudioFile(s.Path, s.OriginalName, s.MimeType, s.Size)
	if err != nil {
		return nil, err
	}
	if s.AudioDuration > 0 {
		file = file.WithDuration(s.AudioDuration)
	}
	if s.PreprocessedPath != "" {
		file = file.WithPreprocessedPath(s.PreprocessedPath)
	}

	language, err := NewLanguage(s.LanguageCode)
	if err != nil {
		return nil, err
	}
	status, err := ParseStatus(s.Status)
	if err != nil {
		return nil, err
	}

	var text TranscribedText
	if s.Text != "" {
		text, err = NewTranscribedText(s.Text, s.Segments)
		if err != nil {
			return nil, err
		}
	}

	var youtube YouTubeMetadata
	if s.YouTubeVideoID != "" {
		youtube, err = NewYouTubeMetadata(s.YouTubeVideoID, s.YouTubeURL, s.YouTubeTitle, s.YouTubeDuration)
		if err != nil {
			return nil, err
		}
	}

	metadata := make(map[string]string, len(s.Metadata))
	for k, v := range s.Metadata {
		metadata[k] = v
	}

	return &Transcription{
		id:            TranscriptionID(s.ID),
		userID:        UserID(s.UserID),
		audioFile:     file,
		language:      language,
		status:        status,
		text:          text,
		youtube:       youtube,
		createdAt:     s.CreatedAt,
		startedAt:     s.StartedAt,
		completedAt:   s.CompletedAt,
		failureReason: s.FailureReason,
		metadata:      metadata,
		version:       s.Version,
	}, nil
}
