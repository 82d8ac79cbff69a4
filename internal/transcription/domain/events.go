package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is an immutable fact about a transcription's history. Events
// reference the aggregate only by its id string, never by pointer, so they
// stay serializable and carry no live state.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

type baseEvent struct {
	eventID         uuid.UUID
	transcriptionID string
	occurredAt      time.Time
}

func newBaseEvent(transcriptionID TranscriptionID) baseEvent {
	return baseEvent{
		eventID:         uuid.New(),
		transcriptionID: transcriptionID.String(),
		occurredAt:      time.Now().UTC(),
	}
}

func (e baseEvent) EventID() uuid.UUID    { return e.eventID }
func (e baseEvent) AggregateID() string   { return e.transcriptionID }
func (e baseEvent) OccurredAt() time.Time { return e.occurredAt }

type TranscriptionCreated struct {
	baseEvent
	userID       string
	languageCode string
	originalName string
	youtubeURL   string
}

func NewTranscriptionCreated(id TranscriptionID, userID UserID, file AudioFile, language Language, youtubeURL string) *TranscriptionCreated {
	return &TranscriptionCreated{
		baseEvent:    newBaseEvent(id),
		userID:       userID.String(),
		languageCode: language.Code(),
		originalName: file.OriginalName(),
		youtubeURL:   youtubeURL,
	}
}

func (e *TranscriptionCreated) EventType() string    { return "TranscriptionCreated" }
func (e *TranscriptionCreated) UserID() string       { return e.userID }
func (e *TranscriptionCreated) LanguageCode() string { return e.languageCode }
func (e *TranscriptionCreated) OriginalName() string { return e.originalName }
func (e *TranscriptionCreated) YouTubeURL() string   { return e.youtubeURL }

func (e *TranscriptionCreated) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EventID         uuid.UUID `json:"event_id"`
		EventType       string    `json:"event_type"`
		TranscriptionID string    `json:"transcription_id"`
		UserID          string    `json:"user_id"`
		LanguageCode    string    `json:"language_code"`
		OriginalName    string    `json:"original_name"`
		YouTubeURL      string    `json:"youtube_url,omitempty"`
		OccurredAt      time.Time `json:"occurred_at"`
	}{
		EventID:         e.eventID,
		EventType:       e.EventType(),
		TranscriptionID: e.transcriptionID,
		UserID:          e.userID,
		LanguageCode:    e.languageCode,
		OriginalName:    e.originalName,
		YouTubeURL:      e.youtubeURL,
		OccurredAt:      e.occurredAt,
	})
}

type TranscriptionStartedProcessing struct {
	baseEvent
	engine           string
	preprocessedPath string
}

func NewTranscriptionStartedProcessing(id TranscriptionID, engine, preprocessedPath string) *TranscriptionStartedProcessing {
	return &TranscriptionStartedProcessing{
		baseEvent:        newBaseEvent(id),
		engine:           engine,
		preprocessedPath: preprocessedPath,
	}
}

func (e *TranscriptionStartedProcessing) EventType() string        { return "TranscriptionStartedProcessing" }
func (e *TranscriptionStartedProcessing) Engine() string           { return e.engine }
func (e *TranscriptionStartedProcessing) PreprocessedPath() string { return e.preprocessedPath }

func (e *TranscriptionStartedProcessing) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EventID          uuid.UUID `json:"event_id"`
		EventType        string    `json:"event_type"`
		TranscriptionID  string    `json:"transcription_id"`
		Engine           string    `json:"engine"`
		PreprocessedPath string    `json:"preprocessed_path,omitempty"`
		OccurredAt       time.Time `json:"occurred_at"`
	}{
		EventID:          e.eventID,
		EventType:        e.EventType(),
		TranscriptionID:  e.transcriptionID,
		Engine:           e.engine,
		PreprocessedPath: e.preprocessedPath,
		OccurredAt:       e.occurredAt,
	})
}

type TranscriptionCompleted struct {
	baseEvent
	wordCount         int
	audioDuration     float64
	processingSeconds float64
}

func NewTranscriptionCompleted(id TranscriptionID, wordCount int, audioDuration, processingSeconds float64) *TranscriptionCompleted {
	return &TranscriptionCompleted{
		baseEvent:         newBaseEvent(id),
		wordCount:         wordCount,
		audioDuration:     audioDuration,
		processingSeconds: processingSeconds,
	}
}

func (e *TranscriptionCompleted) EventType() string          { return "TranscriptionCompleted" }
func (e *TranscriptionCompleted) WordCount() int             { return e.wordCount }
func (e *TranscriptionCompleted) AudioDuration() float64     { return e.audioDuration }
func (e *TranscriptionCompleted) ProcessingSeconds() float64 { return e.processingSeconds }

func (e *TranscriptionCompleted) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EventID           uuid.UUID `json:"event_id"`
		EventType         string    `json:"event_type"`
		TranscriptionID   string    `json:"transcription_id"`
		WordCount         int       `json:"word_count"`
		AudioDuration     float64   `json:"audio_duration"`
		ProcessingSeconds float64   `json:"processing_seconds"`
		OccurredAt        time.Time `json:"occurred_at"`
	}{
		EventID:           e.eventID,
		EventType:         e.EventType(),
		TranscriptionID:   e.transcriptionID,
		WordCount:         e.wordCount,
		AudioDuration:     e.audioDuration,
		ProcessingSeconds: e.processingSeconds,
		OccurredAt:        e.occurredAt,
	})
}

type TranscriptionFailed struct {
	baseEvent
	reason    string
	errorCode string
}

func NewTranscriptionFailed(id TranscriptionID, reason, errorCode string) *TranscriptionFailed {
	return &TranscriptionFailed{
		baseEvent: newBaseEvent(id),
		reason:    reason,
		errorCode: errorCode,
	}
}

func (e *TranscriptionFailed) EventType() string { return "TranscriptionFailed" }
func (e *TranscriptionFailed) Reason() string    { return e.reason }
func (e *TranscriptionFailed) ErrorCode() string { return e.errorCode }

func (e *TranscriptionFailed) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EventID         uuid.UUID `json:"event_id"`
		EventType       string    `json:"event_type"`
		TranscriptionID string    `json:"transcription_id"`
		Reason          string    `json:"reason"`
		ErrorCode       string    `json:"error_code"`
		OccurredAt      time.Time `json:"occurred_at"`
	}{
		EventID:         e.eventID,
		EventType:       e.EventType(),
		TranscriptionID: e.transcriptionID,
		Reason:          e.reason,
		ErrorCode:       e.errorCode,
		OccurredAt:      e.occurredAt,
	})
}

type TranscriptionCancelled struct {
	baseEvent
	previousStatus Status
}

func NewTranscriptionCancelled(id TranscriptionID, previous Status) *TranscriptionCancelled {
	return &TranscriptionCancelled{
		baseEvent:      newBaseEvent(id),
		previousStatus: previous,
	}
}

func (e *TranscriptionCancelled) EventType() string      { return "TranscriptionCancelled" }
func (e *TranscriptionCancelled) PreviousStatus() Status { return e.previousStatus }

func (e *TranscriptionCancelled) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EventID         uuid.UUID `json:"event_id"`
		EventType       string    `json:"event_type"`
		TranscriptionID string    `json:"transcription_id"`
		PreviousStatus  string    `json:"previous_status"`
		OccurredAt      time.Time `json:"occurred_at"`
	}{
		EventID:         e.eventID,
		EventType:       e.EventType(),
		TranscriptionID: e.transcriptionID,
		PreviousStatus:  e.previousStatus.String(),
		OccurredAt:      e.occurredAt,
	})
}

type TranscriptionRetried struct {
	baseEvent
	previousStatus Status
}

func NewTranscriptionRetried(id TranscriptionID, previous Status) *TranscriptionRetried {
	return &TranscriptionRetried{
		baseEvent:      newBaseEvent(id),
		previousStatus: previous,
	}
}

func (e *TranscriptionRetried) EventType() string      { return "TranscriptionRetried" }
func (e *TranscriptionRetried) PreviousStatus() Status { return e.previousStatus }

func (e *TranscriptionRetried) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EventID         uuid.UUID `json:"event_id"`
		EventType       string    `json:"event_type"`
		TranscriptionID string    `json:"transcription_id"`
		PreviousStatus  string    `json:"previous_status"`
		OccurredAt      time.Time `json:"occurred_at"`
	}{
		EventID:         e.eventID,
		EventType:       e.EventType(),
		TranscriptionID: e.transcriptionID,
		PreviousStatus:  e.previousStatus.String(),
		OccurredAt:      e.occurredAt,
	})
}
