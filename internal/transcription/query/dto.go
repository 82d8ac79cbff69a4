package query

import (
	"time"

	"github.com/romariotrain/transcription-platform/internal/transcription/domain"
)

// TranscriptionDTO is the read-side projection of one transcription. The
// aggregate itself never crosses the bus.
type TranscriptionDTO struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Status            string     `json:"status"`
	LanguageCode      string     `json:"language_code"`
	LanguageName      string     `json:"language_name"`
	FileName          string     `json:"file_name"`
	MimeType          string     `json:"mime_type"`
	SizeBytes         int64      `json:"size_bytes"`
	SourceType        string     `json:"source_type"`
	YouTubeURL        string     `json:"youtube_url,omitempty"`
	YouTubeTitle      string     `json:"youtube_title,omitempty"`
	Text              string     `json:"text,omitempty"`
	Preview           string     `json:"preview,omitempty"`
	WordCount         int        `json:"word_count"`
	CharacterCount    int        `json:"character_count"`
	AudioDuration     float64    `json:"audio_duration"`
	ProcessingSeconds float64    `json:"processing_seconds"`
	FailureReason     string     `json:"failure_reason,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	StartedAt         *time.Time `json:"started_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// TranscriptionListDTO is a page of transcriptions.
type TranscriptionListDTO struct {
	Items   []TranscriptionDTO `json:"items"`
	Total   int                `json:"total"`
	Page    int                `json:"page"`
	PerPage int                `json:"per_page"`
}

// StatsDTO aggregates one user's transcription history.
type StatsDTO struct {
	Total          int            `json:"total"`
	Pending        int            `json:"pending"`
	Processing     int            `json:"processing"`
	Completed      int            `json:"completed"`
	Failed         int            `json:"failed"`
	Cancelled      int            `json:"cancelled"`
	YouTubeSources int            `json:"youtube_sources"`
	TotalWords     int            `json:"total_words"`
	TotalDuration  float64        `json:"total_duration"`
	Languages      map[string]int `json:"languages"`
}

func toDTO(t *domain.Transcription) TranscriptionDTO {
	dto := TranscriptionDTO{
		ID:                t.ID().String(),
		UserID:            t.UserID().String(),
		Status:            t.Status().String(),
		LanguageCode:      t.Language().Code(),
		LanguageName:      t.Language().Name(),
		FileName:          t.AudioFile().OriginalName(),
		MimeType:          t.AudioFile().MimeType(),
		SizeBytes:         t.AudioFile().Size(),
		SourceType:        "upload",
		AudioDuration:     t.AudioFile().Duration(),
		ProcessingSeconds: t.ProcessingDuration(),
		FailureReason:     t.FailureReason(),
		CreatedAt:         t.CreatedAt(),
	}

	if t.IsYouTubeSource() {
		dto.SourceType = "youtube"
		dto.YouTubeURL = t.YouTube().OriginalURL()
		dto.YouTubeTitle = t.YouTube().Title()
	}
	if t.HasText() {
		dto.Text = t.Text().Content()
		dto.Preview = t.Text().Excerpt(100)
		dto.WordCount = t.Text().WordCount()
		dto.CharacterCount = t.Text().CharacterCount()
	}
	if started := t.StartedAt(); !started.IsZero() {
		dto.StartedAt = &started
	}
	if completed := t.CompletedAt(); !completed.IsZero() {
		dto.CompletedAt = &completed
	}

	return dto
}

func toListDTO(c domain.Collection, total, page, perPage int) TranscriptionListDTO {
	items := make([]TranscriptionDTO, 0, c.Count())
	for _, t := range c.Items() {
		items = append(items, toDTO(t))
	}
	return TranscriptionListDTO{Items: items, Total: total, Page: page, PerPage: perPage}
}

func toStatsDTO(s domain.Statistics) StatsDTO {
	return StatsDTO{
		Total:          s.Total,
		Pending:        s.Pending,
		Processing:     s.Processing,
		Completed:      s.Completed,
		Failed:         s.Failed,
		Cancelled:      s.Cancelled,
		YouTubeSources: s.YouTubeSources,
		TotalWords:     s.TotalWords,
		TotalDuration:  s.TotalDuration,
		Languages:      s.Languages,
	}
}
