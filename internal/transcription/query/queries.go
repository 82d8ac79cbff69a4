package query

import (
	"fmt"

	"github.com/romariotrain/transcription-platform/internal/transcription/domain"
)

const (
	GetTranscriptionName   = "transcription.get"
	ListTranscriptionsName = "transcription.list"
	GetStatsName           = "transcription.stats"
	SearchName             = "transcription.search"
)

// GetTranscription fetches one transcription. When UserID is set the
// result is scoped to that owner.
type GetTranscription struct {
	baseQuery
	TranscriptionID domain.TranscriptionID
	UserID          domain.UserID
}

func NewGetTranscription(id domain.TranscriptionID, userID domain.UserID) (*GetTranscription, error) {
	q := &GetTranscription{
		baseQuery:       newBaseQuery(),
		TranscriptionID: id,
		UserID:          userID,
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *GetTranscription) QueryName() string { return GetTranscriptionName }

func (q *GetTranscription) CacheKey() string {
	return fmt.Sprintf("%s:id=%s:user=%s", GetTranscriptionName, q.TranscriptionID, q.UserID)
}

func (q *GetTranscription) Validate() error {
	if q.TranscriptionID.IsZero() {
		return &domain.ValidationError{Field: "transcription id", Value: "", Expected: "non-empty id"}
	}
	return nil
}

func (q *GetTranscription) ToMap() map[string]any {
	return map[string]any{
		"query_id":         q.id.String(),
		"transcription_id": q.TranscriptionID.String(),
		"user_id":          q.UserID.String(),
	}
}

// ListTranscriptions pages a user's transcriptions, newest first,
// optionally filtered by status.
type ListTranscriptions struct {
	baseQuery
	UserID  domain.UserID
	Status  domain.Status
	Page    int
	PerPage int
}

func NewListTranscriptions(userID domain.UserID, status domain.Status, page, perPage int) (*ListTranscriptions, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	q := &ListTranscriptions{
		baseQuery: newBaseQuery(),
		UserID:    userID,
		Status:    status,
		Page:      page,
		PerPage:   perPage,
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *ListTranscriptions) QueryName() string { return ListTranscriptionsName }

func (q *ListTranscriptions) CacheKey() string {
	return fmt.Sprintf("%s:user=%s:status=%s:page=%d:per=%d", ListTranscriptionsName, q.UserID, q.Status, q.Page, q.PerPage)
}

func (q *ListTranscriptions) Validate() error {
	if q.UserID.IsZero() {
		return &domain.ValidationError{Field: "user id", Value: "", Expected: "non-empty id"}
	}
	if q.Status != "" {
		if _, err := domain.ParseStatus(q.Status.String()); err != nil {
			return err
		}
	}
	return nil
}

func (q *ListTranscriptions) ToMap() map[string]any {
	return map[string]any{
		"query_id": q.id.String(),
		"user_id":  q.UserID.String(),
		"status":   q.Status.String(),
		"page":     q.Page,
		"per_page": q.PerPage,
	}
}

// GetStats aggregates a user's transcription history.
type GetStats struct {
	baseQuery
	UserID domain.UserID
}

func NewGetStats(userID domain.UserID) (*GetStats, error) {
	q := &GetStats{baseQuery: newBaseQuery(), UserID: userID}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *GetStats) QueryName() string { return GetStatsName }

func (q *GetStats) CacheKey() string {
	return fmt.Sprintf("%s:user=%s", GetStatsName, q.UserID)
}

func (q *GetStats) Validate() error {
	if q.UserID.IsZero() {
		return &domain.ValidationError{Field: "user id", Value: "", Expected: "non-empty id"}
	}
	return nil
}

func (q *GetStats) ToMap() map[string]any {
	return map[string]any{
		"query_id": q.id.String(),
		"user_id":  q.UserID.String(),
	}
}

// Search filters transcriptions with free combination of criteria.
type Search struct {
	baseQuery
	UserID       domain.UserID
	Status       domain.Status
	LanguageCode string
	Text         string
	OnlyYouTube  bool
	Page         int
	PerPage      int
}

func NewSearch(userID domain.UserID, status domain.Status, languageCode, text string, onlyYouTube bool, page, perPage int) (*Search, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	q := &Search{
		baseQuery:    newBaseQuery(),
		UserID:       userID,
		Status:       status,
		LanguageCode: languageCode,
		Text:         text,
		OnlyYouTube:  onlyYouTube,
		Page:         page,
		PerPage:      perPage,
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *Search) QueryName() string { return SearchName }

func (q *Search) CacheKey() string {
	return fmt.Sprintf("%s:user=%s:status=%s:lang=%s:text=%s:yt=%t:page=%d:per=%d",
		SearchName, q.UserID, q.Status, q.LanguageCode, q.Text, q.OnlyYouTube, q.Page, q.PerPage)
}

func (q *Search) Validate() error {
	if q.UserID.IsZero() {
		return &domain.ValidationError{Field: "user id", Value: "", Expected: "non-empty id"}
	}
	if q.Status != "" {
		if _, err := domain.ParseStatus(q.Status.String()); err != nil {
			return err
		}
	}
	if q.LanguageCode != "" {
		if _, err := domain.NewLanguage(q.LanguageCode); err != nil {
			return err
		}
	}
	return nil
}

func (q *Search) ToMap() map[string]any {
	return map[string]any{
		"query_id":     q.id.String(),
		"user_id":      q.UserID.String(),
		"status":       q.Status.String(),
		"language":     q.LanguageCode,
		"text":         q.Text,
		"only_youtube": q.OnlyYouTube,
		"page":         q.Page,
		"per_page":     q.PerPage,
	}
}
