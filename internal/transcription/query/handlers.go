package query

import (
	"context"
	"fmt"

	"github.com/romariotrain/transcription-platform/internal/transcription/domain"
	"github.com/romariotrain/transcription-platform/internal/transcription/repository"
)

// TranscriptionHandler services all transcription read queries against the
// repository, returning DTOs only.
type TranscriptionHandler struct {
	repo repository.TranscriptionRepository
}

func NewTranscriptionHandler(repo repository.TranscriptionRepository) *TranscriptionHandler {
	return &TranscriptionHandler{repo: repo}
}

func (h *TranscriptionHandler) QueryNames() []string {
	return []string{GetTranscriptionName, ListTranscriptionsName, GetStatsName, SearchName}
}

func (h *TranscriptionHandler) NewResult(name string) any {
	switch name {
	case GetTranscriptionName:
		return &TranscriptionDTO{}
	case ListTranscriptionsName, SearchName:
		return &TranscriptionListDTO{}
	case GetStatsName:
		return &StatsDTO{}
	default:
		return nil
	}
}

func (h *TranscriptionHandler) Handle(ctx context.Context, q Query) (any, error) {
	switch query := q.(type) {
	case *GetTranscription:
		return h.get(ctx, query)
	case *ListTranscriptions:
		return h.list(ctx, query)
	case *GetStats:
		return h.stats(ctx, query)
	case *Search:
		return h.search(ctx, query)
	default:
		return nil, fmt.Errorf("%w for query: %s", ErrNoHandler, q.QueryName())
	}
}

func (h *TranscriptionHandler) get(ctx context.Context, q *GetTranscription) (*TranscriptionDTO, error) {
	t, err := h.repo.FindByID(ctx, q.TranscriptionID)
	if err != nil {
		return nil, err
	}
	// Ownership scoping: a foreign id behaves exactly like a missing one.
	if !q.UserID.IsZero() && t.UserID() != q.UserID {
		return nil, domain.ErrNotFound
	}
	dto := toDTO(t)
	return &dto, nil
}

func (h *TranscriptionHandler) list(ctx context.Context, q *ListTranscriptions) (*TranscriptionListDTO, error) {
	all, err := h.repo.FindByUser(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	if q.Status != "" {
		all = all.ByStatus(q.Status)
	}

	page := all.SortByCreatedAtDesc().Paginate(q.Page, q.PerPage)
	dto := toListDTO(page, all.Count(), q.Page, q.PerPage)
	return &dto, nil
}

func (h *TranscriptionHandler) stats(ctx context.Context, q *GetStats) (*StatsDTO, error) {
	all, err := h.repo.FindByUser(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	dto := toStatsDTO(all.Statistics())
	return &dto, nil
}

func (h *TranscriptionHandler) search(ctx context.Context, q *Search) (*TranscriptionListDTO, error) {
	criteria := repository.NewSearchCriteria().ForUser(q.UserID)
	if q.Status != "" {
		criteria = criteria.WithStatus(q.Status)
	}
	if q.LanguageCode != "" {
		language, err := domain.NewLanguage(q.LanguageCode)
		if err != nil {
			return nil, err
		}
		criteria = criteria.InLanguage(language)
	}
	if q.Text != "" {
		criteria = criteria.ContainingText(q.Text)
	}
	if q.OnlyYouTube {
		criteria = criteria.YouTubeOnly()
	}

	matched, err := h.repo.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}

	total := matched.Count()
	page := matched.Paginate(q.Page, q.PerPage)
	dto := toListDTO(page, total, q.Page, q.PerPage)
	return &dto, nil
}
