package repository

import (
	"strings"
	"time"

	"github.com/romariotrain/transcription-platform/internal/transcription/domain"
)

// SearchCriteria is a fluent filter for repository searches. Zero values
// mean "no constraint".
type SearchCriteria struct {
	UserID       domain.UserID
	Status       domain.Status
	Language     domain.Language
	SearchText   string
	FromDate     time.Time
	ToDate       time.Time
	OnlyYouTube  bool
	MinWordCount int
	OrderDesc    bool
	Limit        int
	Offset       int
}

func NewSearchCriteria() SearchCriteria {
	return SearchCriteria{OrderDesc: true}
}

func (c SearchCriteria) ForUser(userID domain.UserID) SearchCriteria {
	c.UserID = userID
	return c
}

func (c SearchCriteria) WithStatus(status domain.Status) SearchCriteria {
	c.Status = status
	return c
}

func (c SearchCriteria) InLanguage(language domain.Language) SearchCriteria {
	c.Language = language
	return c
}

func (c SearchCriteria) ContainingText(text string) SearchCriteria {
	c.SearchText = text
	return c
}

func (c SearchCriteria) CreatedBetween(from, to time.Time) SearchCriteria {
	c.FromDate = from
	c.ToDate = to
	return c
}

func (c SearchCriteria) YouTubeOnly() SearchCriteria {
	c.OnlyYouTube = true
	return c
}

func (c SearchCriteria) WithMinWordCount(min int) SearchCriteria {
	c.MinWordCount = min
	return c
}

func (c SearchCriteria) OrderAsc() SearchCriteria {
	c.OrderDesc = false
	return c
}

func (c SearchCriteria) Paged(limit, offset int) SearchCriteria {
	c.Limit = limit
	c.Offset = offset
	return c
}

// Specification expresses the criteria as a domain specification so
// in-memory implementations share one matching path.
func (c SearchCriteria) Specification() domain.Specification {
	var specs []domain.Specification

	if !c.UserID.IsZero() {
		specs = append(specs, domain.ByUser(c.UserID))
	}
	if c.Status != "" {
		specs = append(specs, domain.ByStatus(c.Status))
	}
	if !c.Language.IsZero() {
		specs = append(specs, domain.ByLanguage(c.Language))
	}
	if c.OnlyYouTube {
		specs = append(specs, domain.FromYouTube())
	}
	if !c.FromDate.IsZero() {
		specs = append(specs, domain.CreatedAfter(c.FromDate))
	}
	if !c.ToDate.IsZero() {
		specs = append(specs, domain.CreatedBefore(c.ToDate))
	}
	if c.MinWordCount > 0 {
		specs = append(specs, domain.WithMinWordCount(c.MinWordCount))
	}
	if c.SearchText != "" {
		needle := strings.ToLower(c.SearchText)
		specs = append(specs, domain.SpecFunc(func(t *domain.Transcription) bool {
			return t.HasText() && strings.Contains(strings.ToLower(t.Text().Content()), needle)
		}))
	}

	if len(specs) == 0 {
		return domain.SpecFunc(func(*domain.Transcription) bool { return true })
	}
	return domain.And(specs...)
}
