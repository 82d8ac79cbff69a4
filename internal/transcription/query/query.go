package query

import (
	"time"

	"github.com/google/uuid"
)

// Query is a typed, self-validating read request. Queries are idempotent
// projections: same parameters, same cache key, always.
type Query interface {
	QueryID() uuid.UUID
	QueryName() string
	IssuedAt() time.Time
	// CacheKey is a pure function of the query parameters.
	CacheKey() string
	Validate() error
	ToMap() map[string]any
}

type baseQuery struct {
	id       uuid.UUID
	issuedAt time.Time
}

func newBaseQuery() baseQuery {
	return baseQuery{
		id:       uuid.New(),
		issuedAt: time.Now().UTC(),
	}
}

func (q baseQuery) QueryID() uuid.UUID  { return q.id }
func (q baseQuery) IssuedAt() time.Time { return q.issuedAt }
