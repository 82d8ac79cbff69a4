package repository

import (
	"context"

	"github.com/romariotrain/transcription-platform/internal/transcription/domain"
)

// TranscriptionRepository is the persistence boundary consumed by command
// and query handlers. Save must be a compare-and-swap on the aggregate
// version and return domain.ErrConflict on a stale write.
type TranscriptionRepository interface {
	Save(ctx context.Context, t *domain.Transcription) error
	FindByID(ctx context.Context, id domain.TranscriptionID) (*domain.Transcription, error)
	FindByUser(ctx context.Context, userID domain.UserID) (domain.Collection, error)
	FindByUserPaginated(ctx context.Context, userID domain.UserID, page, perPage int) (domain.Collection, error)
	FindByStatus(ctx context.Context, status domain.Status) (domain.Collection, error)
	Search(ctx context.Context, criteria SearchCriteria) (domain.Collection, error)
	FindBySpecification(ctx context.Context, spec domain.Specification) (domain.Collection, error)
	Delete(ctx context.Context, id domain.TranscriptionID) error
	Exists(ctx context.Context, id domain.TranscriptionID) (bool, error)
	CountByUser(ctx context.Context, userID domain.UserID) (int, error)
	NextIdentity() domain.TranscriptionID
}
