package repository

import (
	"context"
	"sync"

	"github.com/romariotrain/transcription-platform/internal/transcription/domain"
)

// MemoryRepository is the reference in-process implementation. It stores
// snapshots, so callers never share mutable aggregate state with the store,
// and enforces version compare-and-swap on save.
type MemoryRepository struct {
	mu   sync.RWMutex
	data map[domain.TranscriptionID]domain.Snapshot
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		data: make(map[domain.TranscriptionID]domain.Snapshot),
	}
}

func (r *MemoryRepository) Save(ctx context.Context, t *domain.Transcription) error {
	if t == nil || t.ID().IsZero() {
		return domain.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if stored, exists := r.data[t.ID()]; exists && stored.Version != t.Version() {
		return domain.ErrConflict
	}

	t.MarkPersisted()
	r.data[t.ID()] = t.Snapshot()
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id domain.TranscriptionID) (*domain.Transcription, error) {
	if id.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	snapshot, ok := r.data[id]
	r.mu.RUnlock()

	if !ok {
		return nil, domain.ErrNotFound
	}
	return domain.FromSnapshot(snapshot)
}

func (r *MemoryRepository) FindByUser(ctx context.Context, userID domain.UserID) (domain.Collection, error) {
	return r.FindBySpecification(ctx, domain.ByUser(userID))
}

func (r *MemoryRepository) FindByUserPaginated(ctx context.Context, userID domain.UserID, page, perPage int) (domain.Collection, error) {
	all, err := r.FindByUser(ctx, userID)
	if err != nil {
		return domain.Collection{}, err
	}
	return all.SortByCreatedAtDesc().Paginate(page, perPage), nil
}

func (r *MemoryRepository) FindByStatus(ctx context.Context, status domain.Status) (domain.Collection, error) {
	return r.FindBySpecification(ctx, domain.ByStatus(status))
}

func (r *MemoryRepository) Search(ctx context.Context, criteria SearchCriteria) (domain.Collection, error) {
	matched, err := r.FindBySpecification(ctx, criteria.Specification())
	if err != nil {
		return domain.Collection{}, err
	}

	if criteria.OrderDesc {
		matched = matched.SortByCreatedAtDesc()
	} else {
		matched = matched.SortByCreatedAtAsc()
	}

	if criteria.Limit > 0 {
		matched = matched.Window(criteria.Offset, criteria.Limit)
	}
	return matched, nil
}

func (r *MemoryRepository) FindBySpecification(ctx context.Context, spec domain.Specification) (domain.Collection, error) {
	if err := ctx.Err(); err != nil {
		return domain.Collection{}, err
	}

	r.mu.RLock()
	snapshots := make([]domain.Snapshot, 0, len(r.data))
	for _, s := range r.data {
		snapshots = append(snapshots, s)
	}
	r.mu.RUnlock()

	var items []*domain.Transcription
	for _, s := range snapshots {
		t, err := domain.FromSnapshot(s)
		if err != nil {
			return domain.Collection{}, err
		}
		if spec.IsSatisfiedBy(t) {
			items = append(items, t)
		}
	}
	return domain.NewCollection(items...).SortByCreatedAtAsc(), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id domain.TranscriptionID) error {
	if id.IsZero() {
		return domain.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *MemoryRepository) Exists(ctx context.Context, id domain.TranscriptionID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.data[id]
	return ok, nil
}

func (r *MemoryRepository) CountByUser(ctx context.Context, userID domain.UserID) (int, error) {
	matched, err := r.FindByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return matched.Count(), nil
}

func (r *MemoryRepository) NextIdentity() domain.TranscriptionID {
	return domain.NewTranscriptionID()
}
