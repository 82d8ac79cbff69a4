package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/romariotrain/transcription-platform/internal/transcription/domain"
	"github.com/romariotrain/transcription-platform/internal/transcription/repository"
)

const transcriptionColumns = `
	id, user_id, path, original_name, mime_type, size, audio_duration,
	preprocessed_path, language_code, status, text, segments,
	youtube_video_id, youtube_url, youtube_title, youtube_duration,
	created_at, started_at, completed_at, failure_reason, metadata, version`

// TranscriptionRepo persists aggregates with optimistic locking: every
// update must match the version it loaded, stale writers get ErrConflict.
// Recorded events go into the outbox table inside the same transaction.
type TranscriptionRepo struct {
	db     *sqlx.DB
	outbox *OutboxRepo
}

func NewTranscriptionRepo(db *sqlx.DB, outbox *OutboxRepo) *TranscriptionRepo {
	return &TranscriptionRepo{db: db, outbox: outbox}
}

type transcriptionRow struct {
	ID               string       `db:"id"`
	UserID           string       `db:"user_id"`
	Path             string       `db:"path"`
	OriginalName     string       `db:"original_name"`
	MimeType         string       `db:"mime_type"`
	Size             int64        `db:"size"`
	AudioDuration    float64      `db:"audio_duration"`
	PreprocessedPath string       `db:"preprocessed_path"`
	LanguageCode     string       `db:"language_code"`
	Status           string       `db:"status"`
	Text             string       `db:"text"`
	Segments         []byte       `db:"segments"`
	YouTubeVideoID   string       `db:"youtube_video_id"`
	YouTubeURL       string       `db:"youtube_url"`
	YouTubeTitle     string       `db:"youtube_title"`
	YouTubeDuration  int          `db:"youtube_duration"`
	CreatedAt        time.Time    `db:"created_at"`
	StartedAt        sql.NullTime `db:"started_at"`
	CompletedAt      sql.NullTime `db:"completed_at"`
	FailureReason    string       `db:"failure_reason"`
	Metadata         []byte       `db:"metadata"`
	Version          int          `db:"version"`
}

func rowFromSnapshot(s domain.Snapshot) (transcriptionRow, error) {
	segments, err := json.Marshal(s.Segments)
	if err != nil {
		return transcriptionRow{}, fmt.Errorf("marshal segments: %w", err)
	}
	metadata, err := json.Marshal(s.Metadata)
	if err != nil {
		return transcriptionRow{}, fmt.Errorf("marshal metadata: %w", err)
	}

	return transcriptionRow{
		ID:               s.ID,
		UserID:           s.UserID,
		Path:             s.Path,
		OriginalName:     s.OriginalName,
		MimeType:         s.MimeType,
		Size:             s.Size,
		AudioDuration:    s.AudioDuration,
		PreprocessedPath: s.PreprocessedPath,
		LanguageCode:     s.LanguageCode,
		Status:           s.Status,
		Text:             s.Text,
		Segments:         segments,
		YouTubeVideoID:   s.YouTubeVideoID,
		YouTubeURL:       s.YouTubeURL,
		YouTubeTitle:     s.YouTubeTitle,
		YouTubeDuration:  s.YouTubeDuration,
		CreatedAt:        s.CreatedAt,
		StartedAt:        sql.NullTime{Time: s.StartedAt, Valid: !s.StartedAt.IsZero()},
		CompletedAt:      sql.NullTime{Time: s.CompletedAt, Valid: !s.CompletedAt.IsZero()},
		FailureReason:    s.FailureReason,
		Metadata:         metadata,
		Version:          s.Version,
	}, nil
}

func (row transcriptionRow) snapshot() (domain.Snapshot, error) {
	var segments []domain.Segment
	if len(row.Segments) > 0 {
		if err := json.Unmarshal(row.Segments, &segments); err != nil {
			return domain.Snapshot{}, fmt.Errorf("unmarshal segments: %w", err)
		}
	}
	metadata := make(map[string]string)
	if len(row.Metadata) > 0 {
		if err := json.Unmarshal(row.Metadata, &metadata); err != nil {
			return domain.Snapshot{}, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}

	s := domain.Snapshot{
		ID:               row.ID,
		UserID:           row.UserID,
		Path:             row.Path,
		OriginalName:     row.OriginalName,
		MimeType:         row.MimeType,
		Size:             row.Size,
		AudioDuration:    row.AudioDuration,
		PreprocessedPath: row.PreprocessedPath,
		LanguageCode:     row.LanguageCode,
		Status:           row.Status,
		Text:             row.Text,
		Segments:         segments,
		YouTubeVideoID:   row.YouTubeVideoID,
		YouTubeURL:       row.YouTubeURL,
		YouTubeTitle:     row.YouTubeTitle,
		YouTubeDuration:  row.YouTubeDuration,
		CreatedAt:        row.CreatedAt,
		FailureReason:    row.FailureReason,
		Metadata:         metadata,
		Version:          row.Version,
	}
	if row.StartedAt.Valid {
		s.StartedAt = row.StartedAt.Time
	}
	if row.CompletedAt.Valid {
		s.CompletedAt = row.CompletedAt.Time
	}
	return s, nil
}

func (r *TranscriptionRepo) Save(ctx context.Context, t *domain.Transcription) error {
	if t == nil || t.ID().IsZero() {
		return domain.ErrInvalidArgument
	}

	snapshot := t.Snapshot()
	snapshot.Version = t.Version() + 1
	row, err := rowFromSnapshot(snapshot)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("transcription save: begin tx: %w", err)
	}
	defer tx.Rollback()

	const update = `
		UPDATE transcriptions SET
			user_id = :user_id, path = :path, original_name = :original_name,
			mime_type = :mime_type, size = :size, audio_duration = :audio_duration,
			preprocessed_path = :preprocessed_path, language_code = :language_code,
			status = :status, text = :text, segments = :segments,
			youtube_video_id = :youtube_video_id, youtube_url = :youtube_url,
			youtube_title = :youtube_title, youtube_duration = :youtube_duration,
			started_at = :started_at, completed_at = :completed_at,
			failure_reason = :failure_reason, metadata = :metadata,
			version = :version
		WHERE id = :id AND version = :version - 1
	`
	res, err := tx.NamedExecContext(ctx, update, row)
	if err != nil {
		return fmt.Errorf("transcription update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("transcription update: %w", err)
	}

	if affected == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM transcriptions WHERE id = $1)`, row.ID); err != nil {
			return fmt.Errorf("transcription existence check: %w", err)
		}
		if exists {
			return domain.ErrConflict
		}

		const insert = `
			INSERT INTO transcriptions (` + transcriptionColumns + `)
			VALUES (
				:id, :user_id, :path, :original_name, :mime_type, :size, :audio_duration,
				:preprocessed_path, :language_code, :status, :text, :segments,
				:youtube_video_id, :youtube_url, :youtube_title, :youtube_duration,
				:created_at, :started_at, :completed_at, :failure_reason, :metadata, :version
			)
		`
		if _, err := tx.NamedExecContext(ctx, insert, row); err != nil {
			return fmt.Errorf("transcription insert: %w", err)
		}
	}

	if r.outbox != nil {
		for _, e := range t.RecordedEvents() {
			if err := r.outbox.Add(ctx, tx, e); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transcription save: commit: %w", err)
	}
	t.MarkPersisted()
	return nil
}

func (r *TranscriptionRepo) FindByID(ctx context.Context, id domain.TranscriptionID) (*domain.Transcription, error) {
	if id.IsZero() {
		return nil, domain.ErrInvalidArgument
	}

	const q = `SELECT` + transcriptionColumns + ` FROM transcriptions WHERE id = $1`

	var row transcriptionRow
	if err := r.db.GetContext(ctx, &row, q, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("transcription find by id: %w", err)
	}
	return rehydrate(row)
}

func (r *TranscriptionRepo) FindByUser(ctx context.Context, userID domain.UserID) (domain.Collection, error) {
	const q = `SELECT` + transcriptionColumns + ` FROM transcriptions WHERE user_id = $1 ORDER BY created_at ASC`
	return r.collect(ctx, q, userID.String())
}

func (r *TranscriptionRepo) FindByUserPaginated(ctx context.Context, userID domain.UserID, page, perPage int) (domain.Collection, error) {
	all, err := r.FindByUser(ctx, userID)
	if err != nil {
		return domain.Collection{}, err
	}
	return all.SortByCreatedAtDesc().Paginate(page, perPage), nil
}

func (r *TranscriptionRepo) FindByStatus(ctx context.Context, status domain.Status) (domain.Collection, error) {
	const q = `SELECT` + transcriptionColumns + ` FROM transcriptions WHERE status = $1 ORDER BY created_at ASC`
	return r.collect(ctx, q, status.String())
}

// Search narrows by user in SQL and applies the remaining criteria through
// the shared specification, so postgres and memory match identically.
func (r *TranscriptionRepo) Search(ctx context.Context, criteria repository.SearchCriteria) (domain.Collection, error) {
	var (
		matched domain.Collection
		err     error
	)
	if !criteria.UserID.IsZero() {
		matched, err = r.FindByUser(ctx, criteria.UserID)
	} else {
		matched, err = r.collect(ctx, `SELECT`+transcriptionColumns+` FROM transcriptions ORDER BY created_at ASC`)
	}
	if err != nil {
		return domain.Collection{}, err
	}

	matched = matched.Filter(criteria.Specification())
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

func (r *TranscriptionRepo) FindBySpecification(ctx context.Context, spec domain.Specification) (domain.Collection, error) {
	all, err := r.collect(ctx, `SELECT`+transcriptionColumns+` FROM transcriptions ORDER BY created_at ASC`)
	if err != nil {
		return domain.Collection{}, err
	}
	return all.Filter(spec), nil
}

func (r *TranscriptionRepo) Delete(ctx context.Context, id domain.TranscriptionID) error {
	if id.IsZero() {
		return domain.ErrInvalidArgument
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM transcriptions WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("transcription delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("transcription delete: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TranscriptionRepo) Exists(ctx context.Context, id domain.TranscriptionID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM transcriptions WHERE id = $1)`, id.String())
	if err != nil {
		return false, fmt.Errorf("transcription exists: %w", err)
	}
	return exists, nil
}

func (r *TranscriptionRepo) CountByUser(ctx context.Context, userID domain.UserID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM transcriptions WHERE user_id = $1`, userID.String())
	if err != nil {
		return 0, fmt.Errorf("transcription count by user: %w", err)
	}
	return count, nil
}

func (r *TranscriptionRepo) NextIdentity() domain.TranscriptionID {
	return domain.NewTranscriptionID()
}

func (r *TranscriptionRepo) collect(ctx context.Context, q string, args ...any) (domain.Collection, error) {
	var rows []transcriptionRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return domain.Collection{}, fmt.Errorf("transcription select: %w", err)
	}

	items := make([]*domain.Transcription, 0, len(rows))
	for _, row := range rows {
		t, err := rehydrate(row)
		if err != nil {
			return domain.Collection{}, err
		}
		items = append(items, t)
	}
	return domain.NewCollection(items...), nil
}

func rehydrate(row transcriptionRow) (*domain.Transcription, error) {
	s, err := row.snapshot()
	if err != nil {
		return nil, err
	}
	t, err := domain.FromSnapshot(s)
	if err != nil {
		return nil, fmt.Errorf("transcription rehydrate %s: %w", row.ID, err)
	}
	return t, nil
}
