package postgres

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

func Connect(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS transcriptions (
    id                UUID PRIMARY KEY,
    user_id           TEXT NOT NULL,
    path              TEXT NOT NULL,
    original_name     TEXT NOT NULL,
    mime_type         TEXT NOT NULL,
    size              BIGINT NOT NULL,
    audio_duration    DOUBLE PRECISION NOT NULL DEFAULT 0,
    preprocessed_path TEXT NOT NULL DEFAULT '',
    language_code     TEXT NOT NULL,
    status            TEXT NOT NULL,
    text              TEXT NOT NULL DEFAULT '',
    segments          JSONB NOT NULL DEFAULT '[]',
    youtube_video_id  TEXT NOT NULL DEFAULT '',
    youtube_url       TEXT NOT NULL DEFAULT '',
    youtube_title     TEXT NOT NULL DEFAULT '',
    youtube_duration  INTEGER NOT NULL DEFAULT 0,
    created_at        TIMESTAMPTZ NOT NULL,
    started_at        TIMESTAMPTZ,
    completed_at      TIMESTAMPTZ,
    failure_reason    TEXT NOT NULL DEFAULT '',
    metadata          JSONB NOT NULL DEFAULT '{}',
    version           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transcriptions_user_id ON transcriptions (user_id);
CREATE INDEX IF NOT EXISTS idx_transcriptions_status ON transcriptions (status);

CREATE TABLE IF NOT EXISTS outbox (
    id           BIGSERIAL PRIMARY KEY,
    event_id     UUID NOT NULL,
    event_type   TEXT NOT NULL,
    aggregate_id TEXT NOT NULL,
    payload      JSONB NOT NULL,
    occurred_at  TIMESTAMPTZ NOT NULL,
    processed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox (id) WHERE processed_at IS NULL;
`

// EnsureSchema creates the tables on first run. Idempotent.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("postgres ensure schema: %w", err)
	}
	return nil
}
