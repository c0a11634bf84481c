package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"social-publisher/infrastructure/logger"
)

const createVideosTable = `CREATE TABLE IF NOT EXISTS videos (
	id BIGSERIAL PRIMARY KEY,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT,
	video_url TEXT NOT NULL,
	scheduled_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT unique_user_schedule UNIQUE (user_id, scheduled_at)
)`

const createTokensTable = `CREATE TABLE IF NOT EXISTS youtube_tokens (
	user_id TEXT PRIMARY KEY,
	access_token TEXT NOT NULL,
	refresh_token TEXT,
	expiry_date TIMESTAMPTZ,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type columnCheck struct {
	table  string
	column string
	ddl    string
}

// videoColumns are added after the base table; older deployments lack them.
var videoColumns = []columnCheck{
	{"videos", "status", "ALTER TABLE videos ADD COLUMN status TEXT"},
	{"videos", "youtube_video_id", "ALTER TABLE videos ADD COLUMN youtube_video_id TEXT"},
	{"videos", "post_error", "ALTER TABLE videos ADD COLUMN post_error TEXT"},
	{"videos", "target_instagram", "ALTER TABLE videos ADD COLUMN target_instagram BOOLEAN NOT NULL DEFAULT FALSE"},
	{"videos", "target_facebook", "ALTER TABLE videos ADD COLUMN target_facebook BOOLEAN NOT NULL DEFAULT FALSE"},
	{"videos", "target_youtube", "ALTER TABLE videos ADD COLUMN target_youtube BOOLEAN NOT NULL DEFAULT TRUE"},
	{"videos", "target_tiktok", "ALTER TABLE videos ADD COLUMN target_tiktok BOOLEAN NOT NULL DEFAULT FALSE"},
	{"videos", "target_kwai", "ALTER TABLE videos ADD COLUMN target_kwai BOOLEAN NOT NULL DEFAULT FALSE"},
	{"videos", "claim_token", "ALTER TABLE videos ADD COLUMN claim_token TEXT"},
	{"videos", "claimed_at", "ALTER TABLE videos ADD COLUMN claimed_at TIMESTAMPTZ"},
}

// EnsureSchema creates the posts and token tables and adds newer columns if
// they are missing. Safe to call at startup.
func EnsureSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, ddl := range []string{createVideosTable, createTokensTable} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	for _, c := range videoColumns {
		exists, err := columnExists(ctx, db, c.table, c.column)
		if err != nil {
			return err
		}
		if !exists {
			if _, err := db.ExecContext(ctx, c.ddl); err != nil {
				return fmt.Errorf("adding column %s.%s failed: %w", c.table, c.column, err)
			}
		}
	}
	if err := BackfillLegacyStatus(ctx, db); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `ALTER TABLE videos ALTER COLUMN status SET DEFAULT 'agendado'`); err != nil {
		return fmt.Errorf("status default: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_videos_due ON videos (status, scheduled_at)`); err != nil {
		return fmt.Errorf("create due index: %w", err)
	}
	return nil
}

// BackfillLegacyStatus derives status for rows written when only the is_posted
// flag existed. Rows that already carry a status are left alone.
func BackfillLegacyStatus(ctx context.Context, db *sql.DB) error {
	legacy, err := columnExists(ctx, db, "videos", "is_posted")
	if err != nil {
		return err
	}
	q := `UPDATE videos SET status = 'agendado' WHERE status IS NULL`
	if legacy {
		q = `UPDATE videos SET status = CASE WHEN is_posted THEN 'postado' ELSE 'agendado' END WHERE status IS NULL`
	}
	res, err := db.ExecContext(ctx, q)
	if err != nil {
		return fmt.Errorf("backfill status: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		logger.GetLogger().WithField("rows", n).Info("Backfilled post status")
	}
	return nil
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	row := db.QueryRowContext(ctx, `SELECT 1 FROM information_schema.columns WHERE table_name=$1 AND column_name=$2`, table, column)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
