package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const createVideosTableMSSQL = `IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.videos') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.[videos] (
        id BIGINT IDENTITY(1,1) PRIMARY KEY,
        user_id NVARCHAR(128) NOT NULL,
        title NVARCHAR(255) NOT NULL,
        description NVARCHAR(MAX) NULL,
        video_url NVARCHAR(2048) NOT NULL,
        scheduled_at DATETIME2 NOT NULL,
        created_at DATETIME2 NOT NULL DEFAULT SYSUTCDATETIME(),
        updated_at DATETIME2 NOT NULL DEFAULT SYSUTCDATETIME(),
        CONSTRAINT unique_user_schedule UNIQUE (user_id, scheduled_at)
    );
END`

const createTokensTableMSSQL = `IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.youtube_tokens') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.[youtube_tokens] (
        user_id NVARCHAR(128) NOT NULL PRIMARY KEY,
        access_token NVARCHAR(MAX) NOT NULL,
        refresh_token NVARCHAR(MAX) NULL,
        expiry_date DATETIME2 NULL,
        updated_at DATETIME2 NOT NULL DEFAULT SYSUTCDATETIME()
    );
END`

var videoColumnsMSSQL = []columnCheck{
	{"dbo.videos", "status", "ALTER TABLE dbo.[videos] ADD status NVARCHAR(32) NULL CONSTRAINT DF_videos_status DEFAULT 'agendado'"},
	{"dbo.videos", "youtube_video_id", "ALTER TABLE dbo.[videos] ADD youtube_video_id NVARCHAR(64) NULL"},
	{"dbo.videos", "post_error", "ALTER TABLE dbo.[videos] ADD post_error NVARCHAR(MAX) NULL"},
	{"dbo.videos", "target_instagram", "ALTER TABLE dbo.[videos] ADD target_instagram BIT NOT NULL DEFAULT 0"},
	{"dbo.videos", "target_facebook", "ALTER TABLE dbo.[videos] ADD target_facebook BIT NOT NULL DEFAULT 0"},
	{"dbo.videos", "target_youtube", "ALTER TABLE dbo.[videos] ADD target_youtube BIT NOT NULL DEFAULT 1"},
	{"dbo.videos", "target_tiktok", "ALTER TABLE dbo.[videos] ADD target_tiktok BIT NOT NULL DEFAULT 0"},
	{"dbo.videos", "target_kwai", "ALTER TABLE dbo.[videos] ADD target_kwai BIT NOT NULL DEFAULT 0"},
	{"dbo.videos", "claim_token", "ALTER TABLE dbo.[videos] ADD claim_token NVARCHAR(64) NULL"},
	{"dbo.videos", "claimed_at", "ALTER TABLE dbo.[videos] ADD claimed_at DATETIME2 NULL"},
}

// EnsureSchemaMSSQL is the SQL Server counterpart of EnsureSchema.
func EnsureSchemaMSSQL(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, ddl := range []string{createVideosTableMSSQL, createTokensTableMSSQL} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table (mssql): %w", err)
		}
	}
	// Helper to add a column if missing via COL_LENGTH check
	addIfMissing := func(table, column, ddl string) error {
		q := fmt.Sprintf(`IF COL_LENGTH('%s', '%s') IS NULL BEGIN %s END`, table, column, ddl)
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure column %s.%s: %w", table, column, err)
		}
		return nil
	}
	for _, c := range videoColumnsMSSQL {
		if err := addIfMissing(c.table, c.column, c.ddl); err != nil {
			return err
		}
	}
	// is_posted is referenced through EXEC so the batch compiles when the column is absent.
	backfill := `IF COL_LENGTH('dbo.videos', 'is_posted') IS NOT NULL
    EXEC('UPDATE dbo.[videos] SET status = CASE WHEN is_posted = 1 THEN ''postado'' ELSE ''agendado'' END WHERE status IS NULL');
UPDATE dbo.[videos] SET status = 'agendado' WHERE status IS NULL;`
	if _, err := db.ExecContext(ctx, backfill); err != nil {
		return fmt.Errorf("backfill status (mssql): %w", err)
	}
	index := `IF NOT EXISTS (SELECT * FROM sys.indexes WHERE name = 'idx_videos_due' AND object_id = OBJECT_ID(N'dbo.videos'))
    CREATE INDEX idx_videos_due ON dbo.[videos](status, scheduled_at);`
	if _, err := db.ExecContext(ctx, index); err != nil {
		return fmt.Errorf("create due index (mssql): %w", err)
	}
	return nil
}
