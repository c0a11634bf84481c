package persistence

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"social-publisher/domain/model"
	"social-publisher/domain/repository"
)

// ScheduledPostRepositoryMSSQL is the SQL Server implementation of IScheduledPost.
type ScheduledPostRepositoryMSSQL struct{ db *sql.DB }

var _ repository.IScheduledPost = (*ScheduledPostRepositoryMSSQL)(nil)

func NewScheduledPostRepositoryMSSQL(db *sql.DB) *ScheduledPostRepositoryMSSQL {
	return &ScheduledPostRepositoryMSSQL{db: db}
}

// insertedColumns renders postColumns as an OUTPUT clause.
func insertedColumns() string {
	cols := strings.Split(postColumns, ",")
	for i, c := range cols {
		cols[i] = "inserted." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

// ClaimDue uses an updatable CTE; READPAST skips rows another poller holds.
func (r *ScheduledPostRepositoryMSSQL) ClaimDue(ctx context.Context, now time.Time, claimToken string) (*model.ScheduledPost, error) {
	q := `WITH due AS (
    SELECT TOP (1) * FROM dbo.[videos] WITH (UPDLOCK, READPAST, ROWLOCK)
    WHERE status = 'agendado' AND scheduled_at <= @p2
    ORDER BY scheduled_at ASC, id ASC
)
UPDATE due SET status = 'processando', claim_token = @p1, claimed_at = @p2, updated_at = @p2
OUTPUT ` + insertedColumns() + `;`
	row := r.db.QueryRowContext(ctx, q, claimToken, now.UTC())
	post, err := scanPost(row)
	if err != nil {
		return nil, translateError("claim due post (mssql)", err)
	}
	return post, nil
}

func (r *ScheduledPostRepositoryMSSQL) MarkPosted(ctx context.Context, postID int64, claimToken, platformPostID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE dbo.[videos] SET status = 'postado', youtube_video_id = @p1, post_error = NULL, updated_at = @p2
WHERE id = @p3 AND claim_token = @p4 AND status = 'processando'`,
		platformPostID, time.Now().UTC(), postID, claimToken)
	if err != nil {
		return translateError("mark post posted (mssql)", err)
	}
	return expectOneRow("mark post posted (mssql)", res)
}

func (r *ScheduledPostRepositoryMSSQL) MarkFailed(ctx context.Context, postID int64, claimToken, errMsg string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE dbo.[videos] SET status = 'falhou', post_error = @p1, youtube_video_id = NULL, updated_at = @p2
WHERE id = @p3 AND claim_token = @p4 AND status = 'processando'`,
		errMsg, time.Now().UTC(), postID, claimToken)
	if err != nil {
		return translateError("mark post failed (mssql)", err)
	}
	return expectOneRow("mark post failed (mssql)", res)
}

func (r *ScheduledPostRepositoryMSSQL) CountStaleClaims(ctx context.Context, olderThan time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT_BIG(*) FROM dbo.[videos] WHERE status = 'processando' AND claimed_at < @p1`, olderThan.UTC()).Scan(&n)
	if err != nil {
		return 0, translateError("count stale claims (mssql)", err)
	}
	return n, nil
}

func (r *ScheduledPostRepositoryMSSQL) Create(ctx context.Context, p *model.ScheduledPost) error {
	if p.Status == "" {
		p.Status = model.StatusScheduled
	}
	now := time.Now().UTC()
	q := `INSERT INTO dbo.[videos] (user_id, title, description, video_url, scheduled_at, status,
    target_instagram, target_facebook, target_youtube, target_tiktok, target_kwai, created_at, updated_at)
OUTPUT inserted.id, inserted.created_at, inserted.updated_at
VALUES (@p1,@p2,@p3,@p4,@p5,@p6,@p7,@p8,@p9,@p10,@p11,@p12,@p12);`
	err := r.db.QueryRowContext(ctx, q, p.UserID, p.Title, p.Description, p.VideoURL, p.ScheduledAt.UTC(), string(p.Status),
		p.Targets.Instagram, p.Targets.Facebook, p.Targets.YouTube, p.Targets.TikTok, p.Targets.Kwai, now).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return translateError("create post (mssql)", err)
}

func (r *ScheduledPostRepositoryMSSQL) GetByID(ctx context.Context, postID int64) (*model.ScheduledPost, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM dbo.[videos] WHERE id = @p1`, postID)
	post, err := scanPost(row)
	if err != nil {
		return nil, translateError("get post (mssql)", err)
	}
	return post, nil
}

func (r *ScheduledPostRepositoryMSSQL) ListByUser(ctx context.Context, userID string) ([]*model.ScheduledPost, error) {
	return queryPosts(ctx, r.db, "list posts (mssql)",
		`SELECT `+postColumns+` FROM dbo.[videos] WHERE user_id = @p1 ORDER BY scheduled_at ASC`, userID)
}

// ListHistory returns the user's posts scheduled before the given instant, newest first.
func (r *ScheduledPostRepositoryMSSQL) ListHistory(ctx context.Context, userID string, before time.Time) ([]*model.ScheduledPost, error) {
	return queryPosts(ctx, r.db, "list post history (mssql)",
		`SELECT `+postColumns+` FROM dbo.[videos] WHERE user_id = @p1 AND scheduled_at < @p2 ORDER BY scheduled_at DESC, id DESC`,
		userID, before.UTC())
}

func (r *ScheduledPostRepositoryMSSQL) Delete(ctx context.Context, userID string, postID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dbo.[videos] WHERE id = @p1 AND user_id = @p2`, postID, userID)
	if err != nil {
		return translateError("delete post (mssql)", err)
	}
	return expectOneRow("delete post (mssql)", res)
}
