package persistence

import (
	"context"
	"database/sql"
	"time"

	"social-publisher/domain/model"
	"social-publisher/domain/repository"
)

const postColumns = `id, user_id, title, description, video_url, scheduled_at, status, youtube_video_id, post_error,
	target_instagram, target_facebook, target_youtube, target_tiktok, target_kwai,
	claim_token, claimed_at, created_at, updated_at`

// ScheduledPostRepository implements scheduled post persistence on PostgreSQL.
type ScheduledPostRepository struct{ db *sql.DB }

var _ repository.IScheduledPost = (*ScheduledPostRepository)(nil)

func NewScheduledPostRepository(db *sql.DB) *ScheduledPostRepository {
	return &ScheduledPostRepository{db: db}
}

// ClaimDue flips the oldest due post to processando in one statement. SKIP
// LOCKED keeps overlapping pollers from claiming the same row.
func (r *ScheduledPostRepository) ClaimDue(ctx context.Context, now time.Time, claimToken string) (*model.ScheduledPost, error) {
	q := `UPDATE videos SET status = 'processando', claim_token = $1, claimed_at = $2, updated_at = $2
		WHERE status = 'agendado' AND id = (
			SELECT id FROM videos
			WHERE status = 'agendado' AND scheduled_at <= $2
			ORDER BY scheduled_at ASC, id ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + postColumns
	row := r.db.QueryRowContext(ctx, q, claimToken, now.UTC())
	post, err := scanPost(row)
	if err != nil {
		return nil, translateError("claim due post", err)
	}
	return post, nil
}

func (r *ScheduledPostRepository) MarkPosted(ctx context.Context, postID int64, claimToken, platformPostID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE videos SET status = 'postado', youtube_video_id = $1, post_error = NULL, updated_at = $2
		WHERE id = $3 AND claim_token = $4 AND status = 'processando'`,
		platformPostID, time.Now().UTC(), postID, claimToken)
	if err != nil {
		return translateError("mark post posted", err)
	}
	return expectOneRow("mark post posted", res)
}

func (r *ScheduledPostRepository) MarkFailed(ctx context.Context, postID int64, claimToken, errMsg string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE videos SET status = 'falhou', post_error = $1, youtube_video_id = NULL, updated_at = $2
		WHERE id = $3 AND claim_token = $4 AND status = 'processando'`,
		errMsg, time.Now().UTC(), postID, claimToken)
	if err != nil {
		return translateError("mark post failed", err)
	}
	return expectOneRow("mark post failed", res)
}

func (r *ScheduledPostRepository) CountStaleClaims(ctx context.Context, olderThan time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos WHERE status = 'processando' AND claimed_at < $1`, olderThan.UTC()).Scan(&n)
	if err != nil {
		return 0, translateError("count stale claims", err)
	}
	return n, nil
}

func (r *ScheduledPostRepository) Create(ctx context.Context, p *model.ScheduledPost) error {
	if p.Status == "" {
		p.Status = model.StatusScheduled
	}
	now := time.Now().UTC()
	q := `INSERT INTO videos (user_id, title, description, video_url, scheduled_at, status,
			target_instagram, target_facebook, target_youtube, target_tiktok, target_kwai, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$12)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, q, p.UserID, p.Title, p.Description, p.VideoURL, p.ScheduledAt.UTC(), string(p.Status),
		p.Targets.Instagram, p.Targets.Facebook, p.Targets.YouTube, p.Targets.TikTok, p.Targets.Kwai, now).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return translateError("create post", err)
}

func (r *ScheduledPostRepository) GetByID(ctx context.Context, postID int64) (*model.ScheduledPost, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM videos WHERE id = $1`, postID)
	post, err := scanPost(row)
	if err != nil {
		return nil, translateError("get post", err)
	}
	return post, nil
}

func (r *ScheduledPostRepository) ListByUser(ctx context.Context, userID string) ([]*model.ScheduledPost, error) {
	return queryPosts(ctx, r.db, "list posts",
		`SELECT `+postColumns+` FROM videos WHERE user_id = $1 ORDER BY scheduled_at ASC`, userID)
}

// ListHistory returns the user's posts scheduled before the given instant, newest first.
func (r *ScheduledPostRepository) ListHistory(ctx context.Context, userID string, before time.Time) ([]*model.ScheduledPost, error) {
	return queryPosts(ctx, r.db, "list post history",
		`SELECT `+postColumns+` FROM videos WHERE user_id = $1 AND scheduled_at < $2 ORDER BY scheduled_at DESC, id DESC`,
		userID, before.UTC())
}

func (r *ScheduledPostRepository) Delete(ctx context.Context, userID string, postID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return translateError("delete post", err)
	}
	return expectOneRow("delete post", res)
}

// scanPost reads a row selected with postColumns. Both dialects share it.
func scanPost(row rowScanner) (*model.ScheduledPost, error) {
	p := &model.ScheduledPost{}
	var (
		description, videoID, postErr, claimToken sql.NullString
		status                                    sql.NullString
		claimedAt                                 sql.NullTime
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &description, &p.VideoURL, &p.ScheduledAt, &status, &videoID, &postErr,
		&p.Targets.Instagram, &p.Targets.Facebook, &p.Targets.YouTube, &p.Targets.TikTok, &p.Targets.Kwai,
		&claimToken, &claimedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	p.Status = model.PostStatus(status.String)
	if !status.Valid {
		p.Status = model.StatusScheduled
	}
	p.YouTubeVideoID = stringPtr(videoID)
	p.PostError = stringPtr(postErr)
	p.ClaimToken = stringPtr(claimToken)
	p.ClaimedAt = timePtr(claimedAt)
	return p, nil
}

func queryPosts(ctx context.Context, db *sql.DB, op, query string, args ...any) ([]*model.ScheduledPost, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(op, err)
	}
	defer rows.Close()
	list := []*model.ScheduledPost{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, translateError(op, err)
		}
		list = append(list, post)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(op, err)
	}
	return list, nil
}
