package persistence

import (
	"context"
	"database/sql"
	"time"

	"social-publisher/domain/model"
	"social-publisher/domain/repository"
)

type OAuthCredentialRepositoryMSSQL struct{ db *sql.DB }

var _ repository.IOAuthCredential = (*OAuthCredentialRepositoryMSSQL)(nil)

func NewOAuthCredentialRepositoryMSSQL(db *sql.DB) *OAuthCredentialRepositoryMSSQL {
	return &OAuthCredentialRepositoryMSSQL{db: db}
}

func (r *OAuthCredentialRepositoryMSSQL) GetCredential(ctx context.Context, userID string) (*model.OAuthCredential, error) {
	row := r.db.QueryRowContext(ctx, `SELECT user_id, access_token, refresh_token, expiry_date, updated_at FROM dbo.[youtube_tokens] WHERE user_id=@p1`, userID)
	cred, err := scanCredential(row)
	if err != nil {
		return nil, translateError("get credential (mssql)", err)
	}
	return cred, nil
}

func (r *OAuthCredentialRepositoryMSSQL) UpdateAccessToken(ctx context.Context, userID, accessToken string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE dbo.[youtube_tokens] SET access_token=@p1, expiry_date=@p2, updated_at=@p3 WHERE user_id=@p4`,
		accessToken, expiresAt.UTC(), time.Now().UTC(), userID)
	if err != nil {
		return translateError("update access token (mssql)", err)
	}
	return expectOneRow("update access token (mssql)", res)
}

func (r *OAuthCredentialRepositoryMSSQL) UpsertCredential(ctx context.Context, c *model.OAuthCredential) error {
	c.UpdatedAt = time.Now().UTC()
	// MERGE upsert by user_id
	q := `MERGE dbo.[youtube_tokens] AS target
USING (VALUES (@p1)) AS src(user_id)
ON target.user_id = src.user_id
WHEN MATCHED THEN UPDATE SET
    access_token=@p2,
    refresh_token=COALESCE(NULLIF(@p3, ''), target.refresh_token),
    expiry_date=@p4,
    updated_at=@p5
WHEN NOT MATCHED THEN
    INSERT (user_id, access_token, refresh_token, expiry_date, updated_at)
    VALUES (@p1,@p2,@p3,@p4,@p5);`
	_, err := r.db.ExecContext(ctx, q, c.UserID, c.AccessToken, nullableString(c.RefreshToken), nullableTime(c.ExpiresAt), c.UpdatedAt)
	return translateError("upsert credential (mssql)", err)
}
