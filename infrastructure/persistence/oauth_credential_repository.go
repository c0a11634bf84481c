package persistence

import (
	"context"
	"database/sql"
	"time"

	"social-publisher/domain/model"
	"social-publisher/domain/repository"
)

type OAuthCredentialRepository struct{ db *sql.DB }

var _ repository.IOAuthCredential = (*OAuthCredentialRepository)(nil)

func NewOAuthCredentialRepository(db *sql.DB) *OAuthCredentialRepository {
	return &OAuthCredentialRepository{db: db}
}

func (r *OAuthCredentialRepository) GetCredential(ctx context.Context, userID string) (*model.OAuthCredential, error) {
	row := r.db.QueryRowContext(ctx, `SELECT user_id, access_token, refresh_token, expiry_date, updated_at FROM youtube_tokens WHERE user_id=$1`, userID)
	cred, err := scanCredential(row)
	if err != nil {
		return nil, translateError("get credential", err)
	}
	return cred, nil
}

func (r *OAuthCredentialRepository) UpdateAccessToken(ctx context.Context, userID, accessToken string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE youtube_tokens SET access_token=$1, expiry_date=$2, updated_at=$3 WHERE user_id=$4`,
		accessToken, expiresAt.UTC(), time.Now().UTC(), userID)
	if err != nil {
		return translateError("update access token", err)
	}
	return expectOneRow("update access token", res)
}

// UpsertCredential keeps the stored refresh token when the new one is empty;
// Google only returns it on the first consent.
func (r *OAuthCredentialRepository) UpsertCredential(ctx context.Context, c *model.OAuthCredential) error {
	c.UpdatedAt = time.Now().UTC()
	q := `INSERT INTO youtube_tokens (user_id, access_token, refresh_token, expiry_date, updated_at)
		  VALUES ($1,$2,$3,$4,$5)
		  ON CONFLICT (user_id) DO UPDATE SET
			access_token=EXCLUDED.access_token,
			refresh_token=COALESCE(NULLIF(EXCLUDED.refresh_token, ''), youtube_tokens.refresh_token),
			expiry_date=EXCLUDED.expiry_date,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, c.UserID, c.AccessToken, nullableString(c.RefreshToken), nullableTime(c.ExpiresAt), c.UpdatedAt)
	return translateError("upsert credential", err)
}

func scanCredential(row rowScanner) (*model.OAuthCredential, error) {
	cred := &model.OAuthCredential{}
	var refresh sql.NullString
	var expiry sql.NullTime
	if err := row.Scan(&cred.UserID, &cred.AccessToken, &refresh, &expiry, &cred.UpdatedAt); err != nil {
		return nil, err
	}
	cred.RefreshToken = refresh.String
	if expiry.Valid {
		cred.ExpiresAt = expiry.Time
	}
	return cred, nil
}
