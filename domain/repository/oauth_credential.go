package repository

import (
	"context"
	"time"

	"social-publisher/domain/model"
)

// IOAuthCredential is the per-user token store.
type IOAuthCredential interface {
	// GetCredential returns model.ErrNotFound when the user never connected an account.
	GetCredential(ctx context.Context, userID string) (*model.OAuthCredential, error)
	// UpdateAccessToken stores a renewed access token; the refresh token is left untouched.
	UpdateAccessToken(ctx context.Context, userID, accessToken string, expiresAt time.Time) error
	// UpsertCredential saves the result of a code exchange. An empty refresh
	// token keeps the stored one.
	UpsertCredential(ctx context.Context, cred *model.OAuthCredential) error
}
