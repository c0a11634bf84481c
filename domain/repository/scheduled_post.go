package repository

import (
	"context"
	"time"

	"social-publisher/domain/model"
)

// IScheduledPost defines persistence for scheduled posts.
type IScheduledPost interface {
	// ClaimDue atomically moves one due agendado post to processando, stamping
	// claimToken, and returns it. Returns model.ErrNotFound when nothing is due.
	ClaimDue(ctx context.Context, now time.Time, claimToken string) (*model.ScheduledPost, error)
	// MarkPosted finalizes a claimed post as postado and clears any previous error.
	MarkPosted(ctx context.Context, postID int64, claimToken, platformPostID string) error
	// MarkFailed finalizes a claimed post as falhou with errMsg.
	MarkFailed(ctx context.Context, postID int64, claimToken, errMsg string) error
	// CountStaleClaims counts posts left in processando since before olderThan.
	CountStaleClaims(ctx context.Context, olderThan time.Time) (int64, error)

	Create(ctx context.Context, post *model.ScheduledPost) error
	GetByID(ctx context.Context, postID int64) (*model.ScheduledPost, error)
	ListByUser(ctx context.Context, userID string) ([]*model.ScheduledPost, error)
	// ListHistory returns the user's posts scheduled before before, newest first.
	ListHistory(ctx context.Context, userID string, before time.Time) ([]*model.ScheduledPost, error)
	Delete(ctx context.Context, userID string, postID int64) error
}
