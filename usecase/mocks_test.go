package usecase

import (
	"context"
	"io"
	"time"

	"social-publisher/domain/model"

	"github.com/stretchr/testify/mock"
)

type MockPostRepo struct{ mock.Mock }

func (m *MockPostRepo) ClaimDue(ctx context.Context, now time.Time, claimToken string) (*model.ScheduledPost, error) {
	args := m.Called(ctx, now, claimToken)
	if p, ok := args.Get(0).(*model.ScheduledPost); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepo) MarkPosted(ctx context.Context, postID int64, claimToken, platformPostID string) error {
	return m.Called(ctx, postID, claimToken, platformPostID).Error(0)
}

func (m *MockPostRepo) MarkFailed(ctx context.Context, postID int64, claimToken, errMsg string) error {
	return m.Called(ctx, postID, claimToken, errMsg).Error(0)
}

func (m *MockPostRepo) CountStaleClaims(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepo) Create(ctx context.Context, post *model.ScheduledPost) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockPostRepo) GetByID(ctx context.Context, postID int64) (*model.ScheduledPost, error) {
	args := m.Called(ctx, postID)
	if p, ok := args.Get(0).(*model.ScheduledPost); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepo) ListByUser(ctx context.Context, userID string) ([]*model.ScheduledPost, error) {
	args := m.Called(ctx, userID)
	if l, ok := args.Get(0).([]*model.ScheduledPost); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepo) ListHistory(ctx context.Context, userID string, before time.Time) ([]*model.ScheduledPost, error) {
	args := m.Called(ctx, userID, before)
	if l, ok := args.Get(0).([]*model.ScheduledPost); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepo) Delete(ctx context.Context, userID string, postID int64) error {
	return m.Called(ctx, userID, postID).Error(0)
}

type MockCredentialRepo struct{ mock.Mock }

func (m *MockCredentialRepo) GetCredential(ctx context.Context, userID string) (*model.OAuthCredential, error) {
	args := m.Called(ctx, userID)
	if c, ok := args.Get(0).(*model.OAuthCredential); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCredentialRepo) UpdateAccessToken(ctx context.Context, userID, accessToken string, expiresAt time.Time) error {
	return m.Called(ctx, userID, accessToken, expiresAt).Error(0)
}

func (m *MockCredentialRepo) UpsertCredential(ctx context.Context, cred *model.OAuthCredential) error {
	return m.Called(ctx, cred).Error(0)
}

type MockTokenProvider struct{ mock.Mock }

func (m *MockTokenProvider) AccessToken(ctx context.Context, cred *model.OAuthCredential) (string, error) {
	args := m.Called(ctx, cred)
	return args.String(0), args.Error(1)
}

type MockFetcher struct{ mock.Mock }

func (m *MockFetcher) Fetch(ctx context.Context, mediaURL string) (io.ReadCloser, error) {
	args := m.Called(ctx, mediaURL)
	if rc, ok := args.Get(0).(io.ReadCloser); ok {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, accessToken string, media io.Reader, meta model.PublishMetadata) (string, error) {
	args := m.Called(ctx, accessToken, media, meta)
	return args.String(0), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) NotifyPostStatus(ctx context.Context, post *model.ScheduledPost) {
	m.Called(ctx, post)
}
