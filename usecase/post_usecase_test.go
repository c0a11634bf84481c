package usecase

import (
	"context"
	"testing"
	"time"

	"social-publisher/domain/dto"
	"social-publisher/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPostUseCase_Create(t *testing.T) {
	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.FixedZone("BRT", -3*3600))

	t.Run("defaults to youtube target", func(t *testing.T) {
		repo := new(MockPostRepo)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(p *model.ScheduledPost) bool {
			return p.UserID == "u1" && p.Status == model.StatusScheduled && p.Targets.YouTube && p.ScheduledAt.Location() == time.UTC
		})).Run(func(args mock.Arguments) { args.Get(1).(*model.ScheduledPost).ID = 5 }).Return(nil)

		post, err := NewPostUseCase(repo).Create(context.Background(), "u1", &dto.CreatePostRequest{
			Title: " Launch ", VideoURL: "https://cdn.example/v.mp4", ScheduledAt: at,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), post.ID)
		assert.Equal(t, "Launch", post.Title)
		assert.True(t, at.Equal(post.ScheduledAt))
		repo.AssertExpectations(t)
	})

	t.Run("keeps chosen targets", func(t *testing.T) {
		repo := new(MockPostRepo)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(p *model.ScheduledPost) bool {
			return p.Targets.Instagram && !p.Targets.YouTube
		})).Return(nil)

		_, err := NewPostUseCase(repo).Create(context.Background(), "u1", &dto.CreatePostRequest{
			Title: "T", VideoURL: "https://cdn.example/v.mp4", ScheduledAt: at, Targets: dto.TargetsRequest{Instagram: true},
		})
		require.NoError(t, err)
	})

	invalid := []struct {
		name string
		req  *dto.CreatePostRequest
	}{
		{"nil body", nil},
		{"missing title", &dto.CreatePostRequest{VideoURL: "https://v", ScheduledAt: at}},
		{"missing schedule", &dto.CreatePostRequest{Title: "T", VideoURL: "https://v"}},
		{"bad url", &dto.CreatePostRequest{Title: "T", VideoURL: "ftp://v/x", ScheduledAt: at}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockPostRepo)
			_, err := NewPostUseCase(repo).Create(context.Background(), "u1", tt.req)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("duplicate schedule", func(t *testing.T) {
		repo := new(MockPostRepo)
		repo.On("Create", mock.Anything, mock.Anything).Return(model.ErrDuplicateSchedule)
		_, err := NewPostUseCase(repo).Create(context.Background(), "u1", &dto.CreatePostRequest{
			Title: "T", VideoURL: "https://cdn.example/v.mp4", ScheduledAt: at,
		})
		assert.ErrorIs(t, err, model.ErrDuplicateSchedule)
	})
}

func TestPostUseCase_ListAndDelete(t *testing.T) {
	repo := new(MockPostRepo)
	repo.On("ListByUser", mock.Anything, "u1").Return([]*model.ScheduledPost{{ID: 1}, {ID: 2}}, nil)
	repo.On("Delete", mock.Anything, "u1", int64(2)).Return(model.ErrNotFound)
	uc := NewPostUseCase(repo)

	list, err := uc.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	assert.ErrorIs(t, uc.Delete(context.Background(), "u1", 2), model.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(context.Background(), "u1", 0), model.ErrInvalidInput)
	repo.AssertExpectations(t)
}

func TestPostUseCase_Get(t *testing.T) {
	repo := new(MockPostRepo)
	repo.On("GetByID", mock.Anything, int64(4)).Return(&model.ScheduledPost{ID: 4, UserID: "u1"}, nil)
	repo.On("GetByID", mock.Anything, int64(9)).Return(&model.ScheduledPost{ID: 9, UserID: "someone-else"}, nil)
	uc := NewPostUseCase(repo)

	post, err := uc.Get(context.Background(), "u1", 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), post.ID)

	_, err = uc.Get(context.Background(), "u1", 9)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = uc.Get(context.Background(), "u1", 0)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestPostUseCase_History(t *testing.T) {
	now := time.Date(2024, 6, 3, 1, 30, 0, 0, time.UTC)
	newUseCase := func(repo *MockPostRepo) *PostUseCase {
		uc := NewPostUseCase(repo).(*PostUseCase)
		uc.now = func() time.Time { return now }
		return uc
	}

	t.Run("groups by day newest first", func(t *testing.T) {
		repo := new(MockPostRepo)
		midnight := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
		repo.On("ListHistory", mock.Anything, "u1", midnight).Return([]*model.ScheduledPost{
			{ID: 5, ScheduledAt: time.Date(2024, 6, 2, 22, 0, 0, 0, time.UTC)},
			{ID: 4, ScheduledAt: time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC)},
			{ID: 2, ScheduledAt: time.Date(2024, 5, 30, 12, 0, 0, 0, time.UTC)},
		}, nil)

		history, err := newUseCase(repo).History(context.Background(), "u1", nil)
		require.NoError(t, err)
		require.Len(t, history.Days, 2)
		assert.Equal(t, "2024-06-02", history.Days[0].Date)
		require.Len(t, history.Days[0].Posts, 2)
		assert.Equal(t, int64(5), history.Days[0].Posts[0].ID)
		assert.Equal(t, int64(4), history.Days[0].Posts[1].ID)
		assert.Equal(t, "2024-05-30", history.Days[1].Date)
		repo.AssertExpectations(t)
	})

	t.Run("today starts in the caller's zone", func(t *testing.T) {
		repo := new(MockPostRepo)
		brt := time.FixedZone("BRT", -3*3600)
		// 01:30 UTC is still June 2 in BRT
		midnight := time.Date(2024, 6, 2, 0, 0, 0, 0, brt)
		repo.On("ListHistory", mock.Anything, "u1", mock.MatchedBy(func(before time.Time) bool {
			return before.Equal(midnight)
		})).Return([]*model.ScheduledPost{
			{ID: 7, ScheduledAt: time.Date(2024, 6, 2, 1, 0, 0, 0, time.UTC)},
		}, nil)

		history, err := newUseCase(repo).History(context.Background(), "u1", brt)
		require.NoError(t, err)
		require.Len(t, history.Days, 1)
		assert.Equal(t, "2024-06-01", history.Days[0].Date)
		repo.AssertExpectations(t)
	})

	t.Run("empty history", func(t *testing.T) {
		repo := new(MockPostRepo)
		repo.On("ListHistory", mock.Anything, "u1", mock.Anything).Return([]*model.ScheduledPost{}, nil)
		history, err := newUseCase(repo).History(context.Background(), "u1", nil)
		require.NoError(t, err)
		assert.NotNil(t, history.Days)
		assert.Empty(t, history.Days)
	})

	t.Run("requires user", func(t *testing.T) {
		repo := new(MockPostRepo)
		_, err := newUseCase(repo).History(context.Background(), "", nil)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		repo.AssertNotCalled(t, "ListHistory", mock.Anything, mock.Anything, mock.Anything)
	})
}
