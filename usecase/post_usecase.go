package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"social-publisher/domain/dto"
	"social-publisher/domain/model"
	"social-publisher/domain/repository"
	"social-publisher/infrastructure/logger"
	"social-publisher/infrastructure/utils"
)

const historyDateLayout = "2006-01-02"

// IPostUseCase manages a user's scheduled posts.
type IPostUseCase interface {
	Create(ctx context.Context, userID string, req *dto.CreatePostRequest) (*model.ScheduledPost, error)
	List(ctx context.Context, userID string) ([]*model.ScheduledPost, error)
	Get(ctx context.Context, userID string, postID int64) (*model.ScheduledPost, error)
	Delete(ctx context.Context, userID string, postID int64) error
	// History returns the posts scheduled before the start of today in loc,
	// grouped by day in loc. A nil loc means UTC.
	History(ctx context.Context, userID string, loc *time.Location) (*dto.PostHistory, error)
}

type PostUseCase struct {
	posts repository.IScheduledPost
	now   func() time.Time
}

func NewPostUseCase(posts repository.IScheduledPost) IPostUseCase {
	return &PostUseCase{posts: posts, now: utils.GetCurrentTime}
}

func (u *PostUseCase) Create(ctx context.Context, userID string, req *dto.CreatePostRequest) (*model.ScheduledPost, error) {
	if err := validateCreate(userID, req); err != nil {
		return nil, err
	}
	targets := model.PlatformTargets(req.Targets)
	// YouTube is the only platform that is published
	if len(targets.Platforms()) == 0 {
		targets.YouTube = true
	}
	post := &model.ScheduledPost{
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		VideoURL:    strings.TrimSpace(req.VideoURL),
		ScheduledAt: req.ScheduledAt.UTC(),
		Status:      model.StatusScheduled,
		Targets:     targets,
	}
	if err := u.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	logger.GetLogger().WithField("post_id", post.ID).WithField("scheduled_at", post.ScheduledAt).Info("Post scheduled")
	return post, nil
}

func (u *PostUseCase) List(ctx context.Context, userID string) ([]*model.ScheduledPost, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user required", model.ErrInvalidInput)
	}
	return u.posts.ListByUser(ctx, userID)
}

// Get returns one of the user's posts. Posts of other users read as not found.
func (u *PostUseCase) Get(ctx context.Context, userID string, postID int64) (*model.ScheduledPost, error) {
	if userID == "" || postID <= 0 {
		return nil, fmt.Errorf("%w: user and post id required", model.ErrInvalidInput)
	}
	post, err := u.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, fmt.Errorf("get post %d: %w", postID, model.ErrNotFound)
	}
	return post, nil
}

func (u *PostUseCase) Delete(ctx context.Context, userID string, postID int64) error {
	if userID == "" || postID <= 0 {
		return fmt.Errorf("%w: user and post id required", model.ErrInvalidInput)
	}
	return u.posts.Delete(ctx, userID, postID)
}

func (u *PostUseCase) History(ctx context.Context, userID string, loc *time.Location) (*dto.PostHistory, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user required", model.ErrInvalidInput)
	}
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := u.now().In(loc).Date()
	startOfToday := time.Date(y, m, d, 0, 0, 0, 0, loc)

	posts, err := u.posts.ListHistory(ctx, userID, startOfToday)
	if err != nil {
		return nil, err
	}
	history := &dto.PostHistory{Days: []dto.PostHistoryDay{}}
	// rows arrive newest first, so each day is contiguous
	for _, p := range posts {
		date := p.ScheduledAt.In(loc).Format(historyDateLayout)
		if n := len(history.Days); n == 0 || history.Days[n-1].Date != date {
			history.Days = append(history.Days, dto.PostHistoryDay{Date: date})
		}
		last := &history.Days[len(history.Days)-1]
		last.Posts = append(last.Posts, p)
	}
	return history, nil
}

func validateCreate(userID string, req *dto.CreatePostRequest) error {
	if userID == "" {
		return fmt.Errorf("%w: user required", model.ErrInvalidInput)
	}
	if req == nil {
		return fmt.Errorf("%w: body required", model.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title required", model.ErrInvalidInput)
	}
	if req.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: scheduled_at required", model.ErrInvalidInput)
	}
	u, err := url.Parse(strings.TrimSpace(req.VideoURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: video_url must be an http(s) URL", model.ErrInvalidInput)
	}
	return nil
}
