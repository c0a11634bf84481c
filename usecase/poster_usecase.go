package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"social-publisher/domain/dto"
	"social-publisher/domain/model"
	"social-publisher/domain/repository"
	"social-publisher/infrastructure/configuration"
	"social-publisher/infrastructure/logger"
	"social-publisher/infrastructure/utils"

	"github.com/google/uuid"
)

const notifyTimeout = 15 * time.Second

// IPosterUseCase publishes due scheduled posts.
type IPosterUseCase interface {
	// PollOnce claims at most one due post and drives it to postado or falhou.
	PollOnce(ctx context.Context) (*dto.PollResult, error)
}

// PlatformAdapter is one row of the capability table: how a platform
// authenticates and how it uploads.
type PlatformAdapter struct {
	CredentialKind model.CredentialKind
	Tokens         repository.ITokenProvider
	Publisher      repository.IVideoPublisher
}

// PosterUseCase implements IPosterUseCase.
type PosterUseCase struct {
	posts       repository.IScheduledPost
	credentials repository.IOAuthCredential
	fetcher     repository.IMediaFetcher
	platforms   map[model.Platform]PlatformAdapter
	notifiers   []repository.IPostNotifier
	cfg         configuration.PosterConfig
	now         func() time.Time
	newToken    func() string
}

// NewPosterUseCase wires the poller. Only YouTube is registered; the other
// target flags are recorded on the post but not published.
func NewPosterUseCase(
	posts repository.IScheduledPost,
	credentials repository.IOAuthCredential,
	fetcher repository.IMediaFetcher,
	youtube PlatformAdapter,
	cfg *configuration.PosterConfig,
) *PosterUseCase {
	var c configuration.PosterConfig
	if cfg != nil {
		c = *cfg
	}
	return &PosterUseCase{
		posts:       posts,
		credentials: credentials,
		fetcher:     fetcher,
		platforms:   map[model.Platform]PlatformAdapter{model.PlatformYouTube: youtube},
		cfg:         c,
		now:         utils.GetCurrentTime,
		newToken:    uuid.NewString,
	}
}

// WithNotifier adds a subscriber for finalized posts (fluent). Nil is ignored.
func (u *PosterUseCase) WithNotifier(n repository.IPostNotifier) *PosterUseCase {
	if n != nil {
		u.notifiers = append(u.notifiers, n)
	}
	return u
}

func (u *PosterUseCase) PollOnce(ctx context.Context) (result *dto.PollResult, err error) {
	now := u.now()
	u.reportStaleClaims(ctx, now)

	claimToken := u.newToken()
	post, err := u.posts.ClaimDue(ctx, now, claimToken)
	if errors.Is(err, model.ErrNotFound) {
		return &dto.PollResult{Outcome: dto.PollNoPending, Message: "no pending"}, nil
	}
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to select due post")
		return nil, err
	}

	lg := logger.GetLogger().WithField("post_id", post.ID).WithField("user_id", post.UserID)
	lg.WithField("scheduled_at", post.ScheduledAt).Info("Claimed due post")

	var platformID string
	defer func() {
		if r := recover(); r != nil {
			lg.WithField("panic", r).Error("Publishing panicked")
			err = fmt.Errorf("publishing panicked: %v", r)
		}
		result, err = u.finalize(ctx, post, claimToken, platformID, err)
	}()

	platformID, err = u.publish(ctx, post)
	return nil, err
}

// adapterFor picks the first targeted platform that has a registered adapter.
// Rows without any target flag predate the flags and were YouTube posts.
func (u *PosterUseCase) adapterFor(post *model.ScheduledPost) (model.Platform, PlatformAdapter, error) {
	targets := post.Targets.Platforms()
	if len(targets) == 0 {
		targets = []model.Platform{model.PlatformYouTube}
	}
	for _, p := range targets {
		if a, ok := u.platforms[p]; ok && a.Publisher != nil && a.Tokens != nil {
			return p, a, nil
		}
	}
	return "", PlatformAdapter{}, fmt.Errorf("%w: no publisher for %v", model.ErrUnsupportedPlatform, targets)
}

func (u *PosterUseCase) publish(ctx context.Context, post *model.ScheduledPost) (string, error) {
	platform, adapter, err := u.adapterFor(post)
	if err != nil {
		return "", err
	}
	logger.GetLogger().WithField("post_id", post.ID).WithField("platform", platform).Debug("Publishing post")

	cred, err := u.credentials.GetCredential(ctx, post.UserID)
	if errors.Is(err, model.ErrNotFound) {
		return "", fmt.Errorf("%w: no %s account connected for user %s", model.ErrNotFound, platform, post.UserID)
	}
	if err != nil {
		return "", err
	}

	accessToken, err := adapter.Tokens.AccessToken(ctx, cred)
	if err != nil {
		return "", err
	}

	media, err := u.fetcher.Fetch(ctx, post.VideoURL)
	if err != nil {
		return "", err
	}
	defer media.Close()

	return adapter.Publisher.Publish(ctx, accessToken, media, model.PublishMetadata{
		Title:       post.Title,
		Description: post.Description,
		Privacy:     u.cfg.DefaultPrivacy,
	})
}

// finalize writes the terminal status for a claimed post. A failed write
// surfaces as ErrPersistenceFailed; the pipeline error is still returned.
func (u *PosterUseCase) finalize(ctx context.Context, post *model.ScheduledPost, claimToken, platformID string, pipelineErr error) (*dto.PollResult, error) {
	lg := logger.GetLogger().WithField("post_id", post.ID)
	// finalize even when the trigger's context was cancelled mid-pipeline
	wctx := context.WithoutCancel(ctx)

	if pipelineErr == nil {
		if err := u.posts.MarkPosted(wctx, post.ID, claimToken, platformID); err != nil {
			lg.WithField("error", err).WithField("youtube_video_id", platformID).Error("Uploaded but failed to record postado")
			return nil, fmt.Errorf("%w: record posted %d: %v", model.ErrPersistenceFailed, post.ID, err)
		}
		post.Status = model.StatusPosted
		post.YouTubeVideoID = &platformID
		post.PostError = nil
		post.UpdatedAt = u.now()
		lg.WithField("youtube_video_id", platformID).Info("Post published")
		u.notify(wctx, post)
		return &dto.PollResult{Outcome: dto.PollPosted, Message: "posted", PostID: post.ID, YouTubeVideoID: platformID}, nil
	}

	msg := pipelineErr.Error()
	if err := u.posts.MarkFailed(wctx, post.ID, claimToken, msg); err != nil {
		lg.WithField("error", err).WithField("cause", msg).Error("Failed to record falhou")
		return nil, fmt.Errorf("%w: record failure of post %d: %v (cause: %s)", model.ErrPersistenceFailed, post.ID, err, msg)
	}
	post.Status = model.StatusFailed
	post.PostError = &msg
	post.YouTubeVideoID = nil
	post.UpdatedAt = u.now()
	lg.WithField("error", msg).Warn("Post failed")
	u.notify(wctx, post)
	return &dto.PollResult{Outcome: dto.PollFailed, Message: msg, PostID: post.ID}, pipelineErr
}

// notify runs the notifiers in order. Each sink logs its own failures.
func (u *PosterUseCase) notify(ctx context.Context, post *model.ScheduledPost) {
	if len(u.notifiers) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	for _, n := range u.notifiers {
		n.NotifyPostStatus(ctx, post)
	}
}

// reportStaleClaims warns about posts stuck in processando; they need manual
// reconciliation because the remote upload may have happened.
func (u *PosterUseCase) reportStaleClaims(ctx context.Context, now time.Time) {
	if u.cfg.StaleClaimAfter <= 0 {
		return
	}
	n, err := u.posts.CountStaleClaims(ctx, now.Add(-u.cfg.StaleClaimAfter))
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Could not count stale claims")
		return
	}
	if n > 0 {
		logger.GetLogger().WithField("count", n).Warn("Posts stuck in processando; check YouTube before rescheduling")
	}
}
