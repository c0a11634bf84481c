package repository

import (
	"context"
	"io"

	"social-publisher/domain/model"
)

// ITokenProvider returns a usable access token for a stored credential.
type ITokenProvider interface {
	AccessToken(ctx context.Context, cred *model.OAuthCredential) (string, error)
}

// IMediaFetcher downloads the source video of a post.
type IMediaFetcher interface {
	Fetch(ctx context.Context, mediaURL string) (io.ReadCloser, error)
}

// IVideoPublisher uploads media to a platform and returns the platform post id.
type IVideoPublisher interface {
	Publish(ctx context.Context, accessToken string, media io.Reader, meta model.PublishMetadata) (string, error)
}

// IPostNotifier is told about every finalized post.
type IPostNotifier interface {
	NotifyPostStatus(ctx context.Context, post *model.ScheduledPost)
}

// IAccountConnector runs the OAuth consent flow that links a platform account.
type IAccountConnector interface {
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for tokens. UserID is left empty.
	Exchange(ctx context.Context, code string) (*model.OAuthCredential, error)
}
