package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"social-publisher/domain/model"
	"social-publisher/domain/repository"
	"social-publisher/infrastructure/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const defaultPrivacy = "private"

// Publisher uploads videos to the authenticated user's channel.
type Publisher struct {
	httpClient     *http.Client
	endpoint       string
	defaultPrivacy string
}

var _ repository.IVideoPublisher = (*Publisher)(nil)

// NewPublisher builds a publisher. endpoint overrides the API base URL and is
// empty in production; httpClient may be nil.
func NewPublisher(httpClient *http.Client, endpoint, privacy string) *Publisher {
	if privacy == "" {
		privacy = defaultPrivacy
	}
	if endpoint != "" && !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	return &Publisher{httpClient: httpClient, endpoint: endpoint, defaultPrivacy: privacy}
}

// Publish sends the media and metadata in a single multipart request and
// returns the id YouTube assigned to the video.
func (p *Publisher) Publish(ctx context.Context, accessToken string, media io.Reader, meta model.PublishMetadata) (string, error) {
	service, err := p.service(ctx, accessToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrUploadFailed, err)
	}

	description := meta.Description
	if strings.TrimSpace(description) == "" {
		description = " "
	}
	privacy := meta.Privacy
	if privacy == "" {
		privacy = p.defaultPrivacy
	}
	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       meta.Title,
			Description: description,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus: privacy,
		},
	}

	// ChunkSize(0) disables resumable upload
	call := service.Videos.Insert([]string{"snippet", "status"}, video).
		Media(media, googleapi.ChunkSize(0)).
		Context(ctx)
	response, err := call.Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			logger.GetLogger().WithField("status", apiErr.Code).WithField("body", apiErr.Body).Error("YouTube upload rejected")
			return "", fmt.Errorf("%w: status %d: %s", model.ErrUploadFailed, apiErr.Code, strings.TrimSpace(apiErr.Body))
		}
		return "", fmt.Errorf("%w: %v", model.ErrUploadFailed, err)
	}
	if response == nil || response.Id == "" {
		return "", model.ErrUploadMalformed
	}
	return response.Id, nil
}

func (p *Publisher) service(ctx context.Context, accessToken string) (*youtube.Service, error) {
	if p.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	opts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, ts))}
	if p.endpoint != "" {
		opts = append(opts, option.WithEndpoint(p.endpoint))
	}
	return youtube.NewService(ctx, opts...)
}
