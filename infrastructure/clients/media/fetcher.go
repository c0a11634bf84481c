package media

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"social-publisher/domain/model"
	"social-publisher/domain/repository"
	"social-publisher/infrastructure/logger"
)

// errBodyLimit caps how much of a failed response is kept for diagnostics.
const errBodyLimit = 512

// Fetcher downloads source videos over HTTP.
type Fetcher struct {
	httpClient *http.Client
}

var _ repository.IMediaFetcher = (*Fetcher)(nil)

func NewFetcher(httpClient *http.Client) *Fetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Fetcher{httpClient: httpClient}
}

// Fetch issues a GET and returns the body stream. The caller closes it.
func (f *Fetcher) Fetch(ctx context.Context, mediaURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDownloadFailed, err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDownloadFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		logger.GetLogger().WithField("url", mediaURL).WithField("status", resp.StatusCode).Warn("Video download failed")
		return nil, fmt.Errorf("%w: %s returned %s %s", model.ErrDownloadFailed, mediaURL, resp.Status, string(snippet))
	}
	return resp.Body, nil
}
