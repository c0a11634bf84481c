package google

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"social-publisher/domain/model"
	"social-publisher/domain/repository"
	"social-publisher/infrastructure/utils"

	"golang.org/x/oauth2"
)

// Connector runs the Google consent flow for YouTube uploads.
type Connector struct {
	oauth      *oauth2.Config
	httpClient *http.Client
	now        func() time.Time
}

var _ repository.IAccountConnector = (*Connector)(nil)

func NewConnector(cfg *oauth2.Config, httpClient *http.Client) *Connector {
	return &Connector{oauth: cfg, httpClient: httpClient, now: utils.GetCurrentTime}
}

// AuthCodeURL asks for offline access and forces the consent screen so a
// refresh token is issued.
func (c *Connector) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (c *Connector) Exchange(ctx context.Context, code string) (*model.OAuthCredential, error) {
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}
	now := c.now()
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, refreshError(err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response without access_token", model.ErrRefreshFailed)
	}
	return &model.OAuthCredential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    expiryFrom(tok, now),
	}, nil
}
