package configuration

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Default scopes requested when connecting a YouTube account.
var defaultGoogleScopes = []string{
	"https://www.googleapis.com/auth/youtube.upload",
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/userinfo.email",
}

// GoogleConfig is the explicit OAuth configuration handed to the token
// refresher and the account connection flow.
type GoogleConfig struct {
	ClientID       string
	ClientSecret   string
	RedirectURL    string
	TokenURL       string
	UploadEndpoint string
	Scopes         []string
}

// PosterConfig is the explicit configuration of the scheduled-post publisher.
type PosterConfig struct {
	Schedule        string
	RunTimeout      time.Duration
	RefreshMargin   time.Duration
	DefaultPrivacy  string
	StaleClaimAfter time.Duration
	HTTPClient      *http.Client
}

// GetGoogleConfig builds the Google OAuth configuration from C.
func GetGoogleConfig() *GoogleConfig {
	scheme := "http"
	if C.App.TLSEnabled {
		scheme = "https"
	}
	defaultRedirect := fmt.Sprintf("%s://localhost:%d/auth/callback", scheme, C.App.Port)
	scopes := C.Google.Scopes
	if len(scopes) == 0 {
		scopes = defaultGoogleScopes
	}
	return &GoogleConfig{
		ClientID:       C.Google.ClientID,
		ClientSecret:   C.Google.ClientSecret,
		RedirectURL:    firstNonEmpty(C.Google.RedirectURI, defaultRedirect),
		TokenURL:       C.Google.TokenURL,
		UploadEndpoint: C.Google.UploadEndpoint,
		Scopes:         scopes,
	}
}

// GetPosterConfig builds the poster configuration from C.
func GetPosterConfig() *PosterConfig {
	return &PosterConfig{
		Schedule:        C.Poster.Schedule,
		RunTimeout:      C.Poster.RunTimeout,
		RefreshMargin:   C.Poster.RefreshMargin,
		DefaultPrivacy:  C.Poster.DefaultPrivacy,
		StaleClaimAfter: C.Poster.StaleClaimAfter,
		HTTPClient:      &http.Client{Timeout: C.Poster.HTTPTimeout},
	}
}

// OAuth2 returns the oauth2 client config. Client credentials are sent in the
// form body, which is what the Google token endpoint expects for refresh grants.
func (g *GoogleConfig) OAuth2() *oauth2.Config {
	endpoint := google.Endpoint
	if g.TokenURL != "" {
		endpoint.TokenURL = g.TokenURL
	}
	endpoint.AuthStyle = oauth2.AuthStyleInParams
	return &oauth2.Config{
		ClientID:     g.ClientID,
		ClientSecret: g.ClientSecret,
		RedirectURL:  g.RedirectURL,
		Scopes:       g.Scopes,
		Endpoint:     endpoint,
	}
}
