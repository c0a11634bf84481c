package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"social-publisher/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestConnector_AuthCodeURL(t *testing.T) {
	c := NewConnector(&oauth2.Config{
		ClientID:    "cid",
		RedirectURL: "http://localhost:10001/auth/callback",
		Scopes:      []string{"https://www.googleapis.com/auth/youtube.upload"},
		Endpoint:    oauth2.Endpoint{AuthURL: "https://accounts.example/auth"},
	}, nil)

	u, err := url.Parse(c.AuthCodeURL("u1"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "u1", q.Get("state"))
	assert.Equal(t, "cid", q.Get("client_id"))
}

func TestConnector_Exchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "code-1", r.PostForm.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"A1","refresh_token":"R1","expires_in":3599}`))
	}))
	defer srv.Close()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := NewConnector(&oauth2.Config{
		ClientID: "cid", ClientSecret: "secret",
		Endpoint: oauth2.Endpoint{TokenURL: srv.URL, AuthStyle: oauth2.AuthStyleInParams},
	}, srv.Client())
	c.now = func() time.Time { return now }

	cred, err := c.Exchange(context.Background(), "code-1")
	require.NoError(t, err)
	assert.Equal(t, "A1", cred.AccessToken)
	assert.Equal(t, "R1", cred.RefreshToken)
	assert.Equal(t, now.Add(3599*time.Second), cred.ExpiresAt)
}

func TestConnector_Exchange_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Malformed auth code."}`))
	}))
	defer srv.Close()

	c := NewConnector(&oauth2.Config{Endpoint: oauth2.Endpoint{TokenURL: srv.URL, AuthStyle: oauth2.AuthStyleInParams}}, srv.Client())
	_, err := c.Exchange(context.Background(), "bad")
	assert.ErrorIs(t, err, model.ErrRefreshFailed)
	assert.Contains(t, err.Error(), "Malformed auth code.")
}
