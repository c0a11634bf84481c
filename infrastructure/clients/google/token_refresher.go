package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"social-publisher/domain/model"
	"social-publisher/domain/repository"
	"social-publisher/infrastructure/logger"
	"social-publisher/infrastructure/utils"

	"golang.org/x/oauth2"
)

// DefaultRefreshMargin is how long before expiry a token is treated as stale.
const DefaultRefreshMargin = 5 * time.Minute

// TokenRefresher hands out access tokens, renewing them through the refresh
// grant when they are about to expire.
type TokenRefresher struct {
	oauth      *oauth2.Config
	store      repository.IOAuthCredential
	httpClient *http.Client
	margin     time.Duration
	now        func() time.Time
}

var _ repository.ITokenProvider = (*TokenRefresher)(nil)

func NewTokenRefresher(cfg *oauth2.Config, store repository.IOAuthCredential, httpClient *http.Client, margin time.Duration) *TokenRefresher {
	if margin <= 0 {
		margin = DefaultRefreshMargin
	}
	return &TokenRefresher{oauth: cfg, store: store, httpClient: httpClient, margin: margin, now: utils.GetCurrentTime}
}

// AccessToken returns the stored token while it is valid and otherwise
// refreshes and persists a new one. The refresh token is never rewritten.
func (r *TokenRefresher) AccessToken(ctx context.Context, cred *model.OAuthCredential) (string, error) {
	now := r.now()
	if cred.ValidAt(now, r.margin) {
		return cred.AccessToken, nil
	}
	if cred.RefreshToken == "" {
		return "", fmt.Errorf("%w: no refresh token stored for user %s", model.ErrRefreshFailed, cred.UserID)
	}

	if r.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	}
	// an expired seed token forces the refresh grant
	tok, err := r.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken}).Token()
	if err != nil {
		return "", refreshError(err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: token response without access_token", model.ErrRefreshFailed)
	}

	expiresAt := expiryFrom(tok, now)
	if err := r.store.UpdateAccessToken(ctx, cred.UserID, tok.AccessToken, expiresAt); err != nil {
		return "", fmt.Errorf("%w: store refreshed token: %v", model.ErrPersistenceFailed, err)
	}
	cred.AccessToken = tok.AccessToken
	cred.ExpiresAt = expiresAt

	logger.GetLogger().WithField("user_id", cred.UserID).WithField("expires_at", expiresAt).Info("Access token refreshed")
	return tok.AccessToken, nil
}

func refreshError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		status := 0
		if re.Response != nil {
			status = re.Response.StatusCode
		}
		detail := re.ErrorDescription
		if detail == "" {
			detail = re.ErrorCode
		}
		if detail == "" {
			detail = string(re.Body)
		}
		return fmt.Errorf("%w: status %d: %s", model.ErrRefreshFailed, status, detail)
	}
	return fmt.Errorf("%w: %v", model.ErrRefreshFailed, err)
}

// expiryFrom computes now + expires_in, falling back to the expiry oauth2 derived.
func expiryFrom(tok *oauth2.Token, now time.Time) time.Time {
	var secs int64
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		secs = int64(v)
	case json.Number:
		secs, _ = v.Int64()
	case string:
		secs, _ = strconv.ParseInt(v, 10, 64)
	}
	if secs > 0 {
		return now.Add(time.Duration(secs) * time.Second)
	}
	if !tok.Expiry.IsZero() {
		return tok.Expiry
	}
	return now.Add(time.Hour)
}
