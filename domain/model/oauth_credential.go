package model

import "time"

// OAuthCredential stores the YouTube OAuth tokens of one user.
type OAuthCredential struct {
	UserID       string    `json:"user_id"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidAt reports whether the access token can still be used at now, keeping
// margin in reserve before the stored expiry.
func (c *OAuthCredential) ValidAt(now time.Time, margin time.Duration) bool {
	if c.AccessToken == "" {
		return false
	}
	return now.Before(c.ExpiresAt.Add(-margin))
}
