package model

import (
	"fmt"
	"strings"
)

// Platform is a publishing target.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTikTok    Platform = "tiktok"
	PlatformKwai      Platform = "kwai"
)

// CredentialKind describes how a platform authenticates uploads.
type CredentialKind string

const CredentialGoogleOAuth CredentialKind = "google_oauth2"

// ParsePlatform normalizes a platform name.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PlatformYouTube, PlatformInstagram, PlatformFacebook, PlatformTikTok, PlatformKwai:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedPlatform, s)
}

// PublishMetadata is what a publisher needs besides the media bytes.
type PublishMetadata struct {
	Title       string
	Description string
	Privacy     string
}
