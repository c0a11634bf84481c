package model

import "time"

// PostStatus is the lifecycle state of a ScheduledPost as stored in the videos table.
type PostStatus string

const (
	StatusScheduled  PostStatus = "agendado"
	StatusProcessing PostStatus = "processando"
	StatusPosted     PostStatus = "postado"
	StatusFailed     PostStatus = "falhou"
)

// Terminal reports whether the status ends the post lifecycle.
func (s PostStatus) Terminal() bool {
	return s == StatusPosted || s == StatusFailed
}

// Valid reports whether s is one of the known statuses.
func (s PostStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusProcessing, StatusPosted, StatusFailed:
		return true
	}
	return false
}

// StatusFromLegacy maps the old is_posted flag onto the status column.
func StatusFromLegacy(isPosted bool) PostStatus {
	if isPosted {
		return StatusPosted
	}
	return StatusScheduled
}

// PlatformTargets holds the per-platform flags chosen at scheduling time.
type PlatformTargets struct {
	Instagram bool `json:"instagram"`
	Facebook  bool `json:"facebook"`
	YouTube   bool `json:"youtube"`
	TikTok    bool `json:"tiktok"`
	Kwai      bool `json:"kwai"`
}

// Platforms lists the targeted platforms in a stable order.
func (t PlatformTargets) Platforms() []Platform {
	var out []Platform
	if t.Instagram {
		out = append(out, PlatformInstagram)
	}
	if t.Facebook {
		out = append(out, PlatformFacebook)
	}
	if t.YouTube {
		out = append(out, PlatformYouTube)
	}
	if t.TikTok {
		out = append(out, PlatformTikTok)
	}
	if t.Kwai {
		out = append(out, PlatformKwai)
	}
	return out
}

// ScheduledPost is a video waiting to be published at ScheduledAt.
type ScheduledPost struct {
	ID             int64           `json:"id"`
	UserID         string          `json:"user_id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	VideoURL       string          `json:"video_url"`
	ScheduledAt    time.Time       `json:"scheduled_at"`
	Status         PostStatus      `json:"status"`
	YouTubeVideoID *string         `json:"youtube_video_id,omitempty"`
	PostError      *string         `json:"post_error,omitempty"`
	Targets        PlatformTargets `json:"targets"`
	ClaimToken     *string         `json:"-"`
	ClaimedAt      *time.Time      `json:"claimed_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Due reports whether the post is eligible for publishing at now.
func (p *ScheduledPost) Due(now time.Time) bool {
	return p.Status == StatusScheduled && !p.ScheduledAt.After(now)
}
