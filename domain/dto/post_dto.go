package dto

import (
	"time"

	"social-publisher/domain/model"
)

// TargetsRequest mirrors the platform checkboxes of the scheduling form.
type TargetsRequest struct {
	Instagram bool `json:"instagram"`
	Facebook  bool `json:"facebook"`
	YouTube   bool `json:"youtube"`
	TikTok    bool `json:"tiktok"`
	Kwai      bool `json:"kwai"`
}

// CreatePostRequest schedules an already hosted video.
type CreatePostRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	VideoURL    string         `json:"video_url"`
	ScheduledAt time.Time      `json:"scheduled_at"`
	Targets     TargetsRequest `json:"targets"`
}

// ExchangeCodeRequest carries the OAuth authorization code and the state
// echoed back by the consent screen.
type ExchangeCodeRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// AccountStatus reports whether a YouTube account is connected.
type AccountStatus struct {
	Connected bool       `json:"connected"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// PostHistoryDay holds the posts scheduled on one calendar day.
type PostHistoryDay struct {
	Date  string                 `json:"date"`
	Posts []*model.ScheduledPost `json:"posts"`
}

// PostHistory lists past posts grouped by day, newest day first.
type PostHistory struct {
	Days []PostHistoryDay `json:"days"`
}
