package dto

import (
	"time"

	"social-publisher/domain/model"
)

// Poll outcomes reported by the poster.
const (
	PollNoPending = "no_pending"
	PollPosted    = "posted"
	PollFailed    = "failed"
)

// PollResult describes what a single poster invocation did.
type PollResult struct {
	Outcome        string `json:"outcome"`
	Message        string `json:"message"`
	PostID         int64  `json:"post_id,omitempty"`
	YouTubeVideoID string `json:"youtube_video_id,omitempty"`
}

// Res is the envelope used for auth failures.
type Res struct {
	ResponseCode    string `json:"responseCode"`
	ResponseMessage string `json:"responseMessage"`
}

// PostStatusEvent is pushed to stream subscribers and the event topic when a
// post is finalized.
type PostStatusEvent struct {
	Type           string    `json:"type"`
	PostID         int64     `json:"post_id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Status         string    `json:"status"`
	YouTubeVideoID *string   `json:"youtube_video_id,omitempty"`
	Error          *string   `json:"error,omitempty"`
	At             time.Time `json:"at"`
}

func NewPostStatusEvent(post *model.ScheduledPost) PostStatusEvent {
	return PostStatusEvent{
		Type:           "post_status",
		PostID:         post.ID,
		UserID:         post.UserID,
		Title:          post.Title,
		Status:         string(post.Status),
		YouTubeVideoID: post.YouTubeVideoID,
		Error:          post.PostError,
		At:             post.UpdatedAt,
	}
}
