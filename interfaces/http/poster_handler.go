package http

import (
	"context"
	"net/http"
	"time"

	"social-publisher/domain/dto"
	"social-publisher/infrastructure/logger"
	"social-publisher/usecase"

	"github.com/gin-gonic/gin"
)

type IPosterHandler interface {
	Run(ctx *gin.Context)
}

type PosterHandler struct {
	posterUseCase usecase.IPosterUseCase
	runTimeout    time.Duration
}

func NewPosterHandler(posterUseCase usecase.IPosterUseCase, runTimeout time.Duration) IPosterHandler {
	return &PosterHandler{posterUseCase: posterUseCase, runTimeout: runTimeout}
}

// Run handles the scheduler trigger. Callers are trusted infrastructure.
// The poll outlives the request: a trigger that disconnects or times out must
// not abort an upload already in flight, so only runTimeout bounds it.
func (h *PosterHandler) Run(ctx *gin.Context) {
	runCtx := context.WithoutCancel(ctx.Request.Context())
	if h.runTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, h.runTimeout)
		defer cancel()
	}

	res, err := h.posterUseCase.PollOnce(runCtx)
	if err != nil {
		lg := logger.GetLogger().WithField("error", err.Error())
		if res != nil {
			lg = lg.WithField("post_id", res.PostID)
		}
		lg.Error("Poster run failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	body := gin.H{"message": res.Message}
	if res.Outcome == dto.PollPosted {
		body["post_id"] = res.PostID
		body["youtube_video_id"] = res.YouTubeVideoID
	}
	ctx.JSON(http.StatusOK, body)
}
