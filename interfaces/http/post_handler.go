package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"social-publisher/domain/dto"
	"social-publisher/domain/model"
	"social-publisher/usecase"

	"github.com/gin-gonic/gin"
)

type IPostHandler interface {
	Create(ctx *gin.Context)
	List(ctx *gin.Context)
	Get(ctx *gin.Context)
	Delete(ctx *gin.Context)
	History(ctx *gin.Context)
}

type PostHandler struct {
	postUseCase usecase.IPostUseCase
}

func NewPostHandler(postUseCase usecase.IPostUseCase) IPostHandler {
	return &PostHandler{postUseCase: postUseCase}
}

func (h *PostHandler) Create(ctx *gin.Context) {
	var req dto.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, fmt.Errorf("%w: invalid request body", model.ErrInvalidInput))
		return
	}
	post, err := h.postUseCase.Create(ctx.Request.Context(), ctx.GetString("user_id"), &req)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, post)
}

func (h *PostHandler) List(ctx *gin.Context) {
	posts, err := h.postUseCase.List(ctx.Request.Context(), ctx.GetString("user_id"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	if posts == nil {
		posts = []*model.ScheduledPost{}
	}
	ctx.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *PostHandler) Get(ctx *gin.Context) {
	id, ok := postID(ctx)
	if !ok {
		return
	}
	post, err := h.postUseCase.Get(ctx.Request.Context(), ctx.GetString("user_id"), id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, post)
}

func (h *PostHandler) Delete(ctx *gin.Context) {
	id, ok := postID(ctx)
	if !ok {
		return
	}
	if err := h.postUseCase.Delete(ctx.Request.Context(), ctx.GetString("user_id"), id); err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// History handles GET /api/posts/history. The optional tz query parameter is
// an IANA zone name that decides where "today" starts; it defaults to UTC.
func (h *PostHandler) History(ctx *gin.Context) {
	loc := time.UTC
	if tz := ctx.Query("tz"); tz != "" {
		var err error
		if loc, err = time.LoadLocation(tz); err != nil {
			abortWithError(ctx, fmt.Errorf("%w: unknown time zone %q", model.ErrInvalidInput, tz))
			return
		}
	}
	history, err := h.postUseCase.History(ctx.Request.Context(), ctx.GetString("user_id"), loc)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, history)
}

func postID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		abortWithError(ctx, fmt.Errorf("%w: id must be numeric", model.ErrInvalidInput))
		return 0, false
	}
	return id, true
}
