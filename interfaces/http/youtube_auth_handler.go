package http

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"

	"social-publisher/domain/dto"
	"social-publisher/domain/model"
	"social-publisher/usecase"

	"github.com/gin-gonic/gin"
)

// IYouTubeAuthHandler defines the handlers that link a YouTube account.
type IYouTubeAuthHandler interface {
	GetAuthURL(ctx *gin.Context)
	Exchange(ctx *gin.Context)
	Status(ctx *gin.Context)
}

type YouTubeAuthHandler struct {
	accountUseCase usecase.IAccountUseCase
}

func NewYouTubeAuthHandler(accountUseCase usecase.IAccountUseCase) IYouTubeAuthHandler {
	return &YouTubeAuthHandler{accountUseCase: accountUseCase}
}

const stateCookie = "oauth_state"

// GetAuthURL handles GET /auth/youtube. The state is kept in a short-lived
// cookie and must come back with the code on exchange.
func (h *YouTubeAuthHandler) GetAuthURL(ctx *gin.Context) {
	state := generateRandomState()
	ctx.SetCookie(stateCookie, state, 600, "/", "", false, true)
	ctx.JSON(http.StatusOK, gin.H{"url": h.accountUseCase.AuthURL(state)})
}

// Exchange handles POST /api/youtube/exchange with the code from the callback page.
func (h *YouTubeAuthHandler) Exchange(ctx *gin.Context) {
	var req dto.ExchangeCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, fmt.Errorf("%w: invalid request body", model.ErrInvalidInput))
		return
	}
	if !validState(ctx, req.State) {
		abortWithError(ctx, fmt.Errorf("%w: oauth state mismatch", model.ErrInvalidInput))
		return
	}
	status, err := h.accountUseCase.Exchange(ctx.Request.Context(), ctx.GetString("user_id"), req.Code)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.SetCookie(stateCookie, "", -1, "/", "", false, true)
	ctx.JSON(http.StatusOK, status)
}

// Status handles GET /api/youtube/status
func (h *YouTubeAuthHandler) Status(ctx *gin.Context) {
	status, err := h.accountUseCase.Status(ctx.Request.Context(), ctx.GetString("user_id"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, status)
}

func validState(ctx *gin.Context, state string) bool {
	expected, err := ctx.Cookie(stateCookie)
	if err != nil || expected == "" || state == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(state)) == 1
}

func generateRandomState() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
