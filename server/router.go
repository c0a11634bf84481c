package server

import (
	"time"

	httpHandler "social-publisher/interfaces/http"
	"social-publisher/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups everything the router serves. Nil handlers leave their
// routes unregistered.
type Handlers struct {
	Poster      httpHandler.IPosterHandler
	Post        httpHandler.IPostHandler
	YouTubeAuth httpHandler.IYouTubeAuthHandler
	Health      httpHandler.IHealthHandler
	Stream      gin.HandlerFunc
}

func InitiateRouter(h Handlers, jwtSecret string, corsOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if h.Health != nil {
		router.GET("/healthz", h.Health.Healthz)
	}

	// scheduler trigger, called by cron infrastructure without a user token
	if h.Poster != nil {
		router.POST("/functions/post-scheduler", h.Poster.Run)
		router.GET("/functions/post-scheduler", h.Poster.Run)
	}

	api := router.Group("api")
	api.Use(middleware.Auth(jwtSecret))

	if h.YouTubeAuth != nil {
		router.GET("/auth/youtube", h.YouTubeAuth.GetAuthURL)
		api.POST("/youtube/exchange", h.YouTubeAuth.Exchange)
		api.GET("/youtube/status", h.YouTubeAuth.Status)
	}

	if h.Post != nil {
		posts := api.Group("/posts")
		{
			posts.POST("", h.Post.Create)
			posts.GET("", h.Post.List)
			posts.GET("/history", h.Post.History)
			posts.GET("/:id", h.Post.Get)
			posts.DELETE("/:id", h.Post.Delete)
		}
		if h.Stream != nil {
			posts.GET("/stream", h.Stream)
		}
	}

	return router
}
