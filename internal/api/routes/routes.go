package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/interviewiq/internal/api/handlers"
)

type Deps struct {
	Interview *handlers.InterviewHandler
	AI        *handlers.AIHandler
	Auth      gin.HandlerFunc
	// Health reports whether the session store is reachable. Optional.
	Health func(ctx context.Context) error
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/health", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(c.Request.Context()); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, handlers.Envelope{Success: false, Message: "Store unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, handlers.Envelope{Success: true, Message: "InterviewIQ API is running"})
	})

	// Protected routes (JWT)
	api := r.Group("/api")
	api.Use(d.Auth)

	ai := api.Group("/ai")
	ai.POST("/generate-question", d.AI.GenerateQuestion)
	ai.POST("/analyze-answer", d.AI.AnalyzeAnswer)
	ai.POST("/generate-audio", d.AI.GenerateAudio)
	ai.POST("/transcribe-answer", d.AI.TranscribeAnswer)

	api.POST("/interviews", d.Interview.Create)
	api.GET("/interviews", d.Interview.List)
	api.GET("/interviews/:id", d.Interview.Get)
	api.PUT("/interviews/:id", d.Interview.Update)
	api.DELETE("/interviews/:id", d.Interview.Delete)
}
