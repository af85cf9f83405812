package api

import (
	"net/http"

	handlers "campaign_ai_server/internal/api"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up the API endpoints and groups them logically.
// limiter, when non-nil, guards the endpoints that call the model.
func RegisterRoutes(router *gin.Engine, h *handlers.APIHandler, limiter gin.HandlerFunc) {
	guarded := []gin.HandlerFunc{}
	if limiter != nil {
		guarded = append(guarded, limiter)
	}

	// --- One-shot generation ---
	campaignGroup := router.Group("/campaign")
	{
		campaignGroup.POST("/generate", append(guarded, h.GenerateCampaign)...)
	}

	// --- Form sessions ---
	sessionGroup := router.Group("/sessions")
	{
		sessionGroup.POST("", h.CreateSession)
		sessionGroup.GET("/:id", h.GetSession)
		sessionGroup.PATCH("/:id", h.UpdateSession)
		sessionGroup.DELETE("/:id", h.DeleteSession)
		sessionGroup.POST("/:id/generate", append(guarded, h.GenerateForSession)...)
		sessionGroup.DELETE("/:id/result", h.ResetSession)
	}

	// --- Simple Health Check ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
