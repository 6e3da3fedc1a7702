package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, optionalAuth gin.HandlerFunc) {
	group := g.Group("/sessions")

	// === Anonymous or Authenticated Routes ===
	group.Use(optionalAuth)
	{
		group.POST("", h.Create)
		group.DELETE("/:id", h.Close)

		group.GET("/:id/slots", h.GetSlots)

		group.POST("/:id/hold", h.StartHold)
		group.GET("/:id/hold", h.GetHold)
		group.DELETE("/:id/hold", h.CancelHold)
		group.GET("/:id/hold/stream", h.StreamHold)

		group.PUT("/:id/draft", h.SaveDraft)
		group.GET("/:id/draft", h.GetDraft)

		group.POST("/:id/finalize", h.Finalize)
	}
}
