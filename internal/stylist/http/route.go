package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers stylist catalog routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/stylists")
	{
		group.GET("", h.List)    // List stylists
		group.GET("/:id", h.Get) // Get stylist details
	}
}
