package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the salon service catalog under /services.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/services")
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
	}
}
