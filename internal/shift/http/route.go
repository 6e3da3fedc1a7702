package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/shifts")
	{
		group.GET("", h.List) // Day shifts, public
	}
}
