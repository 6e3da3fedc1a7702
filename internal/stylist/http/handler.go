package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/salon-booking-backend/internal/stylist"
)

type Handler struct {
	service stylist.Service
}

func NewHandler(service stylist.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListStylistsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	req.Normalize()

	stylists, total, err := h.service.List(c.Request.Context(), stylist.Filter{
		ActiveOnly: !req.IncludeInactive,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]StylistResponse, len(stylists))
	for i, s := range stylists {
		items[i] = NewResponse(s)
	}

	resp := response.NewPageResponse(items, req.Page, req.PageSize, total)
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	s, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(s))
}
