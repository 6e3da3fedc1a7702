package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/salon-booking-backend/internal/shift"
)

// Fetcher is the read side of the calendar needed by this handler.
type Fetcher interface {
	FetchShifts(ctx context.Context, date time.Time, stylistID string) ([]shift.Shift, error)
}

type Handler struct {
	fetcher  Fetcher
	location *time.Location
}

func NewHandler(fetcher Fetcher, location *time.Location) *Handler {
	return &Handler{fetcher: fetcher, location: location}
}

func (h *Handler) List(c *gin.Context) {
	var req ListShiftsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	date, err := request.ParseDate(req.Date, h.location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	shifts, err := h.fetcher.FetchShifts(c.Request.Context(), date, req.StylistID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ShiftResponse, len(shifts))
	for i, s := range shifts {
		items[i] = NewShiftResponse(s)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
