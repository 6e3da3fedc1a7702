package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/salon-booking-backend/internal/auth"
	"github.com/nekogravitycat/salon-booking-backend/internal/checkout"
	"github.com/nekogravitycat/salon-booking-backend/internal/clock"
	"github.com/nekogravitycat/salon-booking-backend/internal/draft"
	"github.com/nekogravitycat/salon-booking-backend/internal/hold"
	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/salon-booking-backend/internal/session"
	"github.com/nekogravitycat/salon-booking-backend/internal/slot"
)

// StylistChecker rejects unknown or inactive stylists.
type StylistChecker interface {
	EnsureBookable(ctx context.Context, id string) error
}

type Handler struct {
	registry *session.Registry
	stylists StylistChecker
	clock    clock.Clock
	location *time.Location
}

func NewHandler(registry *session.Registry, stylists StylistChecker, clk clock.Clock, location *time.Location) *Handler {
	return &Handler{registry: registry, stylists: stylists, clock: clk, location: location}
}

// session loads the session named in the path and checks that the caller may use it.
func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return nil, false
	}

	s, err := h.registry.Get(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	if !s.Owned(auth.CustomerID(c)) {
		response.Error(c, session.ErrNotYourSession)
		return nil, false
	}
	return s, true
}

func (h *Handler) Create(c *gin.Context) {
	s := h.registry.Create(auth.CustomerID(c))

	c.JSON(http.StatusCreated, SessionResponse{
		ID:             s.ID,
		CustomerID:     s.CustomerID,
		CreatedAt:      s.CreatedAt,
		HoldTTLSeconds: int(s.HoldTTL() / time.Second),
	})
}

func (h *Handler) Close(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	if err := h.registry.Close(c.Request.Context(), s.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetSlots(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req GetSlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	date, err := request.ParseDate(req.Date, h.location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	if req.StylistID != "" {
		if err := h.stylists.EnsureBookable(c.Request.Context(), req.StylistID); err != nil {
			response.Error(c, err)
			return
		}
	}

	grid, err := s.RefreshGrid(c.Request.Context(), slot.Query{
		Date:        date,
		StylistID:   req.StylistID,
		Granularity: time.Duration(req.Granularity) * time.Minute,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewGridResponse(grid))
}

func (h *Handler) StartHold(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req HoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if _, err := s.Select(req.Time); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewHoldResponse(s.HoldStatus()))
}

func (h *Handler) GetHold(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, NewHoldResponse(s.HoldStatus()))
}

func (h *Handler) CancelHold(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Cancel()
	c.Status(http.StatusNoContent)
}

// StreamHold pushes the remaining seconds of the active hold as server-sent events, once per second.
func (h *Handler) StreamHold(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	cd := s.Countdown()
	if cd == nil {
		response.Error(c, hold.ErrNotHeld)
		return
	}

	ctx := c.Request.Context()
	ticks := make(chan int)
	go func() {
		defer close(ticks)
		_ = cd.Watch(ctx, func(remaining int) {
			select {
			case ticks <- remaining:
			case <-ctx.Done():
			}
		})
	}()

	c.Header("Cache-Control", "no-cache")
	for remaining := range ticks {
		c.SSEvent("countdown", gin.H{"remaining_seconds": remaining})
		c.Writer.Flush()
		if remaining == 0 {
			return
		}
	}
}

func (h *Handler) SaveDraft(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	d := &draft.Draft{
		ServiceID: req.ServiceID,
		StylistID: req.StylistID,
		Notes:     req.Notes,
		UpdatedAt: h.clock.Now(),
	}
	if err := s.SaveDraft(c.Request.Context(), d); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewDraftResponse(d))
}

func (h *Handler) GetDraft(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	d, err := s.Draft(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewDraftResponse(d))
}

func (h *Handler) Finalize(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	id, err := s.Finalize(c.Request.Context(), checkout.Request{ServiceID: req.ServiceID, Notes: req.Notes})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, FinalizeResponse{BookingID: id})
}
