package http

import (
	"time"

	"github.com/nekogravitycat/salon-booking-backend/internal/draft"
	"github.com/nekogravitycat/salon-booking-backend/internal/session"
	"github.com/nekogravitycat/salon-booking-backend/internal/slot"
)

type SessionResponse struct {
	ID             string    `json:"id"`
	CustomerID     string    `json:"customer_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	HoldTTLSeconds int       `json:"hold_ttl_seconds"`
}

type GetSlotsRequest struct {
	Date        string `form:"date" binding:"required"`
	StylistID   string `form:"stylist_id" binding:"omitempty,uuid"`
	Granularity int    `form:"granularity" binding:"omitempty,min=1,max=1440"` // minutes
}

type SlotResponse struct {
	Time   time.Time `json:"time"`
	Status string    `json:"status"`
}

type GridResponse struct {
	Date               string         `json:"date"`
	StylistID          string         `json:"stylist_id,omitempty"`
	GranularityMinutes int            `json:"granularity_minutes"`
	Slots              []SlotResponse `json:"slots"`
}

func NewGridResponse(g *slot.Grid) GridResponse {
	slots := make([]SlotResponse, len(g.Slots))
	for i, s := range g.Slots {
		slots[i] = SlotResponse{Time: s.Time, Status: string(s.Status)}
	}
	return GridResponse{
		Date:               g.Date.Format("2006-01-02"),
		StylistID:          g.StylistID,
		GranularityMinutes: int(g.Granularity / time.Minute),
		Slots:              slots,
	}
}

type HoldRequest struct {
	Time time.Time `json:"time" binding:"required"`
}

type HoldResponse struct {
	State            string     `json:"state"`
	SlotTime         *time.Time `json:"slot_time,omitempty"`
	StylistID        string     `json:"stylist_id,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	RemainingSeconds int        `json:"remaining_seconds"`
}

func NewHoldResponse(st session.HoldStatus) HoldResponse {
	resp := HoldResponse{State: string(st.State), RemainingSeconds: st.Remaining}
	if st.Hold != nil {
		resp.SlotTime = &st.Hold.SlotTime
		resp.StylistID = st.Hold.StylistID
		resp.ExpiresAt = &st.Hold.ExpiresAt
	}
	return resp
}

type DraftRequest struct {
	ServiceID string `json:"service_id" binding:"omitempty,uuid"`
	StylistID string `json:"stylist_id" binding:"omitempty,uuid"`
	Notes     string `json:"notes" binding:"max=500"`
}

type DraftResponse struct {
	ServiceID string    `json:"service_id,omitempty"`
	StylistID string    `json:"stylist_id,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewDraftResponse(d *draft.Draft) DraftResponse {
	return DraftResponse{
		ServiceID: d.ServiceID,
		StylistID: d.StylistID,
		Notes:     d.Notes,
		UpdatedAt: d.UpdatedAt,
	}
}

type FinalizeRequest struct {
	ServiceID string `json:"service_id" binding:"omitempty,uuid"`
	Notes     string `json:"notes" binding:"max=500"`
}

type FinalizeResponse struct {
	BookingID string `json:"booking_id"`
}
