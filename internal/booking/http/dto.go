package http

import (
	"time"

	"github.com/nekogravitycat/salon-booking-backend/internal/booking"
)

type BookingResponse struct {
	ID              string    `json:"id"`
	StylistID       string    `json:"stylist_id,omitempty"`
	ServiceID       string    `json:"service_id"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		StylistID:       b.StylistID,
		ServiceID:       b.ServiceID,
		StartAt:         b.StartAt,
		EndAt:           b.End(),
		DurationMinutes: b.DurationMinutes,
		Notes:           b.Notes,
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
