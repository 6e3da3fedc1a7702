package http

import (
	"github.com/nekogravitycat/salon-booking-backend/internal/shift"
)

// ListShiftsRequest defines query parameters for listing a day's shifts.
type ListShiftsRequest struct {
	Date      string `form:"date" binding:"required"`
	StylistID string `form:"stylist_id" binding:"omitempty,uuid"`
}

type ShiftResponse struct {
	ID              string `json:"id"`
	StylistID       string `json:"stylist_id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

func NewShiftResponse(s shift.Shift) ShiftResponse {
	return ShiftResponse{
		ID:              s.ID,
		StylistID:       s.StylistID,
		Date:            s.Date.Format("2006-01-02"),
		StartTime:       s.StartTime,
		DurationMinutes: s.DurationMinutes,
	}
}
