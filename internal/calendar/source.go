// Package calendar is the booking flow's view of the salon backend:
// shift windows, existing bookings and booking creation.
package calendar

import (
	"context"
	"net/http"
	"time"

	"github.com/nekogravitycat/salon-booking-backend/internal/booking"
	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/salon-booking-backend/internal/shift"
)

var (
	// ErrDataUnavailable is transient: a collaborator fetch failed and may be retried.
	ErrDataUnavailable = apperror.WithAction(http.StatusServiceUnavailable, "calendar data unavailable", apperror.ActionTryAgain)
	// ErrSlotConflict means another booking claimed the interval; the same slot must not be retried.
	ErrSlotConflict = apperror.WithAction(http.StatusConflict, "slot is no longer available", apperror.ActionPickAnotherTime)
	// ErrValidation is malformed input that will not succeed without correction.
	ErrValidation = apperror.WithAction(http.StatusBadRequest, "invalid booking request", apperror.ActionFixInput)
)

// NewBooking carries the fields needed to persist a booking.
type NewBooking struct {
	StylistID  string // optional
	ServiceID  string
	Start      time.Time
	Duration   time.Duration
	CustomerID string // optional
	Notes      string // optional
}

// Source supplies shift windows and bookings and accepts new bookings.
type Source interface {
	FetchShifts(ctx context.Context, date time.Time, stylistID string) ([]shift.Shift, error)
	// FetchBookings returns the non-canceled bookings that intersect the date.
	FetchBookings(ctx context.Context, date time.Time, stylistID string) ([]booking.Booking, error)
	CreateBooking(ctx context.Context, nb NewBooking) (string, error)
}

// DayBounds returns [midnight, next midnight) of date in loc.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
