package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrTimeConflict     = apperror.New(http.StatusConflict, "time slot already booked")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "booking duration must be positive")
	ErrInvalidStatus    = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
	ErrInvalidInput     = apperror.New(http.StatusBadRequest, "invalid input parameters")
	ErrAlreadyCanceled  = apperror.New(http.StatusConflict, "booking already canceled")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCanceled  Status = "canceled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCanceled
}

// Booking is an appointment of a customer with a stylist for one salon service.
// StylistID is empty for unassigned bookings.
type Booking struct {
	ID              string
	StylistID       string
	ServiceID       string
	CustomerID      string
	StartAt         time.Time
	DurationMinutes int
	Notes           string
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// End returns the exclusive end of the booking interval.
func (b *Booking) End() time.Time {
	return b.StartAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// Overlaps reports whether the booking intersects the half-open interval [start, end).
func (b *Booking) Overlaps(start, end time.Time) bool {
	return Overlaps(b.StartAt, b.End(), start, end)
}

// Overlaps is the half-open interval test: a range ending exactly when the other begins does not conflict.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}
