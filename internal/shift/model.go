package shift

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/apperror"
)

var (
	ErrInvalidStartTime = apperror.New(http.StatusBadRequest, "shift start time must be HH:MM or HH:MM:SS")
	ErrInvalidDuration  = apperror.New(http.StatusBadRequest, "shift duration must be positive")
)

// Shift is a stylist's working window on one calendar date.
type Shift struct {
	ID              string
	StylistID       string
	Date            time.Time // Calendar date, only Y/M/D are meaningful
	StartTime       string    // Format: HH:MM or HH:MM:SS, salon wall clock
	DurationMinutes int
}

// Window returns the half-open [start, end) instants of the shift in the salon location.
func (s Shift) Window(loc *time.Location) (time.Time, time.Time, error) {
	clock, err := ParseClock(s.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if s.DurationMinutes <= 0 {
		return time.Time{}, time.Time{}, ErrInvalidDuration
	}

	y, m, d := s.Date.Date()
	start := time.Date(y, m, d, clock.Hour(), clock.Minute(), clock.Second(), 0, loc)
	return start, start.Add(time.Duration(s.DurationMinutes) * time.Minute), nil
}

// ParseClock parses a wall-clock time in HH:MM:SS or HH:MM format.
func ParseClock(v string) (time.Time, error) {
	t, err := time.Parse("15:04:05", v)
	if err != nil {
		// Fallback: try short format if long format fails
		t, err = time.Parse("15:04", v)
	}
	if err != nil {
		return time.Time{}, apperror.Because(ErrInvalidStartTime, fmt.Errorf("parse %q: %w", v, err))
	}
	return t, nil
}
