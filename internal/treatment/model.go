package treatment

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound = apperror.WithAction(http.StatusNotFound, "service not found", apperror.ActionFixInput)
)

// Treatment is a bookable salon service (e.g., Haircut, Color).
type Treatment struct {
	ID              string
	Name            string
	Description     string
	DurationMinutes int
	PriceCents      int64
	Active          bool
	CreatedAt       time.Time
}

// Duration returns the appointment length, zero if unknown.
func (t *Treatment) Duration() time.Duration {
	if t.DurationMinutes <= 0 {
		return 0
	}
	return time.Duration(t.DurationMinutes) * time.Minute
}

// Filter defines parameters for listing treatments.
type Filter struct {
	ActiveOnly bool
	Page       int
	PageSize   int
}
