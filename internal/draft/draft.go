// Package draft keeps the values a customer has typed into a booking flow, keyed by session.
package draft

import (
	"context"
	"net/http"
	"time"

	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/apperror"
)

var ErrNotFound = apperror.New(http.StatusNotFound, "draft not found")

// Draft holds form values that survive page reloads within one session.
type Draft struct {
	ServiceID string    `json:"service_id,omitempty"`
	StylistID string    `json:"stylist_id,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Store interface {
	Get(ctx context.Context, sessionID string) (*Draft, error)
	Save(ctx context.Context, sessionID string, d *Draft) error
	Delete(ctx context.Context, sessionID string) error
	// Touch extends the draft's lifetime as if it had just been saved. A missing draft is ErrNotFound.
	Touch(ctx context.Context, sessionID string) error
}
