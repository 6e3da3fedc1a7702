// Package hold keeps the single soft hold of a booking flow.
// A hold is advisory: it marks a slot in the caller's grid and never reserves anything in storage.
package hold

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/apperror"
)

// DefaultTTL is how long a hold lasts before it is released automatically.
const DefaultTTL = 2 * time.Minute

var (
	ErrHoldExpired        = apperror.WithAction(http.StatusGone, "hold expired", apperror.ActionPickAnotherTime)
	ErrSlotNotFree        = apperror.WithAction(http.StatusConflict, "slot is not free", apperror.ActionPickAnotherTime)
	ErrSlotNotFound       = apperror.WithAction(http.StatusNotFound, "slot not found in current grid", apperror.ActionReload)
	ErrNotHeld            = apperror.WithAction(http.StatusConflict, "no slot is held", apperror.ActionPickAnotherTime)
	ErrNoGrid             = apperror.WithAction(http.StatusConflict, "no slot grid loaded", apperror.ActionReload)
	ErrFlowFinalized      = apperror.WithAction(http.StatusConflict, "booking flow already finalized", apperror.ActionReload)
	ErrFinalizeInProgress = apperror.WithAction(http.StatusConflict, "booking submission in progress", apperror.ActionTryAgain)
)

type State string

const (
	StateIdle      State = "idle"
	StateHeld      State = "held"
	StateFinalized State = "finalized"
	StateReleased  State = "released"
)

// Hold is the slot currently reserved for the client.
type Hold struct {
	SlotTime    time.Time
	Date        time.Time
	StylistID   string // empty for any-stylist grids
	Granularity time.Duration
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the hold has lapsed at now.
func (h Hold) Expired(now time.Time) bool {
	return !now.Before(h.ExpiresAt)
}
