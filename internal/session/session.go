// Package session ties one customer's booking flow together: its grid, its hold and its draft.
package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/salon-booking-backend/internal/checkout"
	"github.com/nekogravitycat/salon-booking-backend/internal/draft"
	"github.com/nekogravitycat/salon-booking-backend/internal/hold"
	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/salon-booking-backend/internal/slot"
)

var (
	ErrNotFound       = apperror.WithAction(http.StatusNotFound, "session not found", apperror.ActionReload)
	ErrNotYourSession = apperror.New(http.StatusForbidden, "session belongs to another customer")
)

// GridBuilder builds slot grids.
type GridBuilder interface {
	Build(ctx context.Context, q slot.Query) (*slot.Grid, error)
}

// Finalizer submits a held slot as a booking.
type Finalizer interface {
	Finalize(ctx context.Context, mgr *hold.Manager, req checkout.Request) (string, error)
}

// HoldStatus is a point-in-time view of the session hold.
type HoldStatus struct {
	State     hold.State
	Hold      *hold.Hold
	Remaining int // whole seconds
}

type Session struct {
	ID         string
	CustomerID string // empty for anonymous flows
	CreatedAt  time.Time

	mu       sync.Mutex
	lastSeen time.Time

	hold      *hold.Manager
	builder   GridBuilder
	finalizer Finalizer
	drafts    draft.Store
	log       *zap.Logger
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.After(s.lastSeen) {
		s.lastSeen = now
	}
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Owned reports whether customerID may act on the session. Anonymous sessions are open to anyone holding the ID.
func (s *Session) Owned(customerID string) bool {
	return s.CustomerID == "" || s.CustomerID == customerID
}

// RefreshGrid builds a fresh grid for q and makes it current. On failure the previous grid is kept.
func (s *Session) RefreshGrid(ctx context.Context, q slot.Query) (*slot.Grid, error) {
	grid, err := s.builder.Build(ctx, q)
	if err != nil {
		return nil, err
	}
	s.hold.AttachGrid(grid)
	return s.hold.Grid(), nil
}

// Grid returns a copy of the current grid, or nil before the first refresh.
func (s *Session) Grid() *slot.Grid {
	return s.hold.Grid()
}

func (s *Session) Select(t time.Time) (*hold.Countdown, error) {
	return s.hold.StartHold(t)
}

func (s *Session) Cancel() {
	s.hold.CancelHold()
}

func (s *Session) HoldStatus() HoldStatus {
	st := HoldStatus{State: s.hold.State()}
	if h, ok := s.hold.Current(); ok {
		st.Hold = &h
	}
	if cd := s.hold.Countdown(); cd != nil {
		st.Remaining = cd.Remaining()
	}
	return st
}

// HoldTTL is how long a hold in this session lasts.
func (s *Session) HoldTTL() time.Duration {
	return s.hold.TTL()
}

// Countdown returns the active hold's countdown, or nil.
func (s *Session) Countdown() *hold.Countdown {
	return s.hold.Countdown()
}

// Finalize books the held slot for the session's customer. Missing service and notes are taken from the draft.
func (s *Session) Finalize(ctx context.Context, req checkout.Request) (string, error) {
	req.CustomerID = s.CustomerID
	if req.ServiceID == "" || req.Notes == "" {
		d, err := s.drafts.Get(ctx, s.ID)
		switch {
		case err == nil:
			if req.ServiceID == "" {
				req.ServiceID = d.ServiceID
			}
			if req.Notes == "" {
				req.Notes = d.Notes
			}
		case !errors.Is(err, draft.ErrNotFound):
			s.log.Warn("draft lookup failed", zap.Error(err))
		}
	}

	id, err := s.finalizer.Finalize(ctx, s.hold, req)
	if err != nil {
		return "", err
	}

	if err := s.drafts.Delete(ctx, s.ID); err != nil {
		s.log.Warn("draft cleanup failed", zap.Error(err))
	}
	return id, nil
}

func (s *Session) Draft(ctx context.Context) (*draft.Draft, error) {
	return s.drafts.Get(ctx, s.ID)
}

func (s *Session) SaveDraft(ctx context.Context, d *draft.Draft) error {
	return s.drafts.Save(ctx, s.ID, d)
}
