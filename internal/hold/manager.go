package hold

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/salon-booking-backend/internal/clock"
	"github.com/nekogravitycat/salon-booking-backend/internal/slot"
)

type Option func(*Manager)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.ttl = d
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// Manager owns the hold state machine of one booking flow:
// idle -> held -> (finalized | released), and released -> held again.
// All methods are safe for concurrent use.
type Manager struct {
	mu    sync.Mutex
	clock clock.Clock
	ttl   time.Duration
	log   *zap.Logger

	state     State
	grid      *slot.Grid
	hold      *Hold
	countdown *Countdown
	timer     clock.Timer
	gen       uint64

	// expired is set when the last hold lapsed rather than being canceled.
	expired    bool
	finalizing bool
	// releaseDeferred records a cancel or expiry that arrived during finalization.
	releaseDeferred bool
}

func NewManager(clk clock.Clock, opts ...Option) *Manager {
	m := &Manager{
		clock: clk,
		ttl:   DefaultTTL,
		log:   zap.NewNop(),
		state: StateIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// AttachGrid makes grid the current grid. When a hold is active on the same date and stylist,
// its slot is marked held again unless the fresh grid shows it busy.
func (m *Manager) AttachGrid(grid *slot.Grid) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.grid = grid
	if m.state != StateHeld || grid == nil || !grid.SameView(m.hold.Date, m.hold.StylistID) {
		return
	}
	if s, ok := grid.Lookup(m.hold.SlotTime); ok && s.Status == slot.StatusFree {
		grid.SetStatus(m.hold.SlotTime, slot.StatusHeld)
	}
}

// Grid returns a copy of the current grid, or nil.
func (m *Manager) Grid() *slot.Grid {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grid.Clone()
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Current returns the active hold, if any.
func (m *Manager) Current() (Hold, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hold == nil {
		return Hold{}, false
	}
	return *m.hold, true
}

// Countdown returns the countdown of the active hold, or nil.
func (m *Manager) Countdown() *Countdown {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateHeld {
		return nil
	}
	return m.countdown
}

// StartHold holds the free slot starting at t. An existing hold on another slot is released first;
// holding the same slot again returns the running countdown without renewing it.
// A rejected selection leaves any existing hold untouched.
func (m *Manager) StartHold(t time.Time) (*Countdown, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.state == StateFinalized:
		return nil, ErrFlowFinalized
	case m.finalizing:
		return nil, ErrFinalizeInProgress
	case m.grid == nil:
		return nil, ErrNoGrid
	}

	if m.state == StateHeld && m.hold.SlotTime.Equal(t) && m.grid.SameView(m.hold.Date, m.hold.StylistID) {
		return m.countdown, nil
	}

	s, ok := m.grid.Lookup(t)
	if !ok {
		return nil, ErrSlotNotFound
	}
	if s.Status != slot.StatusFree {
		return nil, ErrSlotNotFree
	}

	if m.state == StateHeld {
		m.releaseLocked("replaced", slot.StatusFree)
	}

	now := m.clock.Now()
	m.gen++
	gen := m.gen
	m.hold = &Hold{
		SlotTime:    s.Time,
		Date:        m.grid.Date,
		StylistID:   m.grid.StylistID,
		Granularity: m.grid.Granularity,
		CreatedAt:   now,
		ExpiresAt:   now.Add(m.ttl),
	}
	m.grid.SetStatus(s.Time, slot.StatusHeld)
	m.countdown = newCountdown(m.clock, m.hold.ExpiresAt)
	m.timer = m.clock.AfterFunc(m.ttl, func() { m.expire(gen) })
	m.state = StateHeld
	m.releaseDeferred = false

	m.log.Info("slot held",
		zap.Time("slot", s.Time),
		zap.String("stylist_id", m.hold.StylistID),
		zap.Time("expires_at", m.hold.ExpiresAt),
	)
	return m.countdown, nil
}

// CancelHold releases the active hold and frees its slot. It is a no-op without an active hold.
// During finalization the release is applied once the submission outcome is known.
func (m *Manager) CancelHold() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateHeld {
		return
	}
	if m.finalizing {
		m.releaseDeferred = true
		return
	}
	m.releaseLocked("canceled", slot.StatusFree)
}

func (m *Manager) expire(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen || m.state != StateHeld {
		return
	}
	if m.finalizing {
		m.releaseDeferred = true
		return
	}
	m.releaseLocked("expired", slot.StatusFree)
}

// BeginFinalize marks the hold as being submitted and returns a snapshot of it.
// An expired hold is released and ErrHoldExpired is returned.
func (m *Manager) BeginFinalize() (Hold, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.state == StateFinalized:
		return Hold{}, ErrFlowFinalized
	case m.state == StateReleased && m.expired:
		return Hold{}, ErrHoldExpired
	case m.state != StateHeld:
		return Hold{}, ErrNotHeld
	case m.finalizing:
		return Hold{}, ErrFinalizeInProgress
	}
	if m.hold.Expired(m.clock.Now()) {
		m.releaseLocked("expired", slot.StatusFree)
		return Hold{}, ErrHoldExpired
	}

	m.finalizing = true
	m.releaseDeferred = false
	return *m.hold, nil
}

// CompleteFinalize ends the flow after a successful submission. The booked slot is shown busy.
func (m *Manager) CompleteFinalize(bookingID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.finalizing {
		return
	}
	m.finalizing = false
	m.releaseDeferred = false

	h := m.hold
	m.clearLocked(slot.StatusBusy)
	m.state = StateFinalized
	m.log.Info("hold finalized", zap.Time("slot", h.SlotTime), zap.String("booking_id", bookingID))
}

// AbortFinalize ends a failed submission. A conflict releases the hold and marks the slot busy.
// Otherwise the hold stays active with its original expiry, unless a cancel or expiry arrived meanwhile.
func (m *Manager) AbortFinalize(conflict bool) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.finalizing {
		return m.state
	}
	m.finalizing = false
	deferred := m.releaseDeferred
	m.releaseDeferred = false

	switch {
	case conflict:
		m.releaseLocked("conflict", slot.StatusBusy)
	case m.hold.Expired(m.clock.Now()):
		m.releaseLocked("expired", slot.StatusFree)
	case deferred:
		m.releaseLocked("canceled", slot.StatusFree)
	}
	return m.state
}

func (m *Manager) releaseLocked(reason string, status slot.Status) {
	h := m.hold
	m.clearLocked(status)
	m.state = StateReleased
	m.expired = reason == "expired"
	m.log.Info("hold released", zap.String("reason", reason), zap.Time("slot", h.SlotTime))
}

// clearLocked drops the active hold and sets its slot in the current grid to status.
func (m *Manager) clearLocked(status slot.Status) {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if m.countdown != nil {
		m.countdown.stop()
	}
	if m.grid != nil && m.grid.SameView(m.hold.Date, m.hold.StylistID) {
		if s, ok := m.grid.Lookup(m.hold.SlotTime); ok && (status == slot.StatusBusy || s.Status == slot.StatusHeld) {
			m.grid.SetStatus(m.hold.SlotTime, status)
		}
	}
	m.hold = nil
}
