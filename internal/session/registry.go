package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nekogravitycat/salon-booking-backend/internal/clock"
	"github.com/nekogravitycat/salon-booking-backend/internal/draft"
	"github.com/nekogravitycat/salon-booking-backend/internal/hold"
)

// DefaultIdleTTL is how long an untouched session is kept.
const DefaultIdleTTL = 30 * time.Minute

type Config struct {
	IdleTTL time.Duration
	HoldTTL time.Duration // zero means hold.DefaultTTL
}

// Registry tracks the live booking sessions of this process.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	cfg       Config
	clock     clock.Clock
	builder   GridBuilder
	finalizer Finalizer
	drafts    draft.Store
	log       *zap.Logger
}

func NewRegistry(cfg Config, clk clock.Clock, builder GridBuilder, finalizer Finalizer, drafts draft.Store, log *zap.Logger) *Registry {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		sessions:  make(map[string]*Session),
		cfg:       cfg,
		clock:     clk,
		builder:   builder,
		finalizer: finalizer,
		drafts:    drafts,
		log:       log.Named("session"),
	}
}

func (r *Registry) Create(customerID string) *Session {
	now := r.clock.Now()
	id := uuid.NewString()
	log := r.log.With(zap.String("session_id", id))

	s := &Session{
		ID:         id,
		CustomerID: customerID,
		CreatedAt:  now,
		lastSeen:   now,
		hold:       hold.NewManager(r.clock, hold.WithTTL(r.cfg.HoldTTL), hold.WithLogger(log)),
		builder:    r.builder,
		finalizer:  r.finalizer,
		drafts:     r.drafts,
		log:        log,
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	log.Info("session opened", zap.String("customer_id", customerID))
	return s
}

// Get returns the session and marks it as seen. The session's draft expiry is extended along with it.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.touch(r.clock.Now())
	if err := r.drafts.Touch(ctx, id); err != nil && !errors.Is(err, draft.ErrNotFound) {
		s.log.Warn("draft touch failed", zap.Error(err))
	}
	return s, nil
}

// Close ends the session. The hold is released before the draft is dropped.
func (r *Registry) Close(ctx context.Context, id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	s.hold.CancelHold()
	if err := r.drafts.Delete(ctx, id); err != nil {
		s.log.Warn("draft cleanup failed", zap.Error(err))
	}
	s.log.Info("session closed")
	return nil
}

// Sweep closes sessions idle for at least the idle TTL and returns how many were closed.
func (r *Registry) Sweep(ctx context.Context, now time.Time) int {
	r.mu.RLock()
	var stale []string
	for id, s := range r.sessions {
		if !now.Before(s.LastSeen().Add(r.cfg.IdleTTL)) {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()

	closed := 0
	for _, id := range stale {
		if err := r.Close(ctx, id); err == nil {
			closed++
		}
	}
	if closed > 0 {
		r.log.Info("idle sessions swept", zap.Int("closed", closed))
	}
	return closed
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Run sweeps idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := r.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C():
			r.Sweep(ctx, now)
		}
	}
}
