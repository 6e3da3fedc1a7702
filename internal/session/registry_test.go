package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nekogravitycat/salon-booking-backend/internal/clock"
	"github.com/nekogravitycat/salon-booking-backend/internal/draft"
	"github.com/nekogravitycat/salon-booking-backend/internal/hold"
	"github.com/nekogravitycat/salon-booking-backend/internal/slot"
)

func TestRegistry_CreateGet(t *testing.T) {
	f := newFixture()

	s := f.reg.Create("c1")
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "c1", s.CustomerID)
	assert.Equal(t, f.clk.Now(), s.CreatedAt)

	got, err := f.reg.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = f.reg.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_CloseReleasesHold(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := f.reg.Create("c1")

	require.NoError(t, s.SaveDraft(ctx, &draft.Draft{Notes: "x"}))
	_, err := s.RefreshGrid(ctx, slot.Query{Date: day})
	require.NoError(t, err)
	_, err = s.Select(at(9, 0))
	require.NoError(t, err)

	require.NoError(t, f.reg.Close(ctx, s.ID))
	assert.Equal(t, hold.StateReleased, s.HoldStatus().State)
	assert.Equal(t, 0, f.clk.PendingTimers())

	_, err = f.drafts.Get(ctx, s.ID)
	assert.ErrorIs(t, err, draft.ErrNotFound)

	_, err = f.reg.Get(context.Background(), s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.reg.Close(ctx, s.ID), ErrNotFound)
}

func TestRegistry_Sweep(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	idle := f.reg.Create("")
	active := f.reg.Create("")

	f.clk.Advance(9 * time.Minute)
	_, err := f.reg.Get(context.Background(), active.ID)
	require.NoError(t, err)

	f.clk.Advance(time.Minute)
	assert.Equal(t, 1, f.reg.Sweep(ctx, f.clk.Now()))
	assert.Equal(t, 1, f.reg.Len())

	_, err = f.reg.Get(context.Background(), idle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.reg.Get(context.Background(), active.ID)
	assert.NoError(t, err)
}

func TestRegistry_Run(t *testing.T) {
	f := newFixture()
	f.reg.Create("")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.reg.Run(ctx, time.Minute)
		close(done)
	}()

	require.Eventually(t, func() bool {
		f.clk.Advance(time.Minute)
		return f.reg.Len() == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

// touchCounter records draft touches on top of the memory store.
type touchCounter struct {
	draft.Store
	touched []string
}

func (c *touchCounter) Touch(ctx context.Context, sessionID string) error {
	c.touched = append(c.touched, sessionID)
	return c.Store.Touch(ctx, sessionID)
}

func TestRegistry_GetExtendsDraft(t *testing.T) {
	ctx := context.Background()
	drafts := &touchCounter{Store: draft.NewMemoryStore()}
	reg := NewRegistry(Config{}, clock.NewManual(at(8, 0)), &stubBuilder{}, &stubFinalizer{}, drafts, zap.NewNop())

	s := reg.Create("c1")
	_, err := reg.Get(ctx, s.ID)
	require.NoError(t, err, "a session without a draft is still found")

	require.NoError(t, s.SaveDraft(ctx, &draft.Draft{ServiceID: "cut"}))
	_, err = reg.Get(ctx, s.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{s.ID, s.ID}, drafts.touched)
	d, err := s.Draft(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cut", d.ServiceID)
}

func TestRegistry_HoldTTL(t *testing.T) {
	reg := NewRegistry(Config{HoldTTL: 5 * time.Minute}, clock.NewManual(at(8, 0)), &stubBuilder{}, &stubFinalizer{}, draft.NewMemoryStore(), zap.NewNop())
	assert.Equal(t, 5*time.Minute, reg.Create("").HoldTTL())

	f := newFixture()
	assert.Equal(t, hold.DefaultTTL, f.reg.Create("").HoldTTL())
}
