package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nekogravitycat/salon-booking-backend/internal/calendar"
	"github.com/nekogravitycat/salon-booking-backend/internal/checkout"
	"github.com/nekogravitycat/salon-booking-backend/internal/clock"
	"github.com/nekogravitycat/salon-booking-backend/internal/draft"
	"github.com/nekogravitycat/salon-booking-backend/internal/hold"
	"github.com/nekogravitycat/salon-booking-backend/internal/slot"
)

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

type stubBuilder struct {
	err   error
	calls int
}

func (b *stubBuilder) Build(ctx context.Context, q slot.Query) (*slot.Grid, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	g := &slot.Grid{Date: q.Date, StylistID: q.StylistID, Granularity: 30 * time.Minute}
	for t := at(9, 0); t.Before(at(12, 0)); t = t.Add(30 * time.Minute) {
		g.Slots = append(g.Slots, slot.Slot{Time: t, Status: slot.StatusFree})
	}
	return g, nil
}

type stubFinalizer struct {
	got checkout.Request
	err error
}

func (f *stubFinalizer) Finalize(ctx context.Context, mgr *hold.Manager, req checkout.Request) (string, error) {
	f.got = req
	if _, err := mgr.BeginFinalize(); err != nil {
		return "", err
	}
	if f.err != nil {
		mgr.AbortFinalize(errors.Is(f.err, calendar.ErrSlotConflict))
		return "", f.err
	}
	mgr.CompleteFinalize("bk-1")
	return "bk-1", nil
}

type fixture struct {
	clk     *clock.Manual
	builder *stubBuilder
	fin     *stubFinalizer
	drafts  draft.Store
	reg     *Registry
}

func newFixture() *fixture {
	f := &fixture{
		clk:     clock.NewManual(at(8, 0)),
		builder: &stubBuilder{},
		fin:     &stubFinalizer{},
		drafts:  draft.NewMemoryStore(),
	}
	f.reg = NewRegistry(Config{IdleTTL: 10 * time.Minute}, f.clk, f.builder, f.fin, f.drafts, zap.NewNop())
	return f
}

func TestSession_SelectAndStatus(t *testing.T) {
	f := newFixture()
	s := f.reg.Create("c1")
	ctx := context.Background()

	_, err := s.Select(at(9, 0))
	assert.ErrorIs(t, err, hold.ErrNoGrid)

	grid, err := s.RefreshGrid(ctx, slot.Query{Date: day, StylistID: "s1"})
	require.NoError(t, err)
	assert.Len(t, grid.Slots, 6)

	cd, err := s.Select(at(10, 30))
	require.NoError(t, err)
	assert.Equal(t, 120, cd.Remaining())

	_, err = s.Select(at(11, 0))
	require.NoError(t, err)

	st := s.HoldStatus()
	assert.Equal(t, hold.StateHeld, st.State)
	require.NotNil(t, st.Hold)
	assert.Equal(t, at(11, 0), st.Hold.SlotTime)
	assert.Equal(t, 120, st.Remaining)

	g := s.Grid()
	assert.Equal(t, 1, g.Count(slot.StatusHeld))
	held, _ := g.Lookup(at(11, 0))
	assert.Equal(t, slot.StatusHeld, held.Status)

	s.Cancel()
	st = s.HoldStatus()
	assert.Equal(t, hold.StateReleased, st.State)
	assert.Nil(t, st.Hold)
	assert.Equal(t, 0, st.Remaining)
}

func TestSession_RefreshKeepsHold(t *testing.T) {
	f := newFixture()
	s := f.reg.Create("")
	ctx := context.Background()

	_, err := s.RefreshGrid(ctx, slot.Query{Date: day})
	require.NoError(t, err)
	_, err = s.Select(at(9, 30))
	require.NoError(t, err)

	grid, err := s.RefreshGrid(ctx, slot.Query{Date: day})
	require.NoError(t, err)
	got, _ := grid.Lookup(at(9, 30))
	assert.Equal(t, slot.StatusHeld, got.Status)

	f.builder.err = calendar.ErrDataUnavailable
	_, err = s.RefreshGrid(ctx, slot.Query{Date: day})
	assert.ErrorIs(t, err, calendar.ErrDataUnavailable)
	assert.NotNil(t, s.Grid(), "previous grid is kept on failure")
}

func TestSession_FinalizeUsesDraft(t *testing.T) {
	f := newFixture()
	s := f.reg.Create("c1")
	ctx := context.Background()

	require.NoError(t, s.SaveDraft(ctx, &draft.Draft{ServiceID: "cut", Notes: "from draft"}))
	_, err := s.RefreshGrid(ctx, slot.Query{Date: day})
	require.NoError(t, err)
	_, err = s.Select(at(9, 0))
	require.NoError(t, err)

	id, err := s.Finalize(ctx, checkout.Request{Notes: "typed"})
	require.NoError(t, err)
	assert.Equal(t, "bk-1", id)
	assert.Equal(t, checkout.Request{CustomerID: "c1", ServiceID: "cut", Notes: "typed"}, f.fin.got)
	assert.Equal(t, hold.StateFinalized, s.HoldStatus().State)

	_, err = s.Draft(ctx)
	assert.ErrorIs(t, err, draft.ErrNotFound, "draft is dropped after booking")
}

func TestSession_FinalizeFailureKeepsDraft(t *testing.T) {
	f := newFixture()
	s := f.reg.Create("c1")
	ctx := context.Background()
	f.fin.err = calendar.ErrDataUnavailable

	require.NoError(t, s.SaveDraft(ctx, &draft.Draft{ServiceID: "cut"}))
	_, err := s.RefreshGrid(ctx, slot.Query{Date: day})
	require.NoError(t, err)
	_, err = s.Select(at(9, 0))
	require.NoError(t, err)

	_, err = s.Finalize(ctx, checkout.Request{})
	assert.ErrorIs(t, err, calendar.ErrDataUnavailable)
	assert.Equal(t, hold.StateHeld, s.HoldStatus().State)

	d, err := s.Draft(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cut", d.ServiceID)
}

func TestSession_Owned(t *testing.T) {
	f := newFixture()
	assert.True(t, f.reg.Create("").Owned("anyone"))
	assert.True(t, f.reg.Create("c1").Owned("c1"))
	assert.False(t, f.reg.Create("c1").Owned("c2"))
}
