package hold

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdown_RemainingRoundsUp(t *testing.T) {
	m, clk := newTestManager()
	cd, err := m.StartHold(at(9, 0))
	require.NoError(t, err)

	clk.Advance(500 * time.Millisecond)
	assert.Equal(t, 120, cd.Remaining())
	assert.Equal(t, 120, cd.Remaining(), "reading twice does not change the value")

	clk.Advance(500 * time.Millisecond)
	assert.Equal(t, 119, cd.Remaining())
}

func TestCountdown_Watch(t *testing.T) {
	m, clk := newTestManager()
	cd, err := m.StartHold(at(9, 0))
	require.NoError(t, err)

	ticks := make(chan int, 8)
	result := make(chan error, 1)
	go func() {
		result <- cd.Watch(context.Background(), func(remaining int) { ticks <- remaining })
	}()

	assert.Equal(t, 120, <-ticks)
	clk.Advance(time.Second)
	assert.Equal(t, 119, <-ticks)

	m.CancelHold()
	select {
	case err := <-result:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop after release")
	}

	var last int
	for len(ticks) > 0 {
		last = <-ticks
	}
	assert.Equal(t, 0, last)
}

func TestCountdown_WatchContextCanceled(t *testing.T) {
	m, _ := newTestManager()
	cd, err := m.StartHold(at(9, 0))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = cd.Watch(ctx, func(int) {})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateHeld, m.State())
}
