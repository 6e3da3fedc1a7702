package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nekogravitycat/salon-booking-backend/internal/booking"
	"github.com/nekogravitycat/salon-booking-backend/internal/shift"
)

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

type fakeShiftRepo struct {
	shifts []shift.Shift
	err    error
	calls  int
}

func (f *fakeShiftRepo) ListByDate(ctx context.Context, date time.Time, stylistID string) ([]shift.Shift, error) {
	f.calls++
	return f.shifts, f.err
}

type fakeBookingRepo struct {
	rows       []*booking.Booking
	listErr    error
	createErr  error
	overlap    bool
	created    *booking.Booking
	listFrom   time.Time
	listTo     time.Time
	overlapErr error
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *booking.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	b.ID = "new-id"
	f.created = b
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	return nil, booking.ErrNotFound
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id string, status booking.Status) error {
	return nil
}

func (f *fakeBookingRepo) ListOverlapping(ctx context.Context, from, to time.Time, stylistID string) ([]*booking.Booking, error) {
	f.listFrom, f.listTo = from, to
	return f.rows, f.listErr
}

func (f *fakeBookingRepo) HasOverlap(ctx context.Context, stylistID string, start, end time.Time, excludeBookingID string) (bool, error) {
	return f.overlap, f.overlapErr
}

func newTestBackend(shifts *fakeShiftRepo, bookings *fakeBookingRepo, cfg BreakerConfig) *Backend {
	return NewBackend(shifts, bookings, time.UTC, cfg, zap.NewNop())
}

func validBooking() NewBooking {
	return NewBooking{
		StylistID: "s1",
		ServiceID: "svc",
		Start:     day.Add(10 * time.Hour),
		Duration:  30 * time.Minute,
	}
}

func TestBackend_FetchBookingsSkipsCanceled(t *testing.T) {
	repo := &fakeBookingRepo{rows: []*booking.Booking{
		{ID: "a", Status: booking.StatusConfirmed},
		{ID: "b", Status: booking.StatusCanceled},
		{ID: "c", Status: booking.StatusPending},
	}}
	b := newTestBackend(&fakeShiftRepo{}, repo, DefaultBreakerConfig())

	got, err := b.FetchBookings(context.Background(), day, "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
	assert.Equal(t, day, repo.listFrom)
	assert.Equal(t, day.AddDate(0, 0, 1), repo.listTo)
}

func TestBackend_FetchFailureIsUnavailable(t *testing.T) {
	shifts := &fakeShiftRepo{err: errors.New("connection refused")}
	b := newTestBackend(shifts, &fakeBookingRepo{listErr: errors.New("timeout")}, DefaultBreakerConfig())

	_, err := b.FetchShifts(context.Background(), day, "")
	assert.ErrorIs(t, err, ErrDataUnavailable)

	_, err = b.FetchBookings(context.Background(), day, "")
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestBackend_BreakerOpens(t *testing.T) {
	shifts := &fakeShiftRepo{err: errors.New("connection refused")}
	b := newTestBackend(shifts, &fakeBookingRepo{}, BreakerConfig{FailureThreshold: 2, Timeout: time.Hour, MaxRequests: 1})

	for i := 0; i < 2; i++ {
		_, err := b.FetchShifts(context.Background(), day, "")
		require.ErrorIs(t, err, ErrDataUnavailable)
	}
	require.Equal(t, 2, shifts.calls)

	// Open: the repository is no longer called.
	shifts.err = nil
	_, err := b.FetchShifts(context.Background(), day, "")
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.Equal(t, 2, shifts.calls)
}

func TestBackend_ClientErrorsDoNotTripBreaker(t *testing.T) {
	repo := &fakeBookingRepo{createErr: booking.ErrTimeConflict}
	shifts := &fakeShiftRepo{}
	b := newTestBackend(shifts, repo, BreakerConfig{FailureThreshold: 1, Timeout: time.Hour})

	for i := 0; i < 3; i++ {
		_, err := b.CreateBooking(context.Background(), validBooking())
		require.ErrorIs(t, err, ErrSlotConflict)
	}

	_, err := b.FetchShifts(context.Background(), day, "")
	assert.NoError(t, err)
}

func TestBackend_CreateBooking(t *testing.T) {
	repo := &fakeBookingRepo{}
	b := newTestBackend(&fakeShiftRepo{}, repo, DefaultBreakerConfig())

	nb := validBooking()
	nb.CustomerID = "cust"
	nb.Notes = "hi"
	id, err := b.CreateBooking(context.Background(), nb)
	require.NoError(t, err)
	assert.Equal(t, "new-id", id)

	require.NotNil(t, repo.created)
	assert.Equal(t, booking.StatusPending, repo.created.Status)
	assert.Equal(t, 30, repo.created.DurationMinutes)
	assert.Equal(t, "cust", repo.created.CustomerID)
	assert.Equal(t, "hi", repo.created.Notes)
}

func TestBackend_CreateBookingErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NewBooking)
		repo   *fakeBookingRepo
		want   error
	}{
		{"missing service", func(nb *NewBooking) { nb.ServiceID = "" }, &fakeBookingRepo{}, ErrValidation},
		{"zero start", func(nb *NewBooking) { nb.Start = time.Time{} }, &fakeBookingRepo{}, ErrValidation},
		{"zero duration", func(nb *NewBooking) { nb.Duration = 0 }, &fakeBookingRepo{}, ErrValidation},
		{"fractional minutes", func(nb *NewBooking) { nb.Duration = 90 * time.Second }, &fakeBookingRepo{}, ErrValidation},
		{"pre-check overlap", nil, &fakeBookingRepo{overlap: true}, ErrSlotConflict},
		{"exclusion violation", nil, &fakeBookingRepo{createErr: booking.ErrTimeConflict}, ErrSlotConflict},
		{"foreign key", nil, &fakeBookingRepo{createErr: booking.ErrInvalidInput}, ErrValidation},
		{"database down", nil, &fakeBookingRepo{createErr: errors.New("broken pipe")}, ErrDataUnavailable},
		{"pre-check failure", nil, &fakeBookingRepo{overlapErr: errors.New("broken pipe")}, ErrDataUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBackend(&fakeShiftRepo{}, tt.repo, DefaultBreakerConfig())
			nb := validBooking()
			if tt.mutate != nil {
				tt.mutate(&nb)
			}
			_, err := b.CreateBooking(context.Background(), nb)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBackend_UnassignedSkipsPrecheck(t *testing.T) {
	repo := &fakeBookingRepo{overlap: true}
	b := newTestBackend(&fakeShiftRepo{}, repo, DefaultBreakerConfig())

	nb := validBooking()
	nb.StylistID = ""
	_, err := b.CreateBooking(context.Background(), nb)
	assert.NoError(t, err)
}

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	start, end := DayBounds(time.Date(2026, 3, 2, 23, 30, 0, 0, loc), loc)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, loc), end)
}
