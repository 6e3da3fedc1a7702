package slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nekogravitycat/salon-booking-backend/internal/booking"
	"github.com/nekogravitycat/salon-booking-backend/internal/calendar"
	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/salon-booking-backend/internal/shift"
)

// Query selects the day, optional stylist and slot size of a grid.
type Query struct {
	Date        time.Time
	StylistID   string
	Granularity time.Duration // zero means the builder default
}

// Builder derives slot grids from the calendar source.
type Builder struct {
	source      calendar.Source
	location    *time.Location
	granularity time.Duration
	log         *zap.Logger
}

// NewBuilder returns a builder whose queries default to granularity, or DefaultGranularity when it is not positive.
func NewBuilder(source calendar.Source, location *time.Location, granularity time.Duration, log *zap.Logger) *Builder {
	if location == nil {
		location = time.UTC
	}
	if granularity <= 0 {
		granularity = DefaultGranularity
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{source: source, location: location, granularity: granularity, log: log.Named("slot")}
}

// Location returns the salon time zone used to interpret dates.
func (b *Builder) Location() *time.Location {
	return b.location
}

// Normalize validates q and fills in defaults.
func (b *Builder) Normalize(q Query) (Query, error) {
	if q.Date.IsZero() {
		return q, apperror.Because(calendar.ErrValidation, errors.New("date is required"))
	}
	d := q.Date.In(b.location)
	if d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 || d.Nanosecond() != 0 {
		return q, apperror.Because(calendar.ErrValidation, fmt.Errorf("date %s is not a calendar date", q.Date.Format(time.RFC3339)))
	}
	q.Date = d

	if q.Granularity == 0 {
		q.Granularity = b.granularity
	}
	if q.Granularity < 0 {
		return q, apperror.Because(calendar.ErrValidation, fmt.Errorf("granularity %s must be positive", q.Granularity))
	}
	return q, nil
}

// Build fetches shifts and bookings concurrently and classifies the day into slots.
// Both fetches must succeed; any failure is reported as calendar.ErrDataUnavailable, never as an empty grid.
func (b *Builder) Build(ctx context.Context, q Query) (*Grid, error) {
	q, err := b.Normalize(q)
	if err != nil {
		return nil, err
	}

	var (
		shifts   []shift.Shift
		bookings []booking.Booking
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		shifts, err = b.source.FetchShifts(gctx, q.Date, q.StylistID)
		return err
	})
	g.Go(func() error {
		var err error
		bookings, err = b.source.FetchBookings(gctx, q.Date, q.StylistID)
		return err
	})
	if err := g.Wait(); err != nil {
		if !errors.Is(err, calendar.ErrDataUnavailable) {
			err = apperror.Because(calendar.ErrDataUnavailable, err)
		}
		return nil, err
	}

	grid := &Grid{
		Date:        q.Date,
		StylistID:   q.StylistID,
		Granularity: q.Granularity,
		Slots:       Classify(b.Windows(shifts), bookings, q.Granularity, q.StylistID),
	}

	b.log.Debug("grid built",
		zap.String("date", q.Date.Format("2006-01-02")),
		zap.String("stylist_id", q.StylistID),
		zap.Int("slots", len(grid.Slots)),
		zap.Int("free", grid.Count(StatusFree)),
	)
	return grid, nil
}

// Windows converts shifts to working intervals, dropping malformed rows.
func (b *Builder) Windows(shifts []shift.Shift) []Window {
	windows := make([]Window, 0, len(shifts))
	for _, s := range shifts {
		start, end, err := s.Window(b.location)
		if err != nil {
			b.log.Warn("skipping malformed shift", zap.String("shift_id", s.ID), zap.Error(err))
			continue
		}
		windows = append(windows, Window{StylistID: s.StylistID, Start: start, End: end})
	}
	return windows
}
