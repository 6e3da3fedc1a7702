package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/nekogravitycat/salon-booking-backend/internal/booking"
	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/salon-booking-backend/internal/shift"
)

// BreakerConfig configures the circuit breaker in front of the database.
type BreakerConfig struct {
	// FailureThreshold trips the breaker after this many consecutive failures.
	FailureThreshold uint32
	// Timeout is the period of the open state.
	Timeout time.Duration
	// MaxRequests is the number of trial requests allowed in half-open state.
	MaxRequests uint32
}

// DefaultBreakerConfig returns the production defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		Timeout:          30 * time.Second,
		MaxRequests:      1,
	}
}

// Backend implements Source on top of the Postgres repositories.
type Backend struct {
	shifts   shift.Repository
	bookings booking.Repository
	location *time.Location
	breaker  *gobreaker.CircuitBreaker[any]
	log      *zap.Logger
}

// NewBackend wires the repositories behind a single circuit breaker.
func NewBackend(shifts shift.Repository, bookings booking.Repository, location *time.Location, cfg BreakerConfig, log *zap.Logger) *Backend {
	if location == nil {
		location = time.UTC
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("calendar")

	settings := gobreaker.Settings{
		Name:        "calendar",
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: isHealthyOutcome,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &Backend{
		shifts:   shifts,
		bookings: bookings,
		location: location,
		breaker:  gobreaker.NewCircuitBreaker[any](settings),
		log:      log,
	}
}

// isHealthyOutcome keeps client-side mistakes and cancellations from tripping the breaker.
func isHealthyOutcome(err error) bool {
	if err == nil {
		return true
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Code < 500 {
		return true
	}
	return errors.Is(err, context.Canceled)
}

func (b *Backend) FetchShifts(ctx context.Context, date time.Time, stylistID string) ([]shift.Shift, error) {
	res, err := b.breaker.Execute(func() (any, error) {
		return b.shifts.ListByDate(ctx, date, stylistID)
	})
	if err != nil {
		return nil, b.unavailable("fetch shifts", err)
	}
	return res.([]shift.Shift), nil
}

func (b *Backend) FetchBookings(ctx context.Context, date time.Time, stylistID string) ([]booking.Booking, error) {
	from, to := DayBounds(date, b.location)

	res, err := b.breaker.Execute(func() (any, error) {
		return b.bookings.ListOverlapping(ctx, from, to, stylistID)
	})
	if err != nil {
		return nil, b.unavailable("fetch bookings", err)
	}

	rows := res.([]*booking.Booking)
	out := make([]booking.Booking, 0, len(rows))
	for _, row := range rows {
		if row.Status == booking.StatusCanceled {
			continue
		}
		out = append(out, *row)
	}
	return out, nil
}

func (b *Backend) CreateBooking(ctx context.Context, nb NewBooking) (string, error) {
	if err := validateNewBooking(nb); err != nil {
		return "", err
	}

	res, err := b.breaker.Execute(func() (any, error) {
		if nb.StylistID != "" {
			// Cheap pre-check; the exclusion constraint stays the authority.
			overlap, err := b.bookings.HasOverlap(ctx, nb.StylistID, nb.Start, nb.Start.Add(nb.Duration), "")
			if err != nil {
				return nil, err
			}
			if overlap {
				return nil, booking.ErrTimeConflict
			}
		}

		row := &booking.Booking{
			StylistID:       nb.StylistID,
			ServiceID:       nb.ServiceID,
			CustomerID:      nb.CustomerID,
			StartAt:         nb.Start,
			DurationMinutes: int(nb.Duration / time.Minute),
			Notes:           nb.Notes,
			Status:          booking.StatusPending,
		}
		if err := b.bookings.Create(ctx, row); err != nil {
			return nil, err
		}
		return row.ID, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrTimeConflict):
			return "", apperror.Because(ErrSlotConflict, err)
		case errors.Is(err, booking.ErrInvalidInput), errors.Is(err, booking.ErrInvalidTimeRange):
			return "", apperror.Because(ErrValidation, err)
		}
		return "", b.unavailable("create booking", err)
	}

	b.log.Info("booking created",
		zap.String("booking_id", res.(string)),
		zap.String("stylist_id", nb.StylistID),
		zap.Time("start", nb.Start),
	)
	return res.(string), nil
}

func validateNewBooking(nb NewBooking) error {
	switch {
	case nb.ServiceID == "":
		return apperror.Because(ErrValidation, errors.New("service_id is required"))
	case nb.Start.IsZero():
		return apperror.Because(ErrValidation, errors.New("start is required"))
	case nb.Duration <= 0 || nb.Duration%time.Minute != 0:
		return apperror.Because(ErrValidation, fmt.Errorf("duration %s must be a positive whole number of minutes", nb.Duration))
	}
	return nil
}

func (b *Backend) unavailable(op string, err error) error {
	b.log.Warn("calendar call failed", zap.String("op", op), zap.Error(err))
	return apperror.Because(ErrDataUnavailable, fmt.Errorf("%s: %w", op, err))
}
