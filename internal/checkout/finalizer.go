// Package checkout turns a held slot into a persisted booking.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nekogravitycat/salon-booking-backend/internal/booking"
	"github.com/nekogravitycat/salon-booking-backend/internal/calendar"
	"github.com/nekogravitycat/salon-booking-backend/internal/hold"
	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/salon-booking-backend/internal/shift"
	"github.com/nekogravitycat/salon-booking-backend/internal/slot"
	"github.com/nekogravitycat/salon-booking-backend/internal/treatment"
)

// TreatmentLookup resolves the booked service.
type TreatmentLookup interface {
	GetByID(ctx context.Context, id string) (*treatment.Treatment, error)
}

// ErrServiceDoesNotFit means the held slot is free but the chosen service is longer than the free time after it.
var ErrServiceDoesNotFit = apperror.WithAction(http.StatusUnprocessableEntity, "service does not fit after the selected time", apperror.ActionFixInput)

// WindowFunc converts shifts to working windows in the salon location.
type WindowFunc func([]shift.Shift) []slot.Window

// Request carries the customer-entered details of the booking.
type Request struct {
	CustomerID string
	ServiceID  string
	Notes      string
}

type Finalizer struct {
	source     calendar.Source
	treatments TreatmentLookup
	windows    WindowFunc
	log        *zap.Logger
}

func NewFinalizer(source calendar.Source, treatments TreatmentLookup, windows WindowFunc, log *zap.Logger) *Finalizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Finalizer{source: source, treatments: treatments, windows: windows, log: log.Named("checkout")}
}

// Finalize submits the held slot of mgr as a pending booking and returns its ID.
//
// Shifts and bookings are fetched again right before submission. A slot taken in the meantime, found
// either here or by the backend, fails with calendar.ErrSlotConflict and releases the hold with the
// slot marked busy. Any other failure, ErrServiceDoesNotFit included, leaves the hold active with
// its original expiry.
func (f *Finalizer) Finalize(ctx context.Context, mgr *hold.Manager, req Request) (string, error) {
	if req.ServiceID == "" {
		return "", apperror.Because(calendar.ErrValidation, errors.New("service_id is required"))
	}

	h, err := mgr.BeginFinalize()
	if err != nil {
		return "", err
	}

	id, conflict, err := f.submit(ctx, h, req)
	if err != nil {
		state := mgr.AbortFinalize(conflict)
		f.log.Info("finalize failed",
			zap.Time("slot", h.SlotTime),
			zap.Bool("conflict", conflict),
			zap.String("hold_state", string(state)),
			zap.Error(err),
		)
		return "", err
	}

	mgr.CompleteFinalize(id)
	return id, nil
}

func (f *Finalizer) submit(ctx context.Context, h hold.Hold, req Request) (string, bool, error) {
	duration, err := f.duration(ctx, req.ServiceID, h.Granularity)
	if err != nil {
		return "", false, err
	}
	start, end := h.SlotTime, h.SlotTime.Add(duration)

	stylistID, err := f.pickStylist(ctx, h, start, end)
	if err != nil {
		return "", errors.Is(err, calendar.ErrSlotConflict), err
	}

	id, err := f.source.CreateBooking(ctx, calendar.NewBooking{
		StylistID:  stylistID,
		ServiceID:  req.ServiceID,
		Start:      start,
		Duration:   duration,
		CustomerID: req.CustomerID,
		Notes:      req.Notes,
	})
	if err != nil {
		return "", errors.Is(err, calendar.ErrSlotConflict), err
	}
	return id, false, nil
}

// duration uses the treatment length, or the slot granularity when the treatment has none.
func (f *Finalizer) duration(ctx context.Context, serviceID string, fallback time.Duration) (time.Duration, error) {
	t, err := f.treatments.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, treatment.ErrNotFound) {
			return 0, apperror.Because(calendar.ErrValidation, err)
		}
		return 0, apperror.Because(calendar.ErrDataUnavailable, fmt.Errorf("load service: %w", err))
	}
	if !t.Active {
		return 0, apperror.Because(calendar.ErrValidation, fmt.Errorf("service %s is not offered", t.ID))
	}
	if d := t.Duration(); d > 0 {
		return d, nil
	}
	return fallback, nil
}

// pickStylist checks the held slot and the full service interval against fresh shifts and bookings.
// A slot that no longer has a free stylist is a conflict. A free slot whose service would run past
// the end of the shift or into a later booking fails with ErrServiceDoesNotFit.
// For any-stylist holds it returns the first stylist, by ID, who is free for the whole interval.
func (f *Finalizer) pickStylist(ctx context.Context, h hold.Hold, start, end time.Time) (string, error) {
	var (
		shifts   []shift.Shift
		bookings []booking.Booking
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		shifts, err = f.source.FetchShifts(gctx, h.Date, h.StylistID)
		return err
	})
	g.Go(func() error {
		var err error
		bookings, err = f.source.FetchBookings(gctx, h.Date, h.StylistID)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	windows := f.windows(shifts)
	if h.StylistID != "" {
		windows = onlyStylist(windows, h.StylistID)
		bookings = onlyStylistBookings(bookings, h.StylistID)
	}

	slotEnd := start.Add(h.Granularity)
	if slotEnd.After(end) {
		slotEnd = end
	}
	if len(slot.FreeStylists(windows, bookings, start, slotEnd)) == 0 {
		return "", apperror.Because(calendar.ErrSlotConflict, errors.New("no stylist free for the slot"))
	}

	free := slot.FreeStylists(windows, bookings, start, end)
	if len(free) == 0 {
		return "", apperror.Because(ErrServiceDoesNotFit,
			fmt.Errorf("%s from %s", end.Sub(start), start.Format(time.Kitchen)))
	}
	return free[0], nil
}

func onlyStylist(windows []slot.Window, stylistID string) []slot.Window {
	out := windows[:0:0]
	for _, w := range windows {
		if w.StylistID == stylistID {
			out = append(out, w)
		}
	}
	return out
}

func onlyStylistBookings(bookings []booking.Booking, stylistID string) []booking.Booking {
	out := bookings[:0:0]
	for _, b := range bookings {
		if b.StylistID == stylistID {
			out = append(out, b)
		}
	}
	return out
}
