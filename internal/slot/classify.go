package slot

import (
	"sort"
	"time"

	"github.com/nekogravitycat/salon-booking-backend/internal/booking"
)

// Window is one stylist's working interval [Start, End).
type Window struct {
	StylistID string
	Start     time.Time
	End       time.Time
}

type point struct {
	at       time.Time
	stylists map[string]struct{}
}

// Classify discretizes the windows into slots of the given granularity and marks each one free or busy.
//
// A slot exists only where it fits entirely inside a window. With stylistID set, a slot is busy when it
// overlaps any non-canceled booking of that stylist. With stylistID empty, a slot is free while at least
// one covering stylist has no overlapping booking after unassigned bookings take their share.
func Classify(windows []Window, bookings []booking.Booking, granularity time.Duration, stylistID string) []Slot {
	if granularity <= 0 {
		return nil
	}

	points := make(map[int64]*point)
	for _, w := range windows {
		if stylistID != "" && w.StylistID != stylistID {
			continue
		}
		for t := w.Start; !t.Add(granularity).After(w.End); t = t.Add(granularity) {
			key := t.UnixNano()
			p, ok := points[key]
			if !ok {
				p = &point{at: t, stylists: make(map[string]struct{})}
				points[key] = p
			}
			p.stylists[w.StylistID] = struct{}{}
		}
	}

	ordered := make([]*point, 0, len(points))
	for _, p := range points {
		ordered = append(ordered, p)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].at.Before(ordered[j].at) })

	slots := make([]Slot, 0, len(ordered))
	for _, p := range ordered {
		status := StatusBusy
		if availableStylists(p, bookings, granularity, stylistID) > 0 {
			status = StatusFree
		}
		slots = append(slots, Slot{Time: p.at, Status: status})
	}
	return slots
}

func availableStylists(p *point, bookings []booking.Booking, granularity time.Duration, stylistID string) int {
	end := p.at.Add(granularity)
	booked := make(map[string]struct{})
	unassigned := 0

	for i := range bookings {
		b := &bookings[i]
		if b.Status == booking.StatusCanceled || !b.Overlaps(p.at, end) {
			continue
		}
		if b.StylistID == "" {
			if stylistID == "" {
				unassigned++
			}
			continue
		}
		if _, covering := p.stylists[b.StylistID]; covering {
			booked[b.StylistID] = struct{}{}
		}
	}

	return len(p.stylists) - len(booked) - unassigned
}

// FreeStylists returns, sorted, the stylists whose windows cover [start, end) and who have no overlapping booking.
// It returns nil when overlapping unassigned bookings use up every free stylist.
func FreeStylists(windows []Window, bookings []booking.Booking, start, end time.Time) []string {
	candidates := make(map[string]struct{})
	for _, w := range windows {
		if !w.Start.After(start) && !w.End.Before(end) {
			candidates[w.StylistID] = struct{}{}
		}
	}
	unassigned := 0
	for i := range bookings {
		b := &bookings[i]
		if b.Status == booking.StatusCanceled || !b.Overlaps(start, end) {
			continue
		}
		if b.StylistID == "" {
			unassigned++
			continue
		}
		delete(candidates, b.StylistID)
	}
	if len(candidates) <= unassigned {
		return nil
	}

	out := make([]string, 0, len(candidates))
	for id := range candidates {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
