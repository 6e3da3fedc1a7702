package slot

import (
	"time"
)

// DefaultGranularity is the slot size used when none is requested.
const DefaultGranularity = 30 * time.Minute

type Status string

const (
	StatusFree Status = "free"
	StatusBusy Status = "busy"
	StatusHeld Status = "held"
)

// Slot is a discrete bookable time point; it covers [Time, Time+granularity).
type Slot struct {
	Time   time.Time
	Status Status
}

// Grid is the ordered slot sequence of one day, for one stylist or for any stylist when StylistID is empty.
// A Grid is an ephemeral projection and is never persisted.
type Grid struct {
	Date        time.Time
	StylistID   string
	Granularity time.Duration
	Slots       []Slot
}

// Index returns the position of the slot starting at t, or -1.
func (g *Grid) Index(t time.Time) int {
	for i := range g.Slots {
		if g.Slots[i].Time.Equal(t) {
			return i
		}
	}
	return -1
}

// Lookup returns the slot starting at t.
func (g *Grid) Lookup(t time.Time) (Slot, bool) {
	if i := g.Index(t); i >= 0 {
		return g.Slots[i], true
	}
	return Slot{}, false
}

// SetStatus changes the status of the slot starting at t. It reports whether the slot exists.
func (g *Grid) SetStatus(t time.Time, status Status) bool {
	i := g.Index(t)
	if i < 0 {
		return false
	}
	g.Slots[i].Status = status
	return true
}

// SameView reports whether both grids describe the same day and stylist.
func (g *Grid) SameView(date time.Time, stylistID string) bool {
	return g.Date.Equal(date) && g.StylistID == stylistID
}

// Clone returns a deep copy safe to hand to readers.
func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	cp := *g
	cp.Slots = make([]Slot, len(g.Slots))
	copy(cp.Slots, g.Slots)
	return &cp
}

// Count returns how many slots have the given status.
func (g *Grid) Count(status Status) int {
	n := 0
	for _, s := range g.Slots {
		if s.Status == status {
			n++
		}
	}
	return n
}
