// Package slot defines which half-hour marks of tonight can be booked and
// maps them to absolute instants.
//
// A night runs from one reset boundary (06:00 by default) to the next. Every
// mark strictly after the current time and up to the upcoming boundary is
// bookable. Marks between midnight and the boundary belong to the next
// calendar day when the night started the evening before, so ordering always
// follows the resolved instant and never the label.
package slot

import (
	"iter"
	"time"

	"github.com/fafukeh/AramEnjoyer/pkg/model"
)

// Policy controls the catalog boundary.
type Policy struct {
	// ResetHour is the wall clock hour at which the night ends.
	ResetHour int
	// Step is the distance between two marks. It must divide an hour.
	Step time.Duration
	// IncludeReset makes the reset boundary itself a bookable mark.
	IncludeReset bool
	Location     *time.Location
}

// DefaultPolicy books every half hour until 06:00 included.
func DefaultPolicy() Policy {
	return Policy{
		ResetHour:    6,
		Step:         30 * time.Minute,
		IncludeReset: true,
		Location:     time.Local,
	}
}

// Catalog enumerates and validates slots.
type Catalog struct {
	policy Policy
}

// New creates a catalog. Zero or invalid policy fields fall back to the
// defaults.
func New(p Policy) *Catalog {
	def := DefaultPolicy()
	if p.ResetHour < 0 || p.ResetHour > 23 {
		p.ResetHour = def.ResetHour
	}
	if p.Step < time.Minute || time.Hour%p.Step != 0 {
		p.Step = def.Step
	}
	if p.Location == nil {
		p.Location = def.Location
	}
	return &Catalog{policy: p}
}

// Policy returns the effective policy.
func (c *Catalog) Policy() Policy {
	return c.policy
}

// Location is the zone in which labels are interpreted.
func (c *Catalog) Location() *time.Location {
	return c.policy.Location
}

// NightEnd returns the first reset boundary strictly after now.
func (c *Catalog) NightEnd(now time.Time) time.Time {
	now = now.In(c.policy.Location)
	y, m, d := now.Date()
	end := time.Date(y, m, d, c.policy.ResetHour, 0, 0, 0, c.policy.Location)
	if !end.After(now) {
		end = time.Date(y, m, d+1, c.policy.ResetHour, 0, 0, 0, c.policy.Location)
	}
	return end
}

// Available yields every bookable slot after now in chronological order.
// Each label appears at most once. The sequence is computed lazily and can be ranged over more than once.
func (c *Catalog) Available(now time.Time) iter.Seq[model.Slot] {
	return func(yield func(model.Slot) bool) {
		now := now.In(c.policy.Location)
		end := c.NightEnd(now)
		step := int(c.policy.Step / time.Minute)
		y, m, d := now.Date()

		first := ((now.Hour()*60+now.Minute())/step + 1) * step
		prev := now
		for offset := first; ; offset += step {
			t := time.Date(y, m, d, 0, offset, 0, 0, c.policy.Location)
			if t.After(end) || (t.Equal(end) && !c.policy.IncludeReset) {
				return
			}
			// Marks inside a daylight saving gap are normalized onto later
			// marks and do not exist tonight.
			if !t.After(prev) {
				continue
			}
			prev = t
			if !yield(model.Slot{Hour: t.Hour(), Minute: t.Minute()}) {
				return
			}
		}
	}
}

// Next returns the first available slot, the default choice for a new
// session.
func (c *Catalog) Next(now time.Time) (model.Slot, bool) {
	for s := range c.Available(now) {
		return s, true
	}
	return model.Slot{}, false
}

// Validate parses a candidate label and checks that it is still bookable at
// now. Labels that have slipped into the past since they were offered are
// rejected.
func (c *Catalog) Validate(candidate string, now time.Time) (model.Slot, error) {
	s, err := model.ParseSlot(candidate)
	if err != nil {
		return model.Slot{}, err
	}

	for avail := range c.Available(now) {
		if avail == s {
			return s, nil
		}
	}
	return model.Slot{}, model.ErrInvalidSlot
}

// ResolveOpenAt maps a slot to its instant within the night that contains
// ref, i.e. the single occurrence of the mark in (NightEnd(ref)-1d, NightEnd(ref)].
func (c *Catalog) ResolveOpenAt(s model.Slot, ref time.Time) time.Time {
	end := c.NightEnd(ref)
	y, m, d := end.Date()
	at := time.Date(y, m, d, s.Hour, s.Minute, 0, 0, c.policy.Location)
	if at.After(end) {
		at = time.Date(y, m, d-1, s.Hour, s.Minute, 0, 0, c.policy.Location)
	}
	return at
}

// DayOffset is the number of calendar days between ref and the resolved
// instant of s: 1 for early morning slots booked the evening before, else 0.
func (c *Catalog) DayOffset(s model.Slot, ref time.Time) int {
	ref = ref.In(c.policy.Location)
	at := c.ResolveOpenAt(s, ref)
	ry, rm, rd := ref.Date()
	ay, am, ad := at.Date()
	refDay := time.Date(ry, rm, rd, 0, 0, 0, 0, time.UTC)
	atDay := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	return int(atDay.Sub(refDay) / (24 * time.Hour))
}
