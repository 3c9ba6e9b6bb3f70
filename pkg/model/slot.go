package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Slot is a wall clock mark on tonight's board. It carries no date; the
// catalog resolves it to an instant relative to a reference time.
type Slot struct {
	Hour   int
	Minute int
}

// ParseSlot reads labels of the form "H:MM" or "HH:MM".
func ParseSlot(label string) (Slot, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(label), ":")
	if !ok || len(h) < 1 || len(h) > 2 || len(m) != 2 {
		return Slot{}, ErrInvalidSlot
	}

	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return Slot{}, ErrInvalidSlot
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return Slot{}, ErrInvalidSlot
	}

	return Slot{Hour: hour, Minute: minute}, nil
}

// Label renders the slot without a leading zero on the hour, e.g. "2:00".
func (s Slot) Label() string {
	return fmt.Sprintf("%d:%02d", s.Hour, s.Minute)
}

func (s Slot) String() string {
	return s.Label()
}

// MinuteOfDay is the offset of the mark from midnight in minutes.
func (s Slot) MinuteOfDay() int {
	return s.Hour*60 + s.Minute
}

func (s Slot) MarshalText() ([]byte, error) {
	return []byte(s.Label()), nil
}

func (s *Slot) UnmarshalText(text []byte) error {
	parsed, err := ParseSlot(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
