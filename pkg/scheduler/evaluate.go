package scheduler

import (
	"time"

	"github.com/fafukeh/AramEnjoyer/pkg/model"
)

// Evaluate computes the state of a session at now and the countdown to show,
// if any. Countdowns are suppressed while the next transition is further away
// than window.
//
// The countdown to open rounds up so that a session opening in a few seconds
// still reads "1 minute". The countdown to expiry takes the minute part of the
// remaining time, like a ticking clock.
func Evaluate(sess *model.Session, now time.Time, window time.Duration) (model.State, *model.Countdown) {
	state := sess.State(now)

	switch state {
	case model.StatePending:
		remaining := sess.OpenAt.Sub(now)
		if remaining > window {
			return state, nil
		}
		return state, &model.Countdown{
			Kind:    model.CountdownToOpen,
			Minutes: int((remaining + time.Minute - 1) / time.Minute),
		}
	case model.StateOpen:
		remaining := sess.ExpiresAt.Sub(now)
		if remaining > window {
			return state, nil
		}
		return state, &model.Countdown{
			Kind:    model.CountdownToExpiry,
			Minutes: int((remaining % time.Hour) / time.Minute),
		}
	}

	return state, nil
}
