// Package scheduler turns the passage of time into board mutations.
//
// The scheduler owns one timer per live session, kept in a map keyed by the
// session id, and one timer for the nightly reset. Each session timer fires
// at a fixed interval and evaluates the session state machine:
//
//	PENDING  (now < openAt)             countdown to open, once within the window
//	OPEN     (openAt <= now < expiresAt) countdown to expiry
//	EXPIRED  (now >= expiresAt)          session removed, timer dropped
//
// The reset timer fires at the night boundary, clears the whole board and is
// rescheduled to the same wall clock time of the following day. It is never
// cancelled.
//
// The scheduler itself holds no lock. The caller serializes Track, Cancel
// and Tick with every other board mutation.
package scheduler

import (
	"context"
	"sort"
	"time"

	"github.com/fafukeh/AramEnjoyer/pkg/clock"
	"github.com/fafukeh/AramEnjoyer/pkg/events"
	"github.com/fafukeh/AramEnjoyer/pkg/model"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultInterval        = time.Second
	DefaultCountdownWindow = 30 * time.Minute
)

// Store is the part of the session store the scheduler mutates.
type Store interface {
	Get(sessionID string) (*model.Session, bool)
	Expire(sessionID string) bool
	ResetAll() []string
}

// Boundary yields the first nightly reset strictly after an instant.
type Boundary interface {
	NightEnd(now time.Time) time.Time
}

type Options struct {
	// Interval is the cadence of every timer and of Run.
	Interval time.Duration
	// CountdownWindow hides countdowns while the transition is further away.
	CountdownWindow time.Duration
}

type timer struct {
	sessionID string
	due       time.Time
}

type Scheduler struct {
	store     Store
	clock     clock.Clock
	opts      Options
	timers    map[string]*timer
	nextReset time.Time
}

// New creates a scheduler whose first reset is the boundary following the
// current time of clk.
func New(store Store, boundary Boundary, clk clock.Clock, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.CountdownWindow <= 0 {
		opts.CountdownWindow = DefaultCountdownWindow
	}

	return &Scheduler{
		store:     store,
		clock:     clk,
		opts:      opts,
		timers:    make(map[string]*timer),
		nextReset: boundary.NightEnd(clk.Now()),
	}
}

// Options returns the effective options.
func (s *Scheduler) Options() Options {
	return s.opts
}

// NextReset is the instant the board is cleared next.
func (s *Scheduler) NextReset() time.Time {
	return s.nextReset
}

// Track starts the timer of a session. The first evaluation happens on the
// next tick. Tracking an already tracked session keeps its existing timer.
func (s *Scheduler) Track(sessionID string, now time.Time) {
	if _, ok := s.timers[sessionID]; ok {
		return
	}
	s.timers[sessionID] = &timer{sessionID: sessionID, due: now}
}

// Cancel drops the timer of a session, if any.
func (s *Scheduler) Cancel(sessionID string) {
	delete(s.timers, sessionID)
}

// Tracked returns the ids of all sessions with an active timer, sorted.
func (s *Scheduler) Tracked() []string {
	ids := make([]string, 0, len(s.timers))
	for id := range s.timers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Evaluate applies the state machine with the configured countdown window.
func (s *Scheduler) Evaluate(sess *model.Session, now time.Time) (model.State, *model.Countdown) {
	return Evaluate(sess, now, s.opts.CountdownWindow)
}

// Tick fires every timer due at now and returns what changed, in order.
func (s *Scheduler) Tick(now time.Time) []events.Event {
	var out []events.Event

	for _, t := range s.due(now) {
		sess, ok := s.store.Get(t.sessionID)
		if !ok {
			// already removed by a leave or a reset
			delete(s.timers, t.sessionID)
			continue
		}

		state, cd := s.Evaluate(sess, now)
		if state == model.StateExpired {
			s.store.Expire(sess.ID)
			delete(s.timers, sess.ID)
			log.WithFields(log.Fields{
				"session": sess.ID,
				"slot":    sess.Slot.Label(),
			}).Info("scheduler expired session")
			out = append(out, events.SessionRemoved(sess.ID, events.ReasonExpired, now))
			continue
		}

		if cd != nil {
			out = append(out, events.CountdownTick(sess.ID, *cd, now))
		}

		t.due = t.due.Add(s.opts.Interval)
		if !t.due.After(now) {
			t.due = now.Add(s.opts.Interval)
		}
	}

	if !now.Before(s.nextReset) {
		removed := s.store.ResetAll()
		for id := range s.timers {
			delete(s.timers, id)
		}
		log.WithFields(log.Fields{
			"boundary": s.nextReset,
			"removed":  len(removed),
		}).Info("scheduler reset the board")
		out = append(out, events.BoardReset(removed, now))

		for !s.nextReset.After(now) {
			s.nextReset = s.nextReset.AddDate(0, 0, 1)
		}
	}

	return out
}

func (s *Scheduler) due(now time.Time) []*timer {
	var due []*timer
	for _, t := range s.timers {
		if !t.due.After(now) {
			due = append(due, t)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if !due[i].due.Equal(due[j].due) {
			return due[i].due.Before(due[j].due)
		}
		return due[i].sessionID < due[j].sessionID
	})
	return due
}

// Run calls tick with the current time at every interval until ctx is done.
// tick is expected to take the board lock and call Tick.
func (s *Scheduler) Run(ctx context.Context, tick func(now time.Time)) {
	ticker := s.clock.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("scheduler stopped")
			return
		case <-ticker.Chan():
			tick(s.clock.Now())
		}
	}
}
