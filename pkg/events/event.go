// Package events describes what changed on the board. The controller and the
// scheduler emit events; the API, websocket clients and NATS subscribers
// consume them to re-render without polling the store.
package events

import (
	"time"

	"github.com/fafukeh/AramEnjoyer/pkg/model"
)

type Type string

const (
	TypeSessionCreated Type = "session_created"
	TypeSessionUpdated Type = "session_updated"
	TypeSessionRemoved Type = "session_removed"
	TypeBoardReset     Type = "board_reset"
	TypeCountdownTick  Type = "countdown_tick"
)

// Removal reasons carried by session_removed events.
const (
	ReasonExpired = "expired"
	ReasonEmpty   = "empty"
)

type Event struct {
	Type      Type
	SessionID string
	Session   *model.Session
	Countdown *model.Countdown
	Reason    string
	Removed   []string
	Timestamp time.Time
}

// Mutates reports whether the event follows a change of the session
// collection. Countdown ticks are pure signals.
func (e Event) Mutates() bool {
	return e.Type != TypeCountdownTick
}

func SessionCreated(sess *model.Session, at time.Time) Event {
	return Event{Type: TypeSessionCreated, SessionID: sess.ID, Session: sess, Timestamp: at}
}

func SessionUpdated(sess *model.Session, at time.Time) Event {
	return Event{Type: TypeSessionUpdated, SessionID: sess.ID, Session: sess, Timestamp: at}
}

func SessionRemoved(sessionID, reason string, at time.Time) Event {
	return Event{Type: TypeSessionRemoved, SessionID: sessionID, Reason: reason, Timestamp: at}
}

func BoardReset(removed []string, at time.Time) Event {
	return Event{Type: TypeBoardReset, Removed: removed, Timestamp: at}
}

func CountdownTick(sessionID string, cd model.Countdown, at time.Time) Event {
	return Event{Type: TypeCountdownTick, SessionID: sessionID, Countdown: &cd, Timestamp: at}
}

// Publisher receives events. Implementations must not block the caller for
// long, the board is locked while events are published.
type Publisher interface {
	Publish(e Event)
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(e Event)

func (f PublisherFunc) Publish(e Event) {
	f(e)
}

// Multi fans an event out to several publishers in order.
type Multi []Publisher

func (m Multi) Publish(e Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(e)
		}
	}
}

// Discard drops every event.
var Discard Publisher = PublisherFunc(func(Event) {})
