package resource

import (
	"time"

	"github.com/fafukeh/AramEnjoyer/pkg/events"
)

type RealtimeEventResource struct {
	Topic     string             `json:"topic"`
	SessionID string             `json:"sessionId,omitempty"`
	Session   *SessionResource   `json:"session,omitempty"`
	Countdown *CountdownResource `json:"countdown,omitempty"`
	Reason    string             `json:"reason,omitempty"`
	Removed   []string           `json:"removed,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// NewRealtimeEvent renders an event. sess is the rendered session for
// events that carry one and nil otherwise.
func NewRealtimeEvent(e events.Event, sess *SessionResource) *RealtimeEventResource {
	return &RealtimeEventResource{
		Topic:     string(e.Type),
		SessionID: e.SessionID,
		Session:   sess,
		Countdown: NewCountdown(e.Countdown),
		Reason:    e.Reason,
		Removed:   e.Removed,
		Timestamp: e.Timestamp,
	}
}
