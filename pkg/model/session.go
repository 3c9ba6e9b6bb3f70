package model

import "time"

// Session is a play session booked on a slot of tonight's board
type Session struct {
	ID        string
	Slot      Slot
	Creator   string
	Players   []Player
	OpenAt    time.Time
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Player is a member of a session
type Player struct {
	ID          string
	DisplayName string
}

// State derives the lifecycle state of the session at the given instant. The
// open boundary belongs to Open and the expiry boundary belongs to Expired.
func (s *Session) State(now time.Time) State {
	switch {
	case now.Before(s.OpenAt):
		return StatePending
	case now.Before(s.ExpiresAt):
		return StateOpen
	default:
		return StateExpired
	}
}

// FindPlayer returns the index of the player with the given id or -1.
func (s *Session) FindPlayer(playerID string) int {
	for i, p := range s.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// HasDisplayName reports whether a player with exactly this name is a member.
func (s *Session) HasDisplayName(name string) bool {
	for _, p := range s.Players {
		if p.DisplayName == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers never share the player slice.
func (s *Session) Clone() Session {
	out := *s
	out.Players = make([]Player, len(s.Players))
	copy(out.Players, s.Players)
	return out
}
