package resource

import (
	"time"

	"github.com/fafukeh/AramEnjoyer/pkg/model"
)

type PlayerResource struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type CountdownResource struct {
	Kind    string `json:"kind"`
	Minutes int    `json:"minutes"`
}

type SessionResource struct {
	ID          string             `json:"id"`
	Slot        string             `json:"slot"`
	Creator     string             `json:"creator"`
	Players     []*PlayerResource  `json:"players"`
	PlayerCount int                `json:"playerCount"`
	MaxPlayers  int                `json:"maxPlayers"`
	State       string             `json:"state"`
	Countdown   *CountdownResource `json:"countdown,omitempty"`
	OpenAt      time.Time          `json:"openAt"`
	ExpiresAt   time.Time          `json:"expiresAt"`
}

type SessionListResource struct {
	Members []*SessionResource `json:"members"`
}

// MembershipResource answers a join with the session and the id the new
// player needs to leave again.
type MembershipResource struct {
	Session  *SessionResource `json:"session"`
	PlayerID string           `json:"playerId"`
}

func NewCountdown(cd *model.Countdown) *CountdownResource {
	if cd == nil {
		return nil
	}
	return &CountdownResource{Kind: string(cd.Kind), Minutes: cd.Minutes}
}

func NewSession(m *model.Session, state model.State, cd *model.Countdown, maxPlayers int) (out *SessionResource) {
	out = &SessionResource{
		ID:          m.ID,
		Slot:        m.Slot.Label(),
		Creator:     m.Creator,
		Players:     make([]*PlayerResource, 0, len(m.Players)),
		PlayerCount: len(m.Players),
		MaxPlayers:  maxPlayers,
		State:       state.String(),
		Countdown:   NewCountdown(cd),
		OpenAt:      m.OpenAt,
		ExpiresAt:   m.ExpiresAt,
	}

	for _, p := range m.Players {
		out.Players = append(out.Players, &PlayerResource{ID: p.ID, DisplayName: p.DisplayName})
	}

	return // out
}
