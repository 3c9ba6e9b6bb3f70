package file

import (
	"time"

	"github.com/fafukeh/AramEnjoyer/pkg/model"
)

type fileDataPlayer struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type fileDataSession struct {
	ID        string           `json:"id"`
	Slot      string           `json:"slot"`
	Creator   string           `json:"creator"`
	OpenAt    time.Time        `json:"openAt"`
	ExpiresAt time.Time        `json:"expiresAt"`
	CreatedAt time.Time        `json:"createdAt"`
	Players   []fileDataPlayer `json:"players"`
}

func (d *fileDataSession) Scan(m *model.Session) {
	d.ID = m.ID
	d.Slot = m.Slot.Label()
	d.Creator = m.Creator
	d.OpenAt = m.OpenAt
	d.ExpiresAt = m.ExpiresAt
	d.CreatedAt = m.CreatedAt

	d.Players = make([]fileDataPlayer, 0, len(m.Players))
	for _, p := range m.Players {
		d.Players = append(d.Players, fileDataPlayer{ID: p.ID, DisplayName: p.DisplayName})
	}
}

func (d *fileDataSession) Model() (*model.Session, error) {
	slot, err := model.ParseSlot(d.Slot)
	if err != nil {
		return nil, err
	}

	m := &model.Session{
		ID:        d.ID,
		Slot:      slot,
		Creator:   d.Creator,
		OpenAt:    d.OpenAt,
		ExpiresAt: d.ExpiresAt,
		CreatedAt: d.CreatedAt,
		Players:   make([]model.Player, 0, len(d.Players)),
	}
	for _, p := range d.Players {
		m.Players = append(m.Players, model.Player{ID: p.ID, DisplayName: p.DisplayName})
	}

	return m, nil
}
