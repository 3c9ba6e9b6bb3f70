package resource

import (
	"time"

	"github.com/fafukeh/AramEnjoyer/pkg/model"
)

type SlotResource struct {
	Label   string    `json:"label"`
	OpenAt  time.Time `json:"openAt"`
	Default bool      `json:"default,omitempty"`
}

type SlotListResource struct {
	Members []*SlotResource `json:"members"`
}

func NewSlot(s model.Slot, openAt time.Time, preselected bool) *SlotResource {
	return &SlotResource{
		Label:   s.Label(),
		OpenAt:  openAt,
		Default: preselected,
	}
}
