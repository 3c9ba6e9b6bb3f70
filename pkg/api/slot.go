package api

import (
	"net/http"

	"github.com/fafukeh/AramEnjoyer/pkg/api/resource"
	"github.com/labstack/echo"
)

func (h *Handler) handleFetchSlots(c echo.Context) error {
	out := &resource.SlotListResource{
		Members: make([]*resource.SlotResource, 0),
	}

	for i, opt := range h.board.Slots() {
		// the first bookable slot is preselected
		out.Members = append(out.Members, resource.NewSlot(opt.Slot, opt.OpenAt, i == 0))
	}

	return c.JSON(http.StatusOK, out)
}
