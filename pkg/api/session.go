package api

import (
	"net/http"

	"github.com/fafukeh/AramEnjoyer/pkg/api/resource"
	"github.com/fafukeh/AramEnjoyer/pkg/model"
	"github.com/labstack/echo"
)

type createSessionRequest struct {
	Creator string `json:"creator"`
	Slot    string `json:"slot"`
}

type joinSessionRequest struct {
	DisplayName string `json:"displayName"`
}

func (h *Handler) sessionResource(m *model.Session) *resource.SessionResource {
	state, cd := h.board.Describe(m)
	return resource.NewSession(m, state, cd, h.board.MaxPlayers())
}

func (h *Handler) handleFetchSessions(c echo.Context) error {
	out := &resource.SessionListResource{
		Members: make([]*resource.SessionResource, 0),
	}
	for _, m := range h.board.Sessions() {
		out.Members = append(out.Members, h.sessionResource(&m))
	}

	return c.JSON(http.StatusOK, out)
}

func (h *Handler) handleGetSessionByID(c echo.Context) error {
	m, err := h.board.Session(c.Param("id"))
	if err != nil {
		return replyError(c, err)
	}

	return c.JSON(http.StatusOK, h.sessionResource(m))
}

func (h *Handler) handleCreateSession(c echo.Context) error {
	req := createSessionRequest{}
	if err := c.Bind(&req); err != nil {
		return replyBadRequest(c)
	}

	m, err := h.board.CreateSession(req.Creator, req.Slot)
	if err != nil {
		return replyError(c, err)
	}

	return c.JSON(http.StatusCreated, h.sessionResource(m))
}

func (h *Handler) handleJoinSession(c echo.Context) error {
	req := joinSessionRequest{}
	if err := c.Bind(&req); err != nil {
		return replyBadRequest(c)
	}

	m, p, err := h.board.JoinSession(c.Param("id"), req.DisplayName)
	if err != nil {
		return replyError(c, err)
	}

	return c.JSON(http.StatusOK, &resource.MembershipResource{
		Session:  h.sessionResource(m),
		PlayerID: p.ID,
	})
}

func (h *Handler) handleLeaveSession(c echo.Context) error {
	m, removed, err := h.board.LeaveSession(c.Param("id"), c.Param("playerId"))
	if err != nil {
		return replyError(c, err)
	}
	if removed {
		return c.NoContent(http.StatusNoContent)
	}

	return c.JSON(http.StatusOK, h.sessionResource(m))
}
