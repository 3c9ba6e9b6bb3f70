package api

import (
	"net/http"
	"time"

	"github.com/fafukeh/AramEnjoyer/pkg/controller"
	"github.com/fafukeh/AramEnjoyer/pkg/events"
	"github.com/fafukeh/AramEnjoyer/pkg/model"
	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"
)

// Board is the part of the controller the API serves.
type Board interface {
	Sessions() []model.Session
	Session(sessionID string) (*model.Session, error)
	CreateSession(creator, label string) (*model.Session, error)
	JoinSession(sessionID, displayName string) (*model.Session, *model.Player, error)
	LeaveSession(sessionID, playerID string) (*model.Session, bool, error)
	Slots() []controller.SlotOption
	Describe(sess *model.Session) (model.State, *model.Countdown)
	MaxPlayers() int
	Now() time.Time
}

// Handler contains all properties to serve the API
type Handler struct {
	board Board
	feed  *events.Feed
}

// NewHandler create a new API handler
func NewHandler(board Board, feed *events.Feed) *Handler {
	return &Handler{
		board: board,
		feed:  feed,
	}
}

// RegisterRoutes attaches the handlers to the echo web server
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	log.Debug("Register API routes")

	e.GET("/healthz", h.handleHealthz)

	api := e.Group("/api/v1")
	api.GET("/slots", h.handleFetchSlots)

	api.GET("/sessions", h.handleFetchSessions)
	api.POST("/sessions", h.handleCreateSession)
	api.GET("/sessions/:id", h.handleGetSessionByID)
	api.POST("/sessions/:id/players", h.handleJoinSession)
	api.DELETE("/sessions/:id/players/:playerId", h.handleLeaveSession)

	api.Any("/realtime-events", h.realtimeEventsHandler())
}

func (h *Handler) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
