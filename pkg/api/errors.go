package api

import (
	"net/http"

	"github.com/fafukeh/AramEnjoyer/pkg/model"
	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"
)

const (
	errCodeBadRequest = "ERR_BAD_REQUEST"
	errCodeInternal   = "ERR_INTERNAL"
)

type errorResource struct {
	Error string `json:"error"`
}

var errorStatus = map[model.Error]int{
	model.ErrEmptyUsername:     http.StatusBadRequest,
	model.ErrInvalidSlot:       http.StatusBadRequest,
	model.ErrSessionNotFound:   http.StatusNotFound,
	model.ErrPlayerNotFound:    http.StatusNotFound,
	model.ErrSlotTaken:         http.StatusConflict,
	model.ErrSessionFull:       http.StatusConflict,
	model.ErrDuplicateUsername: http.StatusConflict,
}

// replyError sends the error kind as JSON. Anything that is not a board
// error is logged and answered with 500.
func replyError(c echo.Context, err error) error {
	kind, ok := model.KindOf(err)
	if !ok {
		log.WithError(err).Error("api: unexpected error")
		return c.JSON(http.StatusInternalServerError, &errorResource{Error: errCodeInternal})
	}

	status, ok := errorStatus[kind]
	if !ok {
		status = http.StatusBadRequest
	}
	return c.JSON(status, &errorResource{Error: kind.String()})
}

func replyBadRequest(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, &errorResource{Error: errCodeBadRequest})
}
