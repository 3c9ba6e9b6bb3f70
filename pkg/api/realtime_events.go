package api

import (
	"encoding/json"

	"github.com/fafukeh/AramEnjoyer/pkg/api/resource"
	"github.com/fafukeh/AramEnjoyer/pkg/events"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"
)

const realtimeEventsBuffer = 64

func (h *Handler) realtimeEventResource(e events.Event) *resource.RealtimeEventResource {
	var sess *resource.SessionResource
	if e.Session != nil {
		sess = h.sessionResource(e.Session)
	}
	return resource.NewRealtimeEvent(e, sess)
}

func (h *Handler) realtimeEventsHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, _, _, err := ws.UpgradeHTTP(c.Request(), c.Response())
		if err != nil {
			log.Error("api: failed to upgrade to websocket: ", err)
			return nil
		}
		defer conn.Close()

		eventCh, cancel := h.feed.Subscribe(realtimeEventsBuffer)
		defer cancel()

		// Clients only listen. Reading detects the close frame or a dropped
		// connection.
		closedCh := make(chan struct{})
		go func() {
			defer close(closedCh)
			for {
				if _, _, err := wsutil.ReadClientData(conn); err != nil {
					return
				}
			}
		}()

		log.WithField("remote_ip", c.RealIP()).Debug("api: realtime events client connected")

		for {
			select {
			case <-closedCh:
				log.WithField("remote_ip", c.RealIP()).Debug("api: realtime events client disconnected")
				return nil
			case e, ok := <-eventCh:
				if !ok {
					return nil
				}

				out, err := json.Marshal(h.realtimeEventResource(e))
				if err != nil {
					log.Error("api: failed to encode realtime event: ", err)
					continue
				}
				if err := wsutil.WriteServerMessage(conn, ws.OpText, out); err != nil {
					log.Error("api: failed to send realtime event: ", err)
					return nil
				}
			}
		}
	}
}
