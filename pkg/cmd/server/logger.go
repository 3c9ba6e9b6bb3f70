package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"
)

// logger returns a middleware that logs HTTP requests.
func logger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			var err error
			if err = next(c); err != nil {
				c.Error(err)
			}
			latency := time.Since(start)

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
			}
			bytesIn, perr := strconv.ParseInt(req.Header.Get(echo.HeaderContentLength), 10, 64)
			if perr != nil {
				bytesIn = 0
			}

			entry := log.WithFields(log.Fields{
				"id":            id,
				"remote_ip":     c.RealIP(),
				"method":        req.Method,
				"uri":           req.RequestURI,
				"route":         c.Path(),
				"status":        res.Status,
				"status_text":   http.StatusText(res.Status),
				"user_agent":    req.UserAgent(),
				"bytes_in":      bytesIn,
				"bytes_out":     res.Size,
				"latency_human": latency.String(),
			})
			if err != nil {
				entry = entry.WithError(err)
			}

			// the realtime feed stays open for the whole connection
			if c.Path() == "/api/v1/realtime-events" {
				entry.Debugf("%s %s closed after %s", req.Method, req.RequestURI, latency)
				return err
			}

			entry.Infof("%s %s %s %d", req.Method, req.RequestURI, req.Proto, res.Status)
			return err
		}
	}
}
