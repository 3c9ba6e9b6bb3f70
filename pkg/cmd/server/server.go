package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fafukeh/AramEnjoyer/config"
	"github.com/fafukeh/AramEnjoyer/pkg/api"
	"github.com/fafukeh/AramEnjoyer/pkg/clock"
	"github.com/fafukeh/AramEnjoyer/pkg/controller"
	"github.com/fafukeh/AramEnjoyer/pkg/events"
	"github.com/fafukeh/AramEnjoyer/pkg/events/natsio"
	"github.com/fafukeh/AramEnjoyer/pkg/slot"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	nats "github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type boardServer struct {
	c      *config.Config
	nc     *nats.Conn
	db     *sqlx.DB
	feed   *events.Feed
	ctrl   *controller.Controller
	cancel context.CancelFunc
	e      *echo.Echo
	doneCh chan bool
}

func newBoardServer(c *config.Config) (*boardServer, error) {
	s := &boardServer{
		c:      c,
		feed:   events.NewFeed(),
		doneCh: make(chan bool, 1),
	}

	pub := events.Multi{s.feed}
	if c.NATSServerURL != "" {
		nc, err := natsio.Connect(c.NATSServerURL)
		if err != nil {
			return nil, err
		}
		s.nc = nc
		pub = append(pub, natsio.NewPublisher(nc, natsio.Config{
			BaseSubject: c.NATSSubject,
			Namespace:   c.Namespace,
		}))
		log.WithField("url", c.NATSServerURL).Info("Publishing board events to NATS")
	}

	snapshots, db, err := newSnapshotStore(c)
	if err != nil {
		s.close()
		return nil, err
	}
	s.db = db

	s.ctrl = controller.New(clock.New(), slot.New(c.Policy()), snapshots, pub, c.Options())

	return s, nil
}

func (s *boardServer) Serve() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	if err := s.ctrl.Start(ctx); err != nil {
		return err
	}
	log.WithField("next_reset", s.ctrl.NextReset()).Info("Board is running")

	s.e = echo.New()
	s.e.HideBanner = true
	s.e.HidePort = true

	s.e.Use(middleware.Recover())
	s.e.Use(logger())

	// Register API endpoints
	api.NewHandler(s.ctrl, s.feed).RegisterRoutes(s.e)

	go func() {
		log.WithFields(log.Fields{
			"host": s.c.BindHost,
			"port": s.c.BindPort,
		}).Info("Starting server")

		err := s.e.Start(fmt.Sprintf("%s:%d", s.c.BindHost, s.c.BindPort))
		if err != nil && err != http.ErrServerClosed {
			log.Error("server stopped: ", err)
		} else {
			log.Info("Shutting down the server")
		}
		s.doneCh <- true
	}()

	return nil
}

func (s *boardServer) Shutdown() {
	// Create a 10 second timeout context
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown the echo web server
	if err := s.e.Shutdown(ctx); err != nil {
		log.Error(err)
	}

	select {
	case <-s.doneCh:
		log.Info("Shutdown server successful")
	case <-time.After(10 * time.Second):
		log.Error("Shutdown server failed")
	}

	// Stop the scheduler only after the last request is answered
	s.cancel()
	s.close()
}

func (s *boardServer) close() {
	if s.nc != nil {
		if err := s.nc.Drain(); err != nil {
			log.Error("failed to drain NATS connection: ", err)
		}
	}
	if s.db != nil {
		s.db.Close()
	}
}

func RunServeBoard(c *config.Config) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		setupLogging(c)

		if err := c.Validate(); err != nil {
			log.Error(err)
			os.Exit(2)
		}

		s, err := newBoardServer(c)
		if err != nil {
			log.Error("failed to create new server instance: ", err)
			os.Exit(1)
		}

		if err := s.Serve(); err != nil {
			log.Error("failed to start server: ", err)
			os.Exit(1)
		}

		// Wait for interrupt signal to gracefully shutdown the server
		quitCh := make(chan os.Signal, 1)
		signal.Notify(quitCh, os.Interrupt, syscall.SIGTERM)
		<-quitCh
		log.Info("Shutdown signal received")

		// Shutdown the server
		s.Shutdown()
	}
}

func setupLogging(c *config.Config) {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(c.Level())
}
