// Package natsio publishes board events on a NATS subject hierarchy:
// <base>.<namespace>.events.<type>.
package natsio

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fafukeh/AramEnjoyer/pkg/events"
	nats "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const DefaultBaseSubject = "aramenjoyer.board.v1"

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subj string, data []byte) error
}

type Config struct {
	BaseSubject string
	Namespace   string
}

type Publisher struct {
	nc  Conn
	cfg Config
}

func NewPublisher(nc Conn, cfg Config) *Publisher {
	if cfg.BaseSubject == "" {
		cfg.BaseSubject = DefaultBaseSubject
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "default"
	}
	return &Publisher{
		nc:  nc,
		cfg: cfg,
	}
}

// Subject returns the subject events of the given topic are published on.
// Use ">" as topic to subscribe to all of them.
func Subject(base, namespace, topic string) string {
	return fmt.Sprintf("%s.%s.events.%s", base, namespace, topic)
}

// Publish never fails the caller; bus errors are logged.
func (p *Publisher) Publish(e events.Event) {
	data, err := json.Marshal(NewEventMessage(e))
	if err != nil {
		log.Errorf("natsio: could not marshal event: %v", err)
		return
	}

	subj := Subject(p.cfg.BaseSubject, p.cfg.Namespace, string(e.Type))
	if err := p.nc.Publish(subj, data); err != nil {
		log.WithField("subject", subj).Errorf("natsio: could not publish event: %v", err)
	}
}

// NewEventMessage converts a board event into its bus envelope.
func NewEventMessage(e events.Event) *EventMessage {
	msg := &EventMessage{
		SourceType: SourceTypeSession,
		SourceID:   e.SessionID,
		Topic:      string(e.Type),
		Timestamp:  e.Timestamp.Round(time.Second).UTC(),
	}

	var details interface{}
	switch e.Type {
	case events.TypeSessionCreated, events.TypeSessionUpdated:
		if e.Session != nil {
			d := sessionDetails{
				Slot:      e.Session.Slot.Label(),
				Creator:   e.Session.Creator,
				Players:   make([]playerDetails, 0, len(e.Session.Players)),
				OpenAt:    e.Session.OpenAt.UTC(),
				ExpiresAt: e.Session.ExpiresAt.UTC(),
			}
			for _, p := range e.Session.Players {
				d.Players = append(d.Players, playerDetails{ID: p.ID, DisplayName: p.DisplayName})
			}
			details = d
		}
	case events.TypeSessionRemoved:
		details = removedDetails{Reason: e.Reason}
	case events.TypeBoardReset:
		msg.SourceType = SourceTypeBoard
		removed := e.Removed
		if removed == nil {
			removed = []string{}
		}
		details = resetDetails{Removed: removed}
	case events.TypeCountdownTick:
		if e.Countdown != nil {
			details = countdownDetails{Kind: string(e.Countdown.Kind), Minutes: e.Countdown.Minutes}
		}
	}

	if details != nil {
		// the detail types only hold plain values, marshalling cannot fail
		msg.Details, _ = json.Marshal(details)
	}
	return msg
}

// Connect dials NATS with the reconnect and drain behaviour the server
// expects.
func Connect(url string, opts ...nats.Option) (*nats.Conn, error) {
	opts = append([]nats.Option{
		nats.DrainTimeout(10 * time.Second),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Errorf("natsio: async error: %v", err)
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warnf("natsio: disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infof("natsio: reconnected to %s", nc.ConnectedUrl())
		}),
	}, opts...)

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to nats at %s", url)
	}
	return nc, nil
}
