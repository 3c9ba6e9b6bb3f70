package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fafukeh/AramEnjoyer/config"
	"github.com/fafukeh/AramEnjoyer/pkg/events/natsio"
	nats "github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type WatchHandler struct {
	c *config.Config
}

func newWatchHandler(c *config.Config) *WatchHandler {
	return &WatchHandler{c: c}
}

// Watch prints every board event published on NATS until interrupted.
func (h *WatchHandler) Watch(cmd *cobra.Command, args []string) {
	setupColorLogging()

	url := h.c.NATSServerURL
	if url == "" {
		url = nats.DefaultURL
	}

	nc, err := natsio.Connect(url)
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
	defer nc.Close()

	subject := natsio.Subject(h.c.NATSSubject, h.c.Namespace, ">")
	if _, err := nc.Subscribe(subject, func(m *nats.Msg) {
		fmt.Println(formatMessage(m.Subject, m.Data))
	}); err != nil {
		log.Error(err)
		os.Exit(1)
	}
	log.WithField("subject", subject).Info("Watching board events")

	// Wait for interrupt signal
	quitCh := make(chan os.Signal, 1)
	signal.Notify(quitCh, os.Interrupt)
	<-quitCh
}

// formatMessage renders an event message on one line. Messages that do not
// decode are printed raw.
func formatMessage(subject string, data []byte) string {
	msg := natsio.EventMessage{}
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Sprintf("subject: %s, message: %s", subject, string(data))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %-16s %s", msg.Timestamp.Format("15:04:05"), msg.Topic, msg.SourceType)
	if msg.SourceID != "" {
		fmt.Fprintf(&b, " %s", msg.SourceID)
	}
	if len(msg.Details) > 0 {
		fmt.Fprintf(&b, " %s", string(msg.Details))
	}
	return b.String()
}
