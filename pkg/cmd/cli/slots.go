package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fafukeh/AramEnjoyer/config"
	"github.com/fafukeh/AramEnjoyer/pkg/slot"
	"github.com/spf13/cobra"
)

type SlotsHandler struct {
	c *config.Config
}

func newSlotsHandler(c *config.Config) *SlotsHandler {
	return &SlotsHandler{c: c}
}

// ListSlots prints the slots that can be booked right now.
func (h *SlotsHandler) ListSlots(cmd *cobra.Command, args []string) {
	if _, err := h.c.Location(); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	catalog := slot.New(h.c.Policy())
	if err := printSlots(os.Stdout, catalog, time.Now()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func printSlots(w io.Writer, catalog *slot.Catalog, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tOPENS\tDAY")

	n := 0
	for s := range catalog.Available(now) {
		day := "today"
		if catalog.DayOffset(s, now) > 0 {
			day = "tomorrow"
		}
		openAt := catalog.ResolveOpenAt(s, now)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Label(), openAt.Format("2006-01-02 15:04 MST"), day)
		n++
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "%d slot(s) until %s\n", n, catalog.NightEnd(now).Format("2006-01-02 15:04 MST"))
	return nil
}
