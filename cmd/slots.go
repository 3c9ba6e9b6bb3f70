package cmd

import (
	"github.com/spf13/cobra"
)

// slotsCmd represents the slots command
var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "List the slots that can be booked right now",
	Run:   cmdHandler.Slots.ListSlots,
}

func init() {
	RootCmd.AddCommand(slotsCmd)
}
