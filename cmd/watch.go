package cmd

import (
	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print board events published on NATS",
	Run:   cmdHandler.Watch.Watch,
}

func init() {
	RootCmd.AddCommand(watchCmd)
}
