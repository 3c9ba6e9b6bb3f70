package cmd

import (
	"github.com/fafukeh/AramEnjoyer/pkg/cmd/server"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the board API and run the session scheduler",
	Run:   server.RunServeBoard(c),
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
