package cmd

import (
	"github.com/spf13/cobra"
)

// migrateSQLCmd represents the migrate sql command
var migrateSQLCmd = &cobra.Command{
	Use:   "sql [database-url]",
	Short: "Create the snapshot tables and apply migration plans",
	Long: `Applies the SQL migrations of the postgres storage driver. The database
url defaults to DATABASE_URL.`,
	Run: cmdHandler.Migration.MigrateSQL,
}

func init() {
	migrateSQLCmd.Flags().Bool("down", false, "roll the migrations back instead")
	migrateCmd.AddCommand(migrateSQLCmd)
}
