package cli

import (
	"fmt"
	"os"

	"github.com/fafukeh/AramEnjoyer/config"
	"github.com/fafukeh/AramEnjoyer/db"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	colorable "github.com/mattn/go-colorable"
	migrate "github.com/rubenv/sql-migrate"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type MigrateHandler struct {
	c *config.Config
}

func newMigrateHandler(c *config.Config) *MigrateHandler {
	return &MigrateHandler{c: c}
}

// getDatabaseURL takes the url from the arguments and falls back to the
// configured DATABASE_URL.
func (h *MigrateHandler) getDatabaseURL(cmd *cobra.Command, args []string, position int) (url string) {
	if len(args) > position {
		url = args[position]
	}
	if url == "" {
		url = h.c.DatabaseURL
	}
	if url == "" {
		fmt.Println(cmd.UsageString())
	}
	return
}

func setupColorLogging() {
	log.SetLevel(log.DebugLevel)
	log.SetFormatter(&log.TextFormatter{
		ForceColors: true,
	})
	log.SetOutput(colorable.NewColorableStdout())
}

func (h *MigrateHandler) MigrateSQL(cmd *cobra.Command, args []string) {
	url := h.getDatabaseURL(cmd, args, 0)
	if url == "" {
		os.Exit(2) // Return missing keyword or command
	}

	setupColorLogging()

	direction := migrate.Up
	if down, _ := cmd.Flags().GetBool("down"); down {
		direction = migrate.Down
	}

	log.WithField("direction", directionName(direction)).Info("Applying SQL migration...")

	// Connect to PostgreSQL database
	conn, err := sqlx.Open("postgres", url)
	if err != nil {
		log.Errorf("An error occurred while connecting to SQL: %s", err)
		os.Exit(1)
	}
	defer conn.Close()

	// Check the database connection
	if err := conn.Ping(); err != nil {
		log.Errorf("An error occurred while connecting to SQL: %s", err)
		os.Exit(1)
	}

	// Exec db migrations
	n, err := migrate.Exec(conn.DB, "postgres", db.Migrations(), direction)
	if err != nil {
		log.Errorf("An error occurred while running the migrations: %s", err)
		os.Exit(1)
	}
	log.Infof("Migration successful! Applied a total of %d migrations.", n)
}

func directionName(d migrate.MigrationDirection) string {
	if d == migrate.Down {
		return "down"
	}
	return "up"
}
