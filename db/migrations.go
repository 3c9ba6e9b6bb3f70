// Package db bundles the SQL migrations into the binary.
package db

import (
	"embed"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var files embed.FS

// Migrations is the migration source for the postgres snapshot store.
func Migrations() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: files,
		Root:       "migrations",
	}
}
