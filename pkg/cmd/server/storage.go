package server

import (
	"github.com/fafukeh/AramEnjoyer/config"
	"github.com/fafukeh/AramEnjoyer/pkg/storage"
	"github.com/fafukeh/AramEnjoyer/pkg/storage/file"
	"github.com/fafukeh/AramEnjoyer/pkg/storage/memory"
	"github.com/fafukeh/AramEnjoyer/pkg/storage/postgres"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// newSnapshotStore opens the configured storage driver. The returned db is
// nil unless the postgres driver is used.
func newSnapshotStore(c *config.Config) (storage.SnapshotStore, *sqlx.DB, error) {
	switch c.StorageDriver {
	case config.StorageDriverMemory:
		log.Warn("Using the memory storage driver, the board is lost on restart")
		return memory.NewStore(), nil, nil
	case config.StorageDriverFile:
		log.WithField("path", c.SnapshotFile).Info("Using the file storage driver")
		return file.NewStore(c.SnapshotFile), nil, nil
	case config.StorageDriverPostgres:
		db, err := sqlx.Connect("postgres", c.DatabaseURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to connect to postgres")
		}
		log.Info("Using the postgres storage driver")
		return postgres.NewStore(db), db, nil
	}

	return nil, nil, errors.Wrapf(storage.ErrUnknownDriver, "driver %q", c.StorageDriver)
}
