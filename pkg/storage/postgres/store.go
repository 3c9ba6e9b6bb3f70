package postgres

import (
	"github.com/fafukeh/AramEnjoyer/pkg/model"
	"github.com/fafukeh/AramEnjoyer/pkg/storage"
	"github.com/jmoiron/sqlx"
)

// store keeps the board snapshot in the sessions and players tables
type store struct {
	db *sqlx.DB
}

// NewStore creates a new PostgreSQL based SnapshotStore
func NewStore(db *sqlx.DB) storage.SnapshotStore {
	return &store{db: db}
}

// Load never reports ErrNotFound: an empty table is an empty board.
func (s *store) Load() ([]model.Session, error) {
	return fetchAllSessions(s.db)
}

func (s *store) Save(sessions []model.Session) error {
	return replaceSessions(s.db, sessions)
}
