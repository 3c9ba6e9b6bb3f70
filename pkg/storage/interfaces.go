package storage

import "github.com/fafukeh/AramEnjoyer/pkg/model"

// SnapshotStore persists the whole board at once. Load returns ErrNotFound
// when no snapshot was ever saved. Derived state is never stored.
type SnapshotStore interface {
	Load() ([]model.Session, error)
	Save(sessions []model.Session) error
}
