package memory

import (
	"sync"

	"github.com/fafukeh/AramEnjoyer/pkg/model"
	"github.com/fafukeh/AramEnjoyer/pkg/storage"
)

// store keeps the last snapshot in process memory. It is lost on restart.
type store struct {
	sessions []model.Session
	saved    bool
	sync.RWMutex
}

// NewStore creates a new memory-based SnapshotStore
func NewStore() storage.SnapshotStore {
	return &store{}
}

func (s *store) Load() ([]model.Session, error) {
	s.RLock()
	defer s.RUnlock()

	if !s.saved {
		return nil, storage.ErrNotFound
	}
	return clone(s.sessions), nil
}

func (s *store) Save(sessions []model.Session) error {
	s.Lock()
	defer s.Unlock()

	s.sessions = clone(sessions)
	s.saved = true

	return nil
}

func clone(sessions []model.Session) []model.Session {
	out := make([]model.Session, 0, len(sessions))
	for _, m := range sessions {
		out = append(out, m.Clone())
	}
	return out
}
