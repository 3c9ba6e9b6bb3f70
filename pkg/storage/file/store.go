// Package file stores the board snapshot as a JSON document on disk.
package file

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/fafukeh/AramEnjoyer/pkg/model"
	"github.com/fafukeh/AramEnjoyer/pkg/storage"
	"github.com/pkg/errors"
)

type store struct {
	path string
	sync.Mutex
}

// NewStore creates a file based SnapshotStore writing to path.
func NewStore(path string) storage.SnapshotStore {
	return &store{path: path}
}

func (s *store) Load() ([]model.Session, error) {
	s.Lock()
	defer s.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read snapshot")
	}

	rows := make([]fileDataSession, 0)
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.Wrapf(err, "failed to decode snapshot %s", s.path)
	}

	models := make([]model.Session, 0, len(rows))
	for _, d := range rows {
		m, err := d.Model()
		if err != nil {
			return nil, errors.Wrap(err, "failed to convert snapshot data to session model")
		}
		models = append(models, *m)
	}

	return models, nil
}

// Save replaces the snapshot. The document is written to a temporary file
// first and renamed, so a crash never leaves a truncated snapshot behind.
func (s *store) Save(sessions []model.Session) error {
	s.Lock()
	defer s.Unlock()

	rows := make([]fileDataSession, 0, len(sessions))
	for i := range sessions {
		d := fileDataSession{}
		d.Scan(&sessions[i])
		rows = append(rows, d)
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode snapshot")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create snapshot directory")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create snapshot")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write snapshot")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to write snapshot")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, "failed to replace snapshot")
	}

	return nil
}
