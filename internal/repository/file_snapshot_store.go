package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/stemsi/interview-assistant/internal/model"
)

// FileSnapshotStore keeps the snapshot in a single JSON file on local disk.
type FileSnapshotStore struct {
	path string
}

// NewFileSnapshotStore creates a store writing <dir>/<name>.json.
func NewFileSnapshotStore(dir, name string) *FileSnapshotStore {
	return &FileSnapshotStore{path: filepath.Join(dir, name+".json")}
}

// Path returns the snapshot file location.
func (s *FileSnapshotStore) Path() string {
	return s.path
}

func (s *FileSnapshotStore) Load(_ context.Context) (*model.AppState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("read snapshot %s: %w", s.path, err)
	}
	return DecodeSnapshot(data)
}

// Save writes to a temp file and renames it over the snapshot so a crash
// mid-write never leaves a truncated blob behind.
func (s *FileSnapshotStore) Save(_ context.Context, state *model.AppState) error {
	data, err := EncodeSnapshot(state, time.Now())
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
