package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrSchemaMismatch is returned when the settings file was written with a
// different schema version.
var ErrSchemaMismatch = errors.New("settings schema version mismatch")

// Store persists settings as a JSON file guarded by a file lock.
type Store struct {
	path string
}

// NewStore creates a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) lock() *flock.Flock {
	return flock.New(s.path + ".lock")
}

// Load reads the settings file. It returns nil settings without error when
// the file does not exist, and ErrSchemaMismatch for incompatible files.
func (s *Store) Load() (*Settings, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}

	fileLock := s.lock()
	if err := fileLock.RLock(); err != nil {
		return nil, fmt.Errorf("failed to lock settings: %w", err)
	}
	defer func() { _ = fileLock.Unlock() }()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var st Settings
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if st.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: file has %d, want %d", ErrSchemaMismatch, st.SchemaVersion, SchemaVersion)
	}

	return &st, nil
}

// Save writes settings, replacing the file atomically.
func (s *Store) Save(st *Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	fileLock := s.lock()
	if err := fileLock.Lock(); err != nil {
		return fmt.Errorf("failed to lock settings: %w", err)
	}
	defer func() { _ = fileLock.Unlock() }()

	st.SchemaVersion = SchemaVersion
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace settings: %w", err)
	}

	return nil
}
