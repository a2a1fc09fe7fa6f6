package store

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-faster/errors"
)

var _ Store = (*FileStore)(nil)

// FileStore persists each key as a JSON file inside a single directory.
// Writes go through a temp file and rename so a crash mid-write never leaves
// a torn value behind.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore creates (if needed) the data directory and returns a store
// backed by it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create data dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Get returns the blob stored under key, or ErrNotFound.
func (s *FileStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "read %q", key)
	}
	return blob, nil
}

// Set stores the blob under key atomically.
func (s *FileStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+sanitize(key)+"-*")
	if err != nil {
		return errors.Wrapf(err, "create temp for %q", key)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "write %q", key)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "close temp for %q", key)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "commit %q", key)
	}
	return nil
}

// Remove deletes the value under key. Absent keys are a no-op.
func (s *FileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove %q", key)
	}
	return nil
}

// Ping reports whether the data directory is still writable. Used as a
// readiness check.
func (s *FileStore) Ping() error {
	f, err := os.CreateTemp(s.dir, ".ping-*")
	if err != nil {
		return errors.Wrap(err, "data dir not writable")
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, sanitize(key)+".json")
}

// sanitize keeps keys safe to use as file names.
func sanitize(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
}
