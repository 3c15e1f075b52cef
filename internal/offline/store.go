package offline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Storage keys for the two persisted collections.
const (
	KeyTransactions = "offline_transactions"
	KeyProducts     = "offline_products"
)

// SnapshotVersion is written into every persisted envelope so future
// format changes can be detected instead of silently misread.
const SnapshotVersion = 1

// Store is durable string-keyed storage for serialized snapshots.
// Implementations must treat a missing key as (nil, nil), not an error.
type Store interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
	Close() error
}

// FileStore keeps one JSON document per key in a directory. Every save
// fully overwrites the previous snapshot.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	// Keys are fixed constants, but sanitize anyway
	key = strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(s.dir, key+".json")
}

// Load returns the stored snapshot, or (nil, nil) when absent.
func (s *FileStore) Load(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Save overwrites the snapshot for the key.
func (s *FileStore) Save(key string, data []byte) error {
	return os.WriteFile(s.path(key), data, 0o644)
}

// Close is a no-op for file storage.
func (s *FileStore) Close() error { return nil }
