package storage

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"weatherproxy.app/internal/ports"
	"weatherproxy.app/pkg/errors"
)

// FileSnapshotStore writes one JSON file per snapshot into a data directory.
// Keys are file paths under that directory.
type FileSnapshotStore struct {
	dataDir string
}

// NewFileSnapshotStore creates a file store. The directory is created on first save.
func NewFileSnapshotStore(dataDir string) (*FileSnapshotStore, error) {
	if strings.TrimSpace(dataDir) == "" {
		return nil, errors.NewConfigurationError("snapshot data directory cannot be empty", nil)
	}
	return &FileSnapshotStore{dataDir: filepath.Clean(dataDir)}, nil
}

// Save writes the record and returns its file path
func (s *FileSnapshotStore) Save(ctx context.Context, record *ports.WeatherRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := encodeSnapshot(record)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return "", errors.NewStorageError("failed to create snapshot directory", err)
	}

	path := filepath.Join(s.dataDir, SnapshotName(record))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.NewStorageError("failed to write snapshot", err)
	}

	return path, nil
}

// Load reads a snapshot by the path Save returned or by its bare file name
func (s *FileSnapshotStore) Load(ctx context.Context, key string) (*ports.WeatherRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, ok := s.resolve(key)
	if !ok {
		return nil, errors.NewNotFoundError("snapshot not found")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewNotFoundError("snapshot not found")
		}
		return nil, errors.NewStorageError("failed to read snapshot", err)
	}

	return decodeSnapshot(data)
}

// resolve maps a key to a file inside the data directory and rejects anything else
func (s *FileSnapshotStore) resolve(key string) (string, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}

	candidate := filepath.Clean(key)
	if filepath.Base(candidate) == candidate {
		candidate = filepath.Join(s.dataDir, candidate)
	}

	dir, err := filepath.Abs(s.dataDir)
	if err != nil {
		return "", false
	}
	path, err := filepath.Abs(candidate)
	if err != nil {
		return "", false
	}

	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}

	return path, true
}
