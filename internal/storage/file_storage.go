package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStorage stages output files next to their destination and promotes
// them only once they are complete.
type FileStorage struct{}

// NewFileStorage creates a new FileStorage instance.
func NewFileStorage() *FileStorage {
	return &FileStorage{}
}

// StagingPath returns a unique temporary path in the same directory as dest.
func (s *FileStorage) StagingPath(dest string) string {
	dir, name := filepath.Split(dest)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.part", name, uuid.NewString()))
}

// CreateStaging creates a new staging file for dest and returns it with its path.
func (s *FileStorage) CreateStaging(dest string) (*os.File, string, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create directory %s: %w", dir, err)
	}

	path := s.StagingPath(dest)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, "", err
	}
	return f, path, nil
}

// Commit moves a finished staging file over dest, replacing any existing file.
func (s *FileStorage) Commit(stagingPath, dest string) error {
	return os.Rename(stagingPath, dest)
}

// Discard removes a staging file. A missing file is not an error.
func (s *FileStorage) Discard(stagingPath string) error {
	if err := os.Remove(stagingPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
