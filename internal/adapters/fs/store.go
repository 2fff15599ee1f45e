package fs

import (
	"errors"
	iofs "io/fs"
	"os"

	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/zerr"
)

var _ domain.ArtifactStore = (*Store)(nil)

const (
	filePerm = 0o644
	dirPerm  = 0o755
)

// Store implements domain.ArtifactStore on the local filesystem.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Exists reports whether a file or directory is present at path.
func (s *Store) Exists(path domain.Path) (bool, error) {
	if _, err := os.Stat(path.String()); err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat artifact"), "path", path.String())
	}
	return true, nil
}

// Read returns the contents of the file at path.
func (s *Store) Read(path domain.Path) ([]byte, error) {
	data, err := os.ReadFile(path.String())
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read artifact"), "path", path.String())
	}
	return data, nil
}

// Write replaces the contents of the file at path.
func (s *Store) Write(path domain.Path, data []byte) error {
	if err := os.WriteFile(path.String(), data, filePerm); err != nil { //nolint:gosec // artifacts are meant to be readable
		return zerr.With(zerr.Wrap(err, "failed to write artifact"), "path", path.String())
	}
	return nil
}

// Mkdir creates the directory at path. The parent must already exist.
func (s *Store) Mkdir(path domain.Path) error {
	if err := os.Mkdir(path.String(), dirPerm); err != nil { //nolint:gosec // artifacts are meant to be readable
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", path.String())
	}
	return nil
}
