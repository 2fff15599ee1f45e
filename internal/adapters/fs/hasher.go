package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Checksummer = (*Hasher)(nil)

// Hasher computes xxhash checksums of artifacts.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// Checksum returns the checksum of the artifact at path. A file is hashed by
// content; a directory by the names and contents of the files below it.
func (h *Hasher) Checksum(path domain.Path) (string, error) {
	info, err := os.Stat(path.String())
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to stat artifact"), "path", path.String())
	}

	if !info.IsDir() {
		sum, err := h.ComputeFileHash(path.String())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%016x", sum), nil
	}

	hasher := xxhash.New()
	for file := range h.walker.WalkFiles(path.String()) {
		_, _ = hasher.WriteString(file)
		_, _ = hasher.Write([]byte{0})

		sum, err := h.ComputeFileHash(file)
		if err != nil {
			return "", err
		}
		if err := binary.Write(hasher, binary.LittleEndian, sum); err != nil {
			return "", zerr.Wrap(err, "failed to write hash to digest")
		}
	}
	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}
