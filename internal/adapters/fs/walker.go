// Package fs provides the filesystem adapters: the artifact store and the
// content checksummer used by the status view.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// DefaultIgnores are file patterns that never count towards a directory
// artifact's checksum.
var DefaultIgnores = []string{".DS_Store", "Thumbs.db", "*.swp", "*~"}

// Walker yields the files below a directory artifact.
type Walker struct {
	ignores []string
}

// NewWalker creates a Walker that skips entries matching any of ignores.
// VCS metadata directories are always skipped.
func NewWalker(ignores ...string) *Walker {
	return &Walker{ignores: ignores}
}

// WalkFiles yields every regular file under root in lexical order.
// Yielded paths include root as a prefix.
func (w *Walker) WalkFiles(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != root && w.skip(d) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Walker) skip(d fs.DirEntry) bool {
	name := d.Name()
	if d.IsDir() && (name == ".git" || name == ".jj") {
		return true
	}
	for _, ignore := range w.ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}
