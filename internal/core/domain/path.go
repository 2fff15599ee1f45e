package domain

import (
	"path/filepath"
	"unique"
)

// Path is the output identity of a task.
// The underlying string is cleaned and interned, so two Paths naming the same
// location compare equal and can be used directly as map keys.
type Path struct {
	h unique.Handle[string]
}

// NewPath creates a Path from a filesystem path. The path is cleaned with
// filepath.Clean; an empty string yields the zero Path.
func NewPath(s string) Path {
	if s == "" {
		return Path{}
	}
	return Path{h: unique.Make(filepath.Clean(s))}
}

// String returns the cleaned path.
func (p Path) String() string {
	var zero unique.Handle[string]
	if p.h == zero {
		return ""
	}
	return p.h.Value()
}

// Key returns the canonical identity used for deduplication and ordering.
func (p Path) Key() string {
	return p.String()
}

// IsZero reports whether p is the zero Path.
func (p Path) IsZero() bool {
	var zero unique.Handle[string]
	return p.h == zero
}

// IsAbs reports whether the path is absolute.
func (p Path) IsAbs() bool {
	return filepath.IsAbs(p.String())
}

// Join returns the path formed by joining elem onto p.
func (p Path) Join(elem ...string) Path {
	parts := append([]string{p.String()}, elem...)
	return NewPath(filepath.Join(parts...))
}

// Dir returns the parent directory of p.
func (p Path) Dir() Path {
	return NewPath(filepath.Dir(p.String()))
}

// MarshalText implements encoding.TextMarshaler.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(text []byte) error {
	*p = NewPath(string(text))
	return nil
}
