package domain_test

import (
	"path/filepath"
	"testing"

	"go.trai.ch/mill/internal/core/domain"
)

func TestPath_Identity(t *testing.T) {
	p1 := domain.NewPath("build/out/../source.txt")
	p2 := domain.NewPath("build/source.txt")

	if p1 != p2 {
		t.Errorf("Expected cleaned paths to be equal, got %q and %q", p1, p2)
	}
	if p1.Key() != filepath.Clean("build/source.txt") {
		t.Errorf("Expected key %q, got %q", filepath.Clean("build/source.txt"), p1.Key())
	}

	m := map[domain.Path]int{p1: 1}
	if m[p2] != 1 {
		t.Error("Expected equal paths to share a map key")
	}
}

func TestPath_Zero(t *testing.T) {
	var zero domain.Path
	if !zero.IsZero() {
		t.Error("Expected zero value to report IsZero")
	}
	if zero.String() != "" {
		t.Errorf("Expected empty string, got %q", zero.String())
	}
	if !domain.NewPath("").IsZero() {
		t.Error("Expected NewPath(\"\") to be zero")
	}
}

func TestPath_JoinAndDir(t *testing.T) {
	base := domain.NewPath("build")
	got := base.Join("out", "hello.txt")

	if got.String() != filepath.Join("build", "out", "hello.txt") {
		t.Errorf("Unexpected join result %q", got)
	}
	if got.Dir() != domain.NewPath(filepath.Join("build", "out")) {
		t.Errorf("Unexpected dir %q", got.Dir())
	}
}

func TestPath_Text(t *testing.T) {
	original := domain.NewPath("out/hello.txt")

	data, err := original.MarshalText()
	if err != nil {
		t.Fatalf("Failed to marshal Path: %v", err)
	}

	var decoded domain.Path
	if err := decoded.UnmarshalText(data); err != nil {
		t.Fatalf("Failed to unmarshal Path: %v", err)
	}
	if decoded != original {
		t.Errorf("Expected %q, got %q", original, decoded)
	}
}
