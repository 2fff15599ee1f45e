package ports

import "go.trai.ch/mill/internal/core/domain"

// Checksummer computes content checksums of artifacts for display.
//
//go:generate mockgen -source=checksummer.go -destination=mocks/mock_checksummer.go -package=mocks
type Checksummer interface {
	// Checksum returns the hex checksum of the file at path.
	Checksum(path domain.Path) (string, error)
}
