package domain

// ArtifactStore is the filesystem boundary tasks read from and write to.
// An artifact's existence is the only memoization signal.
//
//go:generate mockgen -source=artifact.go -destination=../ports/mocks/mock_artifact_store.go -package=mocks
type ArtifactStore interface {
	// Exists reports whether an artifact is present at path.
	Exists(path Path) (bool, error)
	// Read returns the contents of the artifact at path.
	Read(path Path) ([]byte, error)
	// Write replaces the contents of the artifact at path.
	Write(path Path, data []byte) error
	// Mkdir creates a single directory. Missing ancestors are not created.
	Mkdir(path Path) error
}
