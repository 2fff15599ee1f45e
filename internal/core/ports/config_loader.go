package ports

import "go.trai.ch/mill/internal/core/domain"

// ConfigLoader defines the interface for loading a pipeline definition.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the pipeline definition at path and returns the populated pipeline.
	Load(path string) (*domain.Pipeline, error)
}

// FuncResolver maps the function names used in pipeline definitions to task bodies.
type FuncResolver interface {
	// Lookup returns the task function registered under name.
	Lookup(name string) (domain.Func, bool)
	// Names returns the registered names in sorted order.
	Names() []string
}
