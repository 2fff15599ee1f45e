package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records the progress of task runs.
type Telemetry interface {
	// Record starts a vertex for a unit of work and returns a context carrying it.
	Record(ctx context.Context, name string, opts ...VertexOption) (context.Context, Vertex)
	// Close flushes the recording session.
	Close() error
}

// Vertex is a single recorded unit of work.
type Vertex interface {
	// Stdout returns a writer for the standard output of the work.
	Stdout() io.Writer
	// Stderr returns a writer for the error output of the work.
	Stderr() io.Writer
	// Complete marks the vertex as finished; err is nil on success.
	Complete(err error)
	// Cached marks the vertex as satisfied without running.
	Cached()
}

// VertexConfig holds the settings of a vertex.
type VertexConfig struct {
	// ID identifies the vertex. It defaults to the vertex name.
	ID string
}

// VertexOption configures a vertex.
type VertexOption func(*VertexConfig)

// WithVertexID sets a stable identity for the vertex, distinct from its display name.
func WithVertexID(id string) VertexOption {
	return func(c *VertexConfig) {
		c.ID = id
	}
}

// NewVertexConfig applies opts over the defaults for a vertex called name.
func NewVertexConfig(name string, opts ...VertexOption) VertexConfig {
	cfg := VertexConfig{ID: name}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

type vertexKey struct{}

// ContextWithVertex returns a copy of ctx carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex carried by ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
