// Package telemetry holds telemetry adapters that need no recording backend.
package telemetry

import (
	"context"
	"io"

	"go.trai.ch/mill/internal/core/ports"
)

// NoOp implements ports.Telemetry and records nothing.
type NoOp struct{}

var _ ports.Telemetry = NoOp{}

// Record returns ctx unchanged and a vertex that discards everything.
func (NoOp) Record(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	return ctx, noopVertex{}
}

// Close does nothing.
func (NoOp) Close() error { return nil }

type noopVertex struct{}

func (noopVertex) Stdout() io.Writer { return io.Discard }
func (noopVertex) Stderr() io.Writer { return io.Discard }
func (noopVertex) Complete(error) {}
func (noopVertex) Cached() {}
