package progrock

import (
	"io"

	"github.com/vito/progrock"
)

// Vertex implements ports.Vertex over a progrock vertex recorder.
type Vertex struct {
	vertex *progrock.VertexRecorder
}

// Stdout returns the stream the task's standard output is recorded to.
func (v *Vertex) Stdout() io.Writer {
	return v.vertex.Stdout()
}

// Stderr returns the stream the task's error output is recorded to.
func (v *Vertex) Stderr() io.Writer {
	return v.vertex.Stderr()
}

// Complete marks the vertex as done; a non-nil err marks it failed.
func (v *Vertex) Complete(err error) {
	v.vertex.Done(err)
}

// Cached marks the vertex as satisfied by an existing artifact.
func (v *Vertex) Cached() {
	v.vertex.Cached()
}
