package domain

import "slices"

// Generator binds a task function once and produces a new task per call.
type Generator struct {
	fn   Func
	opts []TaskOption
}

// NewGenerator returns a Generator for fn. The options are applied to every
// task it produces, before the per-call options.
func NewGenerator(fn Func, opts ...TaskOption) *Generator {
	return &Generator{fn: fn, opts: opts}
}

// Task builds a task from the bound function.
func (g *Generator) Task(opts ...TaskOption) (*Task, error) {
	return NewTask(g.fn, slices.Concat(g.opts, opts)...)
}
