// Package builtin provides the task functions available to pipeline files.
package builtin

import (
	"maps"
	"slices"

	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/core/ports"
)

// Registry implements ports.FuncResolver over a fixed set of functions.
type Registry struct {
	funcs map[string]domain.Func
}

var _ ports.FuncResolver = (*Registry)(nil)

// NewRegistry returns a registry holding the built-in functions. The shell
// function runs its commands through executor.
func NewRegistry(executor ports.Executor) *Registry {
	r := &Registry{funcs: make(map[string]domain.Func)}
	r.Register("write", Write)
	r.Register("hello", Hello)
	r.Register("concat", Concat)
	r.Register("copy", Copy)
	r.Register("shell", Shell(executor))
	return r
}

// Register adds fn under name, replacing any previous registration.
func (r *Registry) Register(name string, fn domain.Func) {
	r.funcs[name] = fn
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (domain.Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.funcs))
}
