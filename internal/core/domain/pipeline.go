package domain

import (
	"go.trai.ch/zerr"
)

// DuplicatePolicy decides what AddTask does with a second, different task
// writing an output that is already registered.
type DuplicatePolicy uint8

const (
	// DuplicateWarn keeps the first task and records a Conflict.
	DuplicateWarn DuplicatePolicy = iota
	// DuplicateStrict rejects the second task with ErrDuplicateOutput.
	DuplicateStrict
)

// Conflict records two different task definitions for the same output.
type Conflict struct {
	Output  Path
	Kept    *Task
	Dropped *Task
}

// Pipeline is an ordered registry of tasks, deduplicated by output.
type Pipeline struct {
	workdir   Path
	policy    DuplicatePolicy
	tasks     []*Task
	index     map[Path]*Task
	conflicts []Conflict

	order []*Task
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithWorkingDir sets the directory relative string outputs are placed under.
func WithWorkingDir(dir string) PipelineOption {
	return func(p *Pipeline) {
		p.workdir = NewPath(dir)
	}
}

// WithDuplicatePolicy sets how conflicting registrations are handled.
func WithDuplicatePolicy(policy DuplicatePolicy) PipelineOption {
	return func(p *Pipeline) {
		p.policy = policy
	}
}

// NewPipeline creates an empty pipeline.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{index: make(map[Path]*Task)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WorkingDir returns the working directory, or the zero Path.
func (p *Pipeline) WorkingDir() Path {
	return p.workdir
}

// AddTask registers t unless a task with the same output is already present.
// The first registration always wins. A later task with an identical
// fingerprint is dropped silently; a different one is recorded as a Conflict,
// or rejected under DuplicateStrict.
func (p *Pipeline) AddTask(t *Task) error {
	kept, ok := p.index[t.Output()]
	if !ok {
		p.index[t.Output()] = t
		p.tasks = append(p.tasks, t)
		return nil
	}

	if kept == t || kept.Fingerprint() == t.Fingerprint() {
		return nil
	}

	if p.policy == DuplicateStrict {
		err := zerr.Wrap(ErrDuplicateOutput, "output is already produced by another task")
		err = zerr.With(err, "output", t.Output().String())
		err = zerr.With(err, "kept", kept.String())
		return zerr.With(err, "dropped", t.String())
	}

	p.conflicts = append(p.conflicts, Conflict{Output: t.Output(), Kept: kept, Dropped: t})
	return nil
}

// Tasks returns the registered tasks in registration order.
func (p *Pipeline) Tasks() []*Task {
	return append([]*Task(nil), p.tasks...)
}

// Len returns the number of registered tasks.
func (p *Pipeline) Len() int {
	return len(p.tasks)
}

// Lookup returns the registered task producing output.
func (p *Pipeline) Lookup(output Path) (*Task, bool) {
	t, ok := p.index[output]
	return t, ok
}

// Conflicts returns the differing duplicate registrations seen so far.
func (p *Pipeline) Conflicts() []Conflict {
	return append([]Conflict(nil), p.conflicts...)
}

// Order returns the execution order, computing it on first use.
// Tasks added after the first successful call are not reflected.
func (p *Pipeline) Order() ([]*Task, error) {
	if p.order != nil {
		return p.order, nil
	}

	order, err := TopologicalSort(p.tasks)
	if err != nil {
		return nil, err
	}
	p.order = order
	return order, nil
}
