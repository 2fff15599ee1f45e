package domain

import (
	"context"
	"fmt"
	"iter"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"go.trai.ch/zerr"
)

// Func is the body of a task. It must write the artifact at call.Output.
type Func func(ctx context.Context, call *Call) error

// Call carries the materialized arguments of a single task invocation.
// Every task reference has already been replaced by that task's output path.
type Call struct {
	Args   []Value
	Kwargs Kwargs
	Output Path
	Store  ArtifactStore
}

// Kwarg returns a materialized named argument.
func (c *Call) Kwarg(name string) (Value, bool) {
	return c.Kwargs.Get(name)
}

// Task is a unit of work producing exactly one artifact, identified by its
// output path. A Task is immutable after construction.
type Task struct {
	name     string
	fn       Func
	args     []Value
	kwargs   Kwargs
	output   Path
	external bool

	fingerprintOnce sync.Once
	fingerprint     string

	depsOnce sync.Once
	deps     []*Task
}

// TaskOption configures NewTask.
type TaskOption func(*taskConfig)

type taskConfig struct {
	name     string
	args     []Value
	kwargs   Kwargs
	scope    *Scope
	pipeline *Pipeline
}

// WithName overrides the qualified name derived from the task function.
func WithName(name string) TaskOption {
	return func(c *taskConfig) {
		c.name = name
	}
}

// WithArgs appends positional arguments. Each one is converted with From.
func WithArgs(args ...any) TaskOption {
	return func(c *taskConfig) {
		for _, a := range args {
			c.args = append(c.args, From(a))
		}
	}
}

// WithKwarg sets a named argument. The value is converted with From.
func WithKwarg(name string, v any) TaskOption {
	return func(c *taskConfig) {
		c.kwargs.Set(name, From(v))
	}
}

// WithOutput sets the mandatory output argument. It accepts a string or a Path.
func WithOutput(v any) TaskOption {
	return WithKwarg(OutputKey, v)
}

// InScope attaches the task to the scope's active pipeline, if any.
func InScope(s *Scope) TaskOption {
	return func(c *taskConfig) {
		c.scope = s
	}
}

// InPipeline attaches the task to p. It takes precedence over InScope.
func InPipeline(p *Pipeline) TaskOption {
	return func(c *taskConfig) {
		c.pipeline = p
	}
}

// target returns the pipeline a new task registers with, if any.
func (c *taskConfig) target() *Pipeline {
	if c.pipeline != nil {
		return c.pipeline
	}
	if c.scope != nil {
		return c.scope.Active()
	}
	return nil
}

// NewTask builds a task running fn. The output argument is mandatory.
// When the target pipeline has a working directory, a relative string output
// is rewritten under it before the task is registered.
func NewTask(fn Func, opts ...TaskOption) (*Task, error) {
	var cfg taskConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if fn == nil {
		return nil, zerr.With(zerr.Wrap(ErrMissingFunc, "task requires a function"), "task", cfg.name)
	}

	name := cfg.name
	if name == "" {
		name = FuncName(fn)
	}

	target := cfg.target()

	raw, ok := cfg.kwargs.Get(OutputKey)
	if !ok {
		return nil, zerr.With(zerr.Wrap(ErrMissingOutput, "task requires an output argument"), "task", name)
	}
	output, err := outputPath(raw, target)
	if err != nil {
		return nil, zerr.With(err, "task", name)
	}
	cfg.kwargs.Set(OutputKey, Scalar(output))

	t := &Task{
		name:   name,
		fn:     fn,
		args:   cfg.args,
		kwargs: cfg.kwargs,
		output: output,
	}

	if target != nil {
		if err := target.AddTask(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// NewExternalTask declares an artifact the pipeline does not produce.
// Only InScope and InPipeline apply: the task is registered with the target
// pipeline, and a relative path is placed under its working directory like
// any other output.
func NewExternalTask(path string, opts ...TaskOption) (*Task, error) {
	var cfg taskConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	p := cfg.target()

	output, err := outputPath(Scalar(path), p)
	if err != nil {
		return nil, err
	}

	t := &Task{
		name:     output.String(),
		output:   output,
		external: true,
	}
	t.kwargs.Set(OutputKey, Scalar(output))

	if p != nil {
		if err := p.AddTask(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func outputPath(v Value, target *Pipeline) (Path, error) {
	if v.Kind() == KindScalar {
		switch x := v.Interface().(type) {
		case string:
			if x == "" {
				break
			}
			if target != nil && !target.WorkingDir().IsZero() && !NewPath(x).IsAbs() {
				return target.WorkingDir().Join(x), nil
			}
			return NewPath(x), nil
		case Path:
			if !x.IsZero() {
				return x, nil
			}
		}
	}
	err := zerr.Wrap(ErrInvalidOutput, "output must be a non-empty string or path")
	return Path{}, zerr.With(err, "value", v.String())
}

// FuncName returns the package-qualified name of fn.
func FuncName(fn Func) string {
	if fn == nil {
		return ""
	}
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return ""
	}
	return f.Name()
}

// Name returns the qualified name of the task function, or the path of an
// external task.
func (t *Task) Name() string {
	return t.name
}

// Output returns the task's output identity.
func (t *Task) Output() Path {
	return t.output
}

// IsExternal reports whether the task stands for a pre-existing artifact.
func (t *Task) IsExternal() bool {
	return t.external
}

// Func returns the task body. External tasks have none.
func (t *Task) Func() Func {
	return t.fn
}

// Args returns the positional arguments as given.
func (t *Task) Args() []Value {
	return t.args
}

// Kwargs returns the named arguments as given, including the output.
func (t *Task) Kwargs() Kwargs {
	return t.kwargs
}

// Parameters returns the named arguments that are neither the output nor a
// direct reference to another task. The second result is false for external
// tasks, which have no parameters at all.
func (t *Task) Parameters() (Kwargs, bool) {
	if t.external {
		return Kwargs{}, false
	}
	return t.kwargs.Filter(func(name string, v Value) bool {
		return name != OutputKey && v.Kind() != KindTask
	}), true
}

// Dependencies yields every task referenced from the arguments, depth-first
// in argument order. The output argument is never inspected. A task
// referenced more than once is yielded more than once.
func (t *Task) Dependencies() iter.Seq[*Task] {
	t.depsOnce.Do(func() {
		collect := func(d *Task) bool {
			t.deps = append(t.deps, d)
			return true
		}
		for _, a := range t.args {
			a.tasks(collect)
		}
		for name, v := range t.kwargs.All() {
			if name != OutputKey {
				v.tasks(collect)
			}
		}
	})

	return func(yield func(*Task) bool) {
		for _, d := range t.deps {
			if !yield(d) {
				return
			}
		}
	}
}

// Bind materializes the arguments of the task for a run against store.
func (t *Task) Bind(store ArtifactStore) *Call {
	args := make([]Value, len(t.args))
	for i, a := range t.args {
		args[i] = a.resolve()
	}
	return &Call{
		Args:   args,
		Kwargs: t.kwargs.resolve(),
		Output: t.output,
		Store:  store,
	}
}

// Signature formats the materialized arguments the way they are passed to
// the task function, e.g. "contents=world, output=build/source.txt".
func (t *Task) Signature() string {
	parts := make([]string, 0, len(t.args)+t.kwargs.Len())
	for _, a := range t.args {
		parts = append(parts, a.resolve().Text())
	}
	for name, v := range t.kwargs.All() {
		parts = append(parts, name+"="+v.resolve().Text())
	}
	return strings.Join(parts, ", ")
}

// String returns a human-readable form with task references shown as their
// outputs and the output argument omitted.
func (t *Task) String() string {
	if t.external {
		return fmt.Sprintf("ExternalTask(%s)", t.output)
	}

	var kw strings.Builder
	kw.WriteString("{")
	i := 0
	for name, v := range t.kwargs.All() {
		if name == OutputKey {
			continue
		}
		if i > 0 {
			kw.WriteString(", ")
		}
		kw.WriteString(name)
		kw.WriteString(": ")
		v.format(&kw)
		i++
	}
	kw.WriteString("}")

	if len(t.args) == 0 {
		return fmt.Sprintf("%s(%s)", t.name, kw.String())
	}
	return fmt.Sprintf("%s(%s, %s)", t.name, Seq(t.args...), kw.String())
}

// Fingerprint returns the structural fingerprint of the task's name and
// arguments. It is computed once.
func (t *Task) Fingerprint() string {
	t.fingerprintOnce.Do(func() {
		h := newDigest()
		HashUpdate(h,
			Pair{Name: "name", Value: Scalar(t.name)},
			Pair{Name: "args", Value: Seq(t.args...)},
			Pair{Name: "kwargs", Value: t.kwargs.Value()},
		)
		t.fingerprint = fmt.Sprintf("%x", h.Sum(nil))
	})
	return t.fingerprint
}
