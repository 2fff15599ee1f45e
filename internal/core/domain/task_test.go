package domain_test

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/zerr"
)

func nop(context.Context, *domain.Call) error { return nil }

func mustTask(t *testing.T, opts ...domain.TaskOption) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(nop, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return task
}

func TestNewTask_MissingOutput(t *testing.T) {
	p := domain.NewPipeline()

	_, err := domain.NewTask(nop, domain.WithKwarg("contents", "world"), domain.InPipeline(p))
	if !errors.Is(err, domain.ErrMissingOutput) {
		t.Fatalf("expected ErrMissingOutput, got %v", err)
	}

	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	if name, _ := zErr.Metadata()["task"].(string); name == "" {
		t.Errorf("expected task metadata, got %v", zErr.Metadata())
	}

	if p.Len() != 0 {
		t.Errorf("expected nothing registered, got %d tasks", p.Len())
	}
}

func TestNewTask_MissingFunc(t *testing.T) {
	p := domain.NewPipeline()

	_, err := domain.NewTask(nil, domain.WithName("write"), domain.WithOutput("a.txt"), domain.InPipeline(p))
	if !errors.Is(err, domain.ErrMissingFunc) {
		t.Fatalf("expected ErrMissingFunc, got %v", err)
	}
	if name, _ := err.(*zerr.Error).Metadata()["task"].(string); name != "write" {
		t.Errorf("expected metadata task=write, got %v", name)
	}
	if p.Len() != 0 {
		t.Errorf("expected nothing registered, got %d tasks", p.Len())
	}
}

func TestNewTask_InvalidOutput(t *testing.T) {
	for _, out := range []any{42, "", []string{"a"}} {
		_, err := domain.NewTask(nop, domain.WithOutput(out))
		if !errors.Is(err, domain.ErrInvalidOutput) {
			t.Errorf("output %v: expected ErrInvalidOutput, got %v", out, err)
		}
	}
}

func TestNewTask_Name(t *testing.T) {
	task := mustTask(t, domain.WithOutput("a.txt"))
	if task.Name() != "go.trai.ch/mill/internal/core/domain_test.nop" {
		t.Errorf("unexpected name %q", task.Name())
	}

	named := mustTask(t, domain.WithName("custom"), domain.WithOutput("b.txt"))
	if named.Name() != "custom" {
		t.Errorf("unexpected name %q", named.Name())
	}
}

func TestNewTask_WorkingDir(t *testing.T) {
	p := domain.NewPipeline(domain.WithWorkingDir("build"))

	rel := mustTask(t, domain.WithOutput("out/hello.txt"), domain.InPipeline(p))
	if rel.Output() != domain.NewPath(filepath.Join("build", "out", "hello.txt")) {
		t.Errorf("relative string output not rewritten: %q", rel.Output())
	}

	abs := mustTask(t, domain.WithOutput("/tmp/abs.txt"), domain.InPipeline(p))
	if abs.Output() != domain.NewPath("/tmp/abs.txt") {
		t.Errorf("absolute output rewritten: %q", abs.Output())
	}

	explicit := mustTask(t, domain.WithOutput(domain.NewPath("keep.txt")), domain.InPipeline(p))
	if explicit.Output() != domain.NewPath("keep.txt") {
		t.Errorf("path output rewritten: %q", explicit.Output())
	}

	standalone := mustTask(t, domain.WithOutput("loose.txt"))
	if standalone.Output() != domain.NewPath("loose.txt") {
		t.Errorf("standalone output rewritten: %q", standalone.Output())
	}
}

func TestNewTask_ExplicitPipelineWinsOverScope(t *testing.T) {
	scope := domain.NewScope()
	outer := domain.NewPipeline()
	explicit := domain.NewPipeline()

	exit := scope.Enter(outer)
	defer exit()

	mustTask(t, domain.WithOutput("a.txt"), domain.InScope(scope), domain.InPipeline(explicit))

	if outer.Len() != 0 || explicit.Len() != 1 {
		t.Errorf("expected task only in explicit pipeline, got outer=%d explicit=%d", outer.Len(), explicit.Len())
	}
}

func TestTask_Dependencies(t *testing.T) {
	a := mustTask(t, domain.WithOutput("a"))
	b := mustTask(t, domain.WithOutput("b"))
	c := mustTask(t, domain.WithOutput("c"))
	d := mustTask(t, domain.WithOutput("d"))

	task := mustTask(t,
		domain.WithArgs(a, domain.Seq(domain.Scalar(1), domain.Ref(b))),
		domain.WithKwarg("nested", map[string]any{"x": []any{c, a}}),
		domain.WithKwarg("plain", "text"),
		domain.WithKwarg("set", domain.SetOf(domain.Ref(d))),
		domain.WithOutput("out"),
	)

	got := slices.Collect(task.Dependencies())
	want := []*domain.Task{a, b, c, a, d}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected dependencies: got %v, want %v", got, want)
	}

	again := slices.Collect(task.Dependencies())
	if !slices.Equal(got, again) {
		t.Error("dependencies changed between calls")
	}
}

func TestTask_DependenciesIgnoreOutput(t *testing.T) {
	a := mustTask(t, domain.WithOutput("a"))
	task := mustTask(t, domain.WithOutput(a.Output()))

	if n := len(slices.Collect(task.Dependencies())); n != 0 {
		t.Errorf("expected no dependencies, got %d", n)
	}
}

func TestTask_Parameters(t *testing.T) {
	src := mustTask(t, domain.WithOutput("source.txt"))
	task := mustTask(t,
		domain.WithKwarg("filepath", src),
		domain.WithKwarg("greeting", "hello"),
		domain.WithKwarg("inputs", []*domain.Task{src}),
		domain.WithOutput("out/hello.txt"),
	)

	params, ok := task.Parameters()
	if !ok {
		t.Fatal("expected parameters")
	}
	if names := params.Names(); !slices.Equal(names, []string{"greeting", "inputs"}) {
		t.Errorf("unexpected parameter names %v", names)
	}

	ext, err := domain.NewExternalTask("raw.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ext.Parameters(); ok {
		t.Error("expected external task to have no parameters")
	}
}

func TestTask_Bind(t *testing.T) {
	src := mustTask(t, domain.WithOutput("source.txt"))
	task := mustTask(t,
		domain.WithArgs(src),
		domain.WithKwarg("inputs", map[string]any{"main": src}),
		domain.WithOutput("out.txt"),
	)

	call := task.Bind(nil)

	if p, ok := call.Args[0].Path(); !ok || p != src.Output() {
		t.Errorf("positional reference not resolved: %v", call.Args[0])
	}
	inputs, _ := call.Kwarg("inputs")
	entry, _ := inputs.Lookup("main")
	if p, ok := entry.Path(); !ok || p != src.Output() {
		t.Errorf("nested reference not resolved: %v", entry)
	}
	if call.Output != task.Output() {
		t.Errorf("unexpected output %q", call.Output)
	}

	if task.Args()[0].Kind() != domain.KindTask {
		t.Error("binding must not modify the task's arguments")
	}
}

func TestTask_String(t *testing.T) {
	src := mustTask(t, domain.WithName("write"), domain.WithOutput("source.txt"))
	task := mustTask(t,
		domain.WithName("hello"),
		domain.WithKwarg("filepath", src),
		domain.WithOutput("out.txt"),
	)

	if got := task.String(); got != "hello({filepath: source.txt})" {
		t.Errorf("unexpected string %q", got)
	}
	if got := task.Signature(); got != "filepath=source.txt, output=out.txt" {
		t.Errorf("unexpected signature %q", got)
	}

	withArgs := mustTask(t, domain.WithName("concat"), domain.WithArgs(src, "x"), domain.WithOutput("o"))
	if got := withArgs.String(); got != "concat([source.txt, x], {})" {
		t.Errorf("unexpected string %q", got)
	}

	ext, _ := domain.NewExternalTask("raw.txt")
	if got := ext.String(); got != "ExternalTask(raw.txt)" {
		t.Errorf("unexpected string %q", got)
	}
}

func TestExternalTask(t *testing.T) {
	p := domain.NewPipeline(domain.WithWorkingDir("build"))

	ext, err := domain.NewExternalTask("external.txt", domain.InPipeline(p))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !ext.IsExternal() || ext.Func() != nil {
		t.Error("expected an external task without a function")
	}
	if ext.Output() != domain.NewPath(filepath.Join("build", "external.txt")) {
		t.Errorf("unexpected output %q", ext.Output())
	}
	if n := len(slices.Collect(ext.Dependencies())); n != 0 {
		t.Errorf("expected no dependencies, got %d", n)
	}
	if p.Len() != 1 {
		t.Errorf("expected external task to be registered")
	}

	if _, err := domain.NewExternalTask(""); !errors.Is(err, domain.ErrInvalidOutput) {
		t.Errorf("expected ErrInvalidOutput, got %v", err)
	}
}

func TestExternalTask_InScope(t *testing.T) {
	scope := domain.NewScope()
	p := domain.NewPipeline(domain.WithWorkingDir("build"))

	var ext *domain.Task
	err := scope.Within(p, func() error {
		var err error
		ext, err = domain.NewExternalTask("raw.txt", domain.InScope(scope))
		return err
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := p.Lookup(domain.NewPath(filepath.Join("build", "raw.txt")))
	if !ok || got != ext {
		t.Error("expected the external task to attach to the active pipeline")
	}

	outside, err := domain.NewExternalTask("raw.txt", domain.InScope(scope))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outside.Output() != domain.NewPath("raw.txt") {
		t.Errorf("expected no working dir outside the scope, got %q", outside.Output())
	}
}

func TestGenerator(t *testing.T) {
	p := domain.NewPipeline()
	gen := domain.NewGenerator(nop, domain.WithName("create_text_file"), domain.InPipeline(p))

	first, err := gen.Task(domain.WithKwarg("contents", "a"), domain.WithOutput("a.txt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := gen.Task(domain.WithKwarg("contents", "b"), domain.WithOutput("b.txt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first == second || first.Name() != "create_text_file" {
		t.Errorf("unexpected tasks %v and %v", first, second)
	}
	if p.Len() != 2 {
		t.Errorf("expected 2 tasks, got %d", p.Len())
	}
}
