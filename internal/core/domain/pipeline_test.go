package domain_test

import (
	"errors"
	"testing"

	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/zerr"
)

func createTextFile(p *domain.Pipeline, contents, output string) (*domain.Task, error) {
	return domain.NewTask(nop,
		domain.WithName("create_text_file"),
		domain.WithKwarg("contents", contents),
		domain.WithOutput(output),
		domain.InPipeline(p),
	)
}

func TestPipeline_NoDuplicateOutputs(t *testing.T) {
	p := domain.NewPipeline()

	first, err := createTextFile(p, "world", "source.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := createTextFile(p, "world", "source.txt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Len() != 1 {
		t.Fatalf("expected 1 task, got %d", p.Len())
	}
	if p.Tasks()[0] != first {
		t.Error("expected the first registration to win")
	}
	if len(p.Conflicts()) != 0 {
		t.Errorf("identical definitions must not conflict, got %v", p.Conflicts())
	}
}

func TestPipeline_ConflictRecorded(t *testing.T) {
	p := domain.NewPipeline()

	first, _ := createTextFile(p, "world", "source.txt")
	second, err := createTextFile(p, "moon", "source.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Len() != 1 || p.Tasks()[0] != first {
		t.Fatal("expected the first registration to be kept")
	}

	conflicts := p.Conflicts()
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(conflicts))
	}
	if conflicts[0].Kept != first || conflicts[0].Dropped != second {
		t.Errorf("unexpected conflict %+v", conflicts[0])
	}
}

func TestPipeline_StrictRejectsConflict(t *testing.T) {
	p := domain.NewPipeline(domain.WithDuplicatePolicy(domain.DuplicateStrict))

	if _, err := createTextFile(p, "world", "source.txt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := createTextFile(p, "world", "source.txt"); err != nil {
		t.Fatalf("identical definition rejected: %v", err)
	}

	_, err := createTextFile(p, "moon", "source.txt")
	if !errors.Is(err, domain.ErrDuplicateOutput) {
		t.Fatalf("expected ErrDuplicateOutput, got %v", err)
	}

	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	if out, _ := zErr.Metadata()["output"].(string); out != "source.txt" {
		t.Errorf("expected metadata output=source.txt, got %v", zErr.Metadata()["output"])
	}
	if p.Len() != 1 {
		t.Errorf("expected 1 task, got %d", p.Len())
	}
}

func TestPipeline_Lookup(t *testing.T) {
	p := domain.NewPipeline()
	task, _ := createTextFile(p, "world", "source.txt")

	got, ok := p.Lookup(domain.NewPath("./source.txt"))
	if !ok || got != task {
		t.Errorf("expected lookup by cleaned path to find the task")
	}
}

func TestPipeline_OrderMemoized(t *testing.T) {
	p := domain.NewPipeline()
	if _, err := createTextFile(p, "a", "a.txt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order, err := p.Order()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 1 {
		t.Fatalf("expected 1 task in order, got %d", len(order))
	}

	if _, err := createTextFile(p, "b", "b.txt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stale, err := p.Order()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stale) != 1 {
		t.Errorf("expected memoized order to stay at 1 task, got %d", len(stale))
	}
}
