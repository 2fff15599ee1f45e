// Package scheduler implements the task execution scheduler.
package scheduler

import (
	"context"
	"runtime"
	"sync"

	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Scheduler runs the tasks of a pipeline in dependency order, one at a time.
// A task whose output already exists is not run again.
type Scheduler struct {
	store       domain.ArtifactStore
	checksummer ports.Checksummer
	logger      ports.Logger
	telemetry   ports.Telemetry

	mu         sync.RWMutex
	taskStatus map[domain.Path]domain.TaskStatus
}

// NewScheduler creates a new Scheduler.
func NewScheduler(
	store domain.ArtifactStore,
	checksummer ports.Checksummer,
	logger ports.Logger,
	telemetry ports.Telemetry,
) *Scheduler {
	return &Scheduler{
		store:       store,
		checksummer: checksummer,
		logger:      logger,
		telemetry:   telemetry,
		taskStatus:  make(map[domain.Path]domain.TaskStatus),
	}
}

func (s *Scheduler) updateStatus(output domain.Path, status domain.TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[output] = status
}

// Run executes every task of p, dependencies first. The first failure
// aborts the run; cancellation of ctx is checked between tasks.
func (s *Scheduler) Run(ctx context.Context, p *domain.Pipeline) error {
	order, err := p.Order()
	if err != nil {
		return err
	}

	for _, task := range order {
		s.updateStatus(task.Output(), domain.TaskStatusPending)
	}

	for _, task := range order {
		if err := ctx.Err(); err != nil {
			return zerr.Wrap(err, "run canceled")
		}
		if err := s.RunTask(ctx, task); err != nil {
			return err
		}
	}
	return nil
}

// RunTask runs a single task.
//
// An external task only checks that its artifact exists. Any other task is
// skipped when its output exists; otherwise the parent directory of the
// output is created (one level) and the task function is called.
func (s *Scheduler) RunTask(ctx context.Context, task *domain.Task) error {
	output := task.Output()
	ctx, vertex := s.telemetry.Record(ctx, task.String(), ports.WithVertexID(output.Key()))

	exists, err := s.store.Exists(output)
	if err != nil {
		return s.fail(vertex, task, err)
	}

	if task.IsExternal() {
		if !exists {
			err := zerr.With(zerr.Wrap(domain.ErrMissingExternal, "external artifact not found"), "path", output.String())
			return s.fail(vertex, task, err)
		}
		s.updateStatus(output, domain.TaskStatusVerified)
		vertex.Cached()
		vertex.Complete(nil)
		return nil
	}

	if exists {
		s.logger.Info(output.String() + " exists, skipping")
		s.updateStatus(output, domain.TaskStatusSkipped)
		vertex.Cached()
		vertex.Complete(nil)
		return nil
	}

	if err := s.ensureParent(output); err != nil {
		return s.fail(vertex, task, err)
	}

	s.logger.Info("Running: " + task.Name() + "(" + task.Signature() + ")")
	s.updateStatus(output, domain.TaskStatusRunning)

	if err := task.Func()(ctx, task.Bind(s.store)); err != nil {
		return s.fail(vertex, task, err)
	}

	s.updateStatus(output, domain.TaskStatusCompleted)
	vertex.Complete(nil)
	return nil
}

// ensureParent creates the directory holding output when it is missing.
// Only the immediate parent is created.
func (s *Scheduler) ensureParent(output domain.Path) error {
	parent := output.Dir()
	exists, err := s.store.Exists(parent)
	if err != nil || exists {
		return err
	}
	return s.store.Mkdir(parent)
}

func (s *Scheduler) fail(vertex ports.Vertex, task *domain.Task, err error) error {
	s.updateStatus(task.Output(), domain.TaskStatusFailed)
	vertex.Complete(err)

	wrapped := zerr.With(zerr.Wrap(err, "task execution failed"), "task", task.Name())
	return zerr.With(wrapped, "output", task.Output().String())
}

// Status returns one row per registered task of p, in registration order.
// Outputs are probed concurrently; probing never runs a task.
func (s *Scheduler) Status(ctx context.Context, p *domain.Pipeline) ([]domain.StatusRow, error) {
	tasks := p.Tasks()
	rows := make([]domain.StatusRow, len(tasks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, task := range tasks {
		params, ok := task.Parameters()
		rows[i] = domain.StatusRow{
			Name:          task.Name(),
			Parameters:    params,
			HasParameters: ok,
			Output:        task.Output(),
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			exists, err := s.store.Exists(task.Output())
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to probe output"), "output", task.Output().String())
			}
			rows[i].Exists = exists
			if !exists {
				return nil
			}

			sum, err := s.checksummer.Checksum(task.Output())
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to checksum output"), "output", task.Output().String())
			}
			rows[i].Checksum = sum
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}
