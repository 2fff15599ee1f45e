// Package app implements the application layer for mill.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/core/ports"
	"go.trai.ch/mill/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	scheduler    *scheduler.Scheduler
	renderer     ports.Renderer
	logger       ports.Logger
	telemetry    ports.Telemetry
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	sched *scheduler.Scheduler,
	renderer ports.Renderer,
	logger ports.Logger,
	telemetry ports.Telemetry,
) *App {
	return &App{
		configLoader: loader,
		scheduler:    sched,
		renderer:     renderer,
		logger:       logger,
		telemetry:    telemetry,
	}
}

// Load reads the pipeline file at configPath. Every output claimed by two
// different definitions is reported as a warning.
func (a *App) Load(configPath string) (*domain.Pipeline, error) {
	p, err := a.configLoader.Load(configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	for _, c := range p.Conflicts() {
		a.logger.Warn(fmt.Sprintf("%s is declared twice, keeping %s and ignoring %s", c.Output, c.Kept, c.Dropped))
	}
	return p, nil
}

// Run builds every missing artifact of the pipeline at configPath.
// A failed run is logged here and returned joined with
// domain.ErrBuildExecutionFailed.
func (a *App) Run(ctx context.Context, configPath string) (err error) {
	defer func() {
		if cerr := a.telemetry.Close(); cerr != nil && err == nil {
			err = zerr.Wrap(cerr, "failed to close telemetry")
		}
	}()

	p, err := a.Load(configPath)
	if err != nil {
		return err
	}

	if err := a.scheduler.Run(ctx, p); err != nil {
		a.logger.Error(err)
		return errors.Join(domain.ErrBuildExecutionFailed, err)
	}
	return nil
}

// Status writes the status table of the pipeline at configPath to w.
func (a *App) Status(ctx context.Context, configPath string, w io.Writer) error {
	p, err := a.Load(configPath)
	if err != nil {
		return err
	}

	rows, err := a.scheduler.Status(ctx, p)
	if err != nil {
		return err
	}
	return a.renderer.RenderStatus(w, rows)
}

// Hash writes the fingerprint and output of every registered task to w, one
// task per line.
func (a *App) Hash(configPath string, w io.Writer) error {
	p, err := a.Load(configPath)
	if err != nil {
		return err
	}

	for _, task := range p.Tasks() {
		if _, err := fmt.Fprintf(w, "%s  %s\n", task.Fingerprint(), task.Output()); err != nil {
			return zerr.Wrap(err, "failed to write fingerprints")
		}
	}
	return nil
}
