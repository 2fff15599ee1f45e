// Package main is the entry point for the mill build tool.
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/mill/cmd/mill/commands"
	"go.trai.ch/mill/internal/app"
	"go.trai.ch/mill/internal/core/domain"
	_ "go.trai.ch/mill/internal/wiring"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx, graft.DisableCache())
	if err != nil {
		// The logger is not available yet.
		_, _ = io.WriteString(stderr, "Error: "+err.Error()+"\n")
		return 1
	}

	cli := commands.New(components.App, components.Logger)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		// Build failures are reported by the app as they happen.
		if !errors.Is(err, domain.ErrBuildExecutionFailed) {
			components.Logger.Error(err)
		}
		return 1
	}
	return 0
}
