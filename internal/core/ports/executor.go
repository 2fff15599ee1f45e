// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
)

// Executor defines the interface for running external commands on behalf of a task.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs command in dir with env layered over the process environment.
	//
	// Output is streamed to the vertex found in ctx, or to the logger when there is none.
	// It returns an error if the command cannot be started or exits non-zero.
	Execute(ctx context.Context, command []string, env map[string]string, dir string) error
}
