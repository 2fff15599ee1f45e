package wiring_test

import (
	"context"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mill/internal/adapters/fs"
	"go.trai.ch/mill/internal/app"
	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/core/ports"
	"go.trai.ch/mill/internal/engine/scheduler"
	_ "go.trai.ch/mill/internal/wiring"
)

func resolve[T any](t *testing.T) {
	t.Helper()
	out, _, err := graft.ExecuteFor[T](context.Background(), graft.DisableCache())
	require.NoError(t, err)
	require.NotNil(t, out)
}

// TestGraftNodes resolves every registered node with its transitive
// dependencies.
func TestGraftNodes(t *testing.T) {
	t.Run("logger", resolve[ports.Logger])
	t.Run("executor", resolve[ports.Executor])
	t.Run("funcs", resolve[ports.FuncResolver])
	t.Run("config", resolve[ports.ConfigLoader])
	t.Run("renderer", resolve[ports.Renderer])
	t.Run("telemetry", resolve[ports.Telemetry])
	t.Run("walker", resolve[*fs.Walker])
	t.Run("store", resolve[domain.ArtifactStore])
	t.Run("checksummer", resolve[ports.Checksummer])
	t.Run("scheduler", resolve[*scheduler.Scheduler])
	t.Run("app", resolve[*app.App])
	t.Run("components", resolve[*app.Components])
}
