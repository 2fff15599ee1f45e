package builtin

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mill/internal/adapters/shell"
	"go.trai.ch/mill/internal/core/ports"
)

// NodeID is the unique identifier for the built-in function registry Graft node.
const NodeID graft.ID = "adapter.builtin"

func init() {
	graft.Register(graft.Node[ports.FuncResolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.FuncResolver, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewRegistry(executor), nil
		},
	})
}
