package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mill/internal/adapters/builtin"
	"go.trai.ch/mill/internal/core/ports"
)

// NodeID is the unique identifier for the config loader Graft node.
const NodeID graft.ID = "adapter.config_loader"

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{builtin.NodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			funcs, err := graft.Dep[ports.FuncResolver](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(funcs), nil
		},
	})
}
