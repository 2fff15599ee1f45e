package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mill/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mill/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mill/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/core/ports"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.StoreNodeID,
			fs.HasherNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			store, err := graft.Dep[domain.ArtifactStore](ctx)
			if err != nil {
				return nil, err
			}

			checksummer, err := graft.Dep[ports.Checksummer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return NewScheduler(store, checksummer, log, telemetry), nil
		},
	})
}
