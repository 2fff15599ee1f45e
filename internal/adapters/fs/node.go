package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/core/ports"
)

const (
	// WalkerNodeID is the unique identifier for the walker Graft node.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// StoreNodeID is the unique identifier for the artifact store Graft node.
	StoreNodeID graft.ID = "adapter.fs.store"
	// HasherNodeID is the unique identifier for the checksummer Graft node.
	HasherNodeID graft.ID = "adapter.fs.hasher"
)

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(DefaultIgnores...), nil
		},
	})

	graft.Register(graft.Node[domain.ArtifactStore]{
		ID:        StoreNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (domain.ArtifactStore, error) {
			return NewStore(), nil
		},
	})

	graft.Register(graft.Node[ports.Checksummer]{
		ID:        HasherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID},
		Run: func(ctx context.Context) (ports.Checksummer, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewHasher(walker), nil
		},
	})
}
