package builder

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bud/internal/adapters/cas"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bud/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bud/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bud/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bud/internal/core/ports"
)

// NodeID is the unique identifier for the build engine Graft node.
const NodeID graft.ID = "engine.builder"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cas.NodeID,
			fs.TreeNodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Engine, error) {
			store, err := graft.Dep[ports.OutputStore](ctx)
			if err != nil {
				return nil, err
			}

			tree, err := graft.Dep[ports.FileTree](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.TracerSwitch](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewEngine(store, tree, tracer, log), nil
		},
	})
}
