package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bud/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/bud/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/bud/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/bud/internal/adapters/shell"     //nolint:depguard // Wired in app layer
	"go.trai.ch/bud/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/bud/internal/core/ports"
	"go.trai.ch/bud/internal/engine/builder"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			builder.NodeID,
			shell.NodeID,
			telemetry.TracerNodeID,
			fs.HasherNodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	engine, err := graft.Dep[*builder.Engine](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.TracerSwitch](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, engine, executor, tracer, hasher, log), nil
}
