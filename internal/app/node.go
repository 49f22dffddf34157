package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/compdb/internal/adapters/compdb"    //nolint:depguard // Wired in app layer
	"go.trai.ch/compdb/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/compdb/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/compdb/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/compdb/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/compdb/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/compdb/internal/core/ports"
	"go.trai.ch/compdb/internal/engine/generator"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.DetectorNodeID,
			generator.NodeID,
			compdb.NodeID,
			logger.NodeID,
			telemetry.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

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
			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	detector, err := graft.Dep[ports.TargetDetector](ctx)
	if err != nil {
		return nil, err
	}
	gen, err := graft.Dep[*generator.Generator](ctx)
	if err != nil {
		return nil, err
	}
	writer, err := graft.Dep[ports.DatabaseWriter](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	newWatcher, err := graft.Dep[ports.WatcherFactory](ctx)
	if err != nil {
		return nil, err
	}
	return New(loader, detector, gen, writer, log, tracer, newWatcher), nil
}
