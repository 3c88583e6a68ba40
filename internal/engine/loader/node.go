package loader

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ibmetrics/internal/adapters/cache"
	"go.trai.ch/ibmetrics/internal/adapters/dump"
	"go.trai.ch/ibmetrics/internal/adapters/logger"
	"go.trai.ch/ibmetrics/internal/adapters/telemetry"
	"go.trai.ch/ibmetrics/internal/core/ports"
)

// NodeID is the unique identifier for the loader Graft node.
const NodeID graft.ID = "engine.loader"

func init() {
	graft.Register(graft.Node[*Loader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{dump.NodeID, cache.NodeID, logger.NodeID, telemetry.TracerNodeID},
		Run: func(ctx context.Context) (*Loader, error) {
			reader, err := graft.Dep[ports.DumpReader](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.TableStore](ctx)
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
			return New(reader, store, log, tracer), nil
		},
	})
}
