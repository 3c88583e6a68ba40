package dump

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ibmetrics/internal/adapters/logger"
	"go.trai.ch/ibmetrics/internal/adapters/telemetry"
	"go.trai.ch/ibmetrics/internal/core/ports"
)

// NodeID is the unique identifier for the dump reader Graft node.
const NodeID graft.ID = "adapter.dump_reader"

func init() {
	graft.Register(graft.Node[ports.DumpReader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, telemetry.TracerNodeID},
		Run: func(ctx context.Context) (ports.DumpReader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			return NewReader(log, tracer), nil
		},
	})
}
