package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ibmetrics/internal/adapters/config"
	"go.trai.ch/ibmetrics/internal/adapters/logger"
	"go.trai.ch/ibmetrics/internal/adapters/telemetry"
	"go.trai.ch/ibmetrics/internal/core/domain"
	"go.trai.ch/ibmetrics/internal/core/ports"
)

// NodeID is the unique identifier for the table store Graft node.
const NodeID graft.ID = "adapter.table_store"

func init() {
	graft.Register(graft.Node[ports.TableStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, logger.NodeID, telemetry.TracerNodeID},
		Run: func(ctx context.Context) (ports.TableStore, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
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
			return NewStore(settings.CacheDir, log, tracer), nil
		},
	})
}
