package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ibmetrics/internal/adapters/logger"
	"go.trai.ch/ibmetrics/internal/core/ports"
)

// NodeID is the unique identifier for the drop watcher factory Graft node.
const NodeID graft.ID = "adapter.drop_watcher"

func init() {
	graft.Register(graft.Node[ports.DropWatcherFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.DropWatcherFactory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return func() (ports.DropWatcher, error) {
				return NewWatcher(log)
			}, nil
		},
	})
}
