package ports

import (
	"context"
	"iter"
)

// DropEvent reports a dump file that was added to or rewritten in a drop directory.
type DropEvent struct {
	// Path is the path of the file that changed.
	Path string
}

// DropWatcher watches a drop directory for new or rewritten dump files.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type DropWatcher interface {
	// Start begins watching dir. Events stop once ctx is done or Stop is called.
	Start(ctx context.Context, dir string) error
	// Stop stops the watcher and releases all resources.
	Stop() error
	// Events returns an iterator of drop events.
	Events() iter.Seq[DropEvent]
}

// DropWatcherFactory creates a DropWatcher. Watchers hold OS resources, so
// they are only created by the commands that need one.
type DropWatcherFactory func() (DropWatcher, error)
