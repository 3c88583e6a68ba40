// Package watcher watches a drop directory for dump files using fsnotify.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/ibmetrics/internal/core/domain"
	"go.trai.ch/ibmetrics/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DropWatcher = (*Watcher)(nil)

const eventChannelBuffer = 100

// Watcher implements ports.DropWatcher for a single, non-recursive directory.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	events    chan ports.DropEvent
}

// NewWatcher creates a new drop directory watcher.
func NewWatcher(logger ports.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Join(domain.ErrWatchFailed, err)
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		logger:    logger,
		events:    make(chan ports.DropEvent, eventChannelBuffer),
	}, nil
}

// Start begins watching dir.
func (w *Watcher) Start(ctx context.Context, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return errors.Join(domain.ErrWatchFailed, zerr.With(err, "path", dir))
	}
	if !info.IsDir() {
		return errors.Join(domain.ErrWatchFailed, zerr.With(zerr.New("not a directory"), "path", dir))
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return errors.Join(domain.ErrWatchFailed, zerr.With(err, "path", dir))
	}

	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of drop events. It ends when the watcher stops.
func (w *Watcher) Events() iter.Seq[ports.DropEvent] {
	return func(yield func(ports.DropEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			dropEvent, ok := convertEvent(event)
			if !ok {
				continue
			}

			select {
			case w.events <- dropEvent:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(fmt.Sprintf("watcher: file system error: %v", err))
		}
	}
}

// convertEvent keeps creations and writes of regular, non-hidden files.
// Renames into the directory arrive as creations.
func convertEvent(event fsnotify.Event) (ports.DropEvent, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return ports.DropEvent{}, false
	}
	if !IsDumpCandidate(event.Name) {
		return ports.DropEvent{}, false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return ports.DropEvent{}, false
	}
	return ports.DropEvent{Path: event.Name}, true
}

// IsDumpCandidate reports whether a file name may hold a dump. Hidden files,
// editor backups, partial downloads and cache snapshots are ignored.
func IsDumpCandidate(path string) bool {
	name := filepath.Base(path)
	switch {
	case strings.HasPrefix(name, "."),
		strings.HasSuffix(name, "~"),
		strings.HasSuffix(name, ".tmp"),
		strings.HasSuffix(name, ".part"),
		strings.HasSuffix(name, ".swp"),
		strings.HasSuffix(name, domain.CacheFileExt):
		return false
	}
	return true
}
