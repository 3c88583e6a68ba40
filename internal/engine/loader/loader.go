// Package loader implements cache-aware loading of build dumps.
package loader

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/ibmetrics/internal/core/domain"
	"go.trai.ch/ibmetrics/internal/core/ports"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Result is the outcome of loading one dump.
type Result struct {
	// Table is the parsed or cached table.
	Table *domain.RecordTable
	// CacheHit reports whether Table came from the cache.
	CacheHit bool
	// Identity is the cache key the dump maps to.
	Identity string
}

// Outcome pairs a path given to LoadAll with its result or error.
type Outcome struct {
	Path    string
	Result  *Result
	Err     error
	Elapsed time.Duration
}

// Loader serves dumps from the table cache and falls back to parsing them.
//
// The cache is keyed by file name only and never checks the source for changes:
// a dump replaced under the same name, or another dump with the same name in a
// different directory, is answered from the existing entry until Refresh is used.
type Loader struct {
	reader ports.DumpReader
	store  ports.TableStore
	logger ports.Logger
	tracer ports.Tracer

	requestGroup singleflight.Group
}

// New creates a Loader.
func New(reader ports.DumpReader, store ports.TableStore, logger ports.Logger, tracer ports.Tracer) *Loader {
	return &Loader{
		reader: reader,
		store:  store,
		logger: logger,
		tracer: tracer,
	}
}

// LoadFile returns the table for the dump at path. A cache hit does not touch
// the file at all; a miss parses it and stores the result.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Result, error) {
	identity := domain.CacheIdentity(path)

	ctx, span := l.tracer.Start(ctx, "loader.load_file",
		ports.WithAttribute("path", path),
		ports.WithAttribute("identity", identity),
	)
	defer span.End()

	v, err, _ := l.requestGroup.Do("load:"+identity, func() (any, error) {
		if table, ok := l.store.Load(ctx, identity); ok {
			return &Result{Table: table, CacheHit: true, Identity: identity}, nil
		}
		return l.readAndStore(ctx, path, identity)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	res := v.(*Result)
	span.SetAttribute("cache_hit", res.CacheHit)
	return res, nil
}

// Read parses the dump at path without consulting or updating the cache.
func (l *Loader) Read(ctx context.Context, path string) (*Result, error) {
	table, err := l.reader.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Result{Table: table, Identity: domain.CacheIdentity(path)}, nil
}

// Refresh parses the dump at path and replaces its cache entry.
func (l *Loader) Refresh(ctx context.Context, path string) (*Result, error) {
	identity := domain.CacheIdentity(path)

	v, err, _ := l.requestGroup.Do("refresh:"+identity, func() (any, error) {
		return l.readAndStore(ctx, path, identity)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

func (l *Loader) readAndStore(ctx context.Context, path, identity string) (*Result, error) {
	table, err := l.reader.Read(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := l.store.Save(ctx, identity, table); err != nil {
		l.logger.Warn(fmt.Sprintf("could not cache %s, continuing without cache", identity))
		l.logger.Error(err)
	}

	return &Result{Table: table, Identity: identity}, nil
}

// LoadAll loads each path independently with at most limit loads in flight.
// A failing dump does not stop the others; its error is reported in its Outcome.
// The returned error is non-nil only when ctx is done.
func (l *Loader) LoadAll(ctx context.Context, paths []string, limit int) ([]Outcome, error) {
	return l.each(ctx, paths, limit, l.LoadFile)
}

// RefreshAll is LoadAll with Refresh semantics: every dump is re-read and re-cached.
func (l *Loader) RefreshAll(ctx context.Context, paths []string, limit int) ([]Outcome, error) {
	return l.each(ctx, paths, limit, l.Refresh)
}

func (l *Loader) each(
	ctx context.Context,
	paths []string,
	limit int,
	load func(context.Context, string) (*Result, error),
) ([]Outcome, error) {
	outcomes := make([]Outcome, len(paths))

	g, groupCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, path := range paths {
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				outcomes[i] = Outcome{Path: path, Err: err}
				return err
			}
			start := time.Now()
			res, err := load(groupCtx, path)
			outcomes[i] = Outcome{Path: path, Result: res, Err: err, Elapsed: time.Since(start)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, ctx.Err()
}
