// Package app implements the application layer for ibmetrics.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/ibmetrics/internal/adapters/detector"
	"go.trai.ch/ibmetrics/internal/adapters/render"
	"go.trai.ch/ibmetrics/internal/adapters/telemetry"
	"go.trai.ch/ibmetrics/internal/adapters/watcher"
	"go.trai.ch/ibmetrics/internal/core/domain"
	"go.trai.ch/ibmetrics/internal/core/ports"
	"go.trai.ch/ibmetrics/internal/engine/loader"
	"go.trai.ch/ibmetrics/internal/ui/output"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	loader   *loader.Loader
	store    ports.TableStore
	settings *domain.Settings
	logger   ports.Logger
	watchers ports.DropWatcherFactory

	stdout io.Writer
	getenv func(string) string

	// reportMu serialises summary lines written from concurrent watch batches.
	reportMu      sync.Mutex
	traceShutdown func(context.Context) error
}

// New creates a new App instance.
func New(
	ld *loader.Loader,
	store ports.TableStore,
	settings *domain.Settings,
	log ports.Logger,
	watchers ports.DropWatcherFactory,
) *App {
	return &App{
		loader:   ld,
		store:    store,
		settings: settings,
		logger:   log,
		watchers: watchers,
		stdout:   os.Stdout,
		getenv:   os.Getenv,
	}
}

// WithOutput redirects command output (summaries, tables, paths) to w.
func (a *App) WithOutput(w io.Writer) *App {
	a.stdout = w
	return a
}

// WithGetenv replaces the environment lookup used for output detection.
func (a *App) WithGetenv(getenv func(string) string) *App {
	a.getenv = getenv
	return a
}

// GlobalOptions are the options shared by every command.
type GlobalOptions struct {
	JSON  bool
	Trace bool
}

// jsonSwitch is implemented by loggers that can change their output format.
type jsonSwitch interface {
	SetJSON(enable bool)
}

// Configure applies the global options. Log format from the config file is
// honoured here as well, since it is only known once settings are resolved.
func (a *App) Configure(opts GlobalOptions) {
	if opts.JSON || a.settings.JSONLogs {
		if l, ok := a.logger.(jsonSwitch); ok {
			l.SetJSON(true)
		}
	}
	if opts.Trace && a.traceShutdown == nil {
		a.traceShutdown = telemetry.InstallLogProvider(a.logger)
	}
}

// Close flushes pending trace output.
func (a *App) Close(ctx context.Context) error {
	if a.traceShutdown == nil {
		return nil
	}
	shutdown := a.traceShutdown
	a.traceShutdown = nil
	return shutdown(ctx)
}

// LoadOptions configuration for the Load method.
type LoadOptions struct {
	// NoCache parses the dump without reading or writing the cache.
	NoCache bool
	// Refresh parses the dump and replaces its cache entry.
	Refresh bool
	// Failures lists the lines that could not be decoded.
	Failures bool
}

// Load loads one dump and prints a summary of the result.
func (a *App) Load(ctx context.Context, path string, opts LoadOptions) error {
	if path == "" {
		return domain.ErrNoDumpsSpecified
	}

	start := time.Now()
	res, origin, err := a.load(ctx, path, opts.NoCache, opts.Refresh)
	if err != nil {
		return zerr.Wrap(err, "failed to load dump")
	}

	out := output.New(a.stdout)
	render.Summary(out, res.Identity, res.Table, origin, time.Since(start))
	if opts.Failures {
		render.Failures(out, res.Table)
	}
	return nil
}

func (a *App) load(ctx context.Context, path string, noCache, refresh bool) (*loader.Result, render.Origin, error) {
	switch {
	case noCache:
		res, err := a.loader.Read(ctx, path)
		return res, render.OriginBypassed, err
	case refresh:
		res, err := a.loader.Refresh(ctx, path)
		return res, render.OriginRefreshed, err
	default:
		res, err := a.loader.LoadFile(ctx, path)
		if err != nil {
			return nil, render.OriginParsed, err
		}
		return res, originOf(res, render.OriginParsed), nil
	}
}

// ShowOptions configuration for the Show method.
type ShowOptions struct {
	// Format is "auto", "table" or "tsv".
	Format string
	// Where holds field=value conditions; all of them have to match.
	Where []string
	// Since and Until bound created_at, inclusive.
	Since string
	Until string
	// Limit caps the number of records shown; zero shows all.
	Limit   int
	NoCache bool
}

// Show loads one dump and writes its records.
func (a *App) Show(ctx context.Context, path string, opts ShowOptions) error {
	if path == "" {
		return domain.ErrNoDumpsSpecified
	}

	requested, err := detector.ParseFormat(opts.Format)
	if err != nil {
		return err
	}
	q, err := parseQuery(opts)
	if err != nil {
		return err
	}

	res, _, err := a.load(ctx, path, opts.NoCache, false)
	if err != nil {
		return zerr.Wrap(err, "failed to load dump")
	}
	if n := len(res.Table.Failures); n > 0 {
		a.logger.Warn(fmt.Sprintf("%s has %d lines that could not be decoded, see 'ibmetrics load --failures'", res.Identity, n))
	}

	view, err := q.apply(res.Table)
	if err != nil {
		return err
	}

	format := detector.ResolveFormat(detector.DetectFormat(a.stdout, a.getenv), requested)
	if format == detector.FormatTable {
		return render.Table(a.stdout, view, output.ColorProfile())
	}
	return render.TSV(a.stdout, view)
}

// WarmOptions configuration for the Warm method.
type WarmOptions struct {
	// Refresh re-parses every dump even when it is cached.
	Refresh bool
}

// Warm loads several dumps concurrently so that later commands hit the cache.
// Every dump is attempted; ErrWarmIncomplete reports that some of them failed.
func (a *App) Warm(ctx context.Context, paths []string, opts WarmOptions) error {
	if len(paths) == 0 {
		return domain.ErrNoDumpsSpecified
	}

	run, origin := a.loader.LoadAll, render.OriginParsed
	if opts.Refresh {
		run, origin = a.loader.RefreshAll, render.OriginRefreshed
	}

	outcomes, err := run(ctx, paths, a.concurrency())
	failed := a.report(outcomes, origin)
	if err != nil {
		return err
	}
	if failed > 0 {
		return domain.ErrWarmIncomplete
	}
	return nil
}

// Watch warms the cache for the dumps already in dir, then re-reads every dump
// that is added or rewritten until ctx is done.
func (a *App) Watch(ctx context.Context, dir string) error {
	w, err := a.watchers()
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	if err := w.Start(ctx, dir); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("watching %s for dumps", dir))

	existing, err := dumpsIn(dir)
	if err != nil {
		return errors.Join(domain.ErrWatchFailed, zerr.With(err, "path", dir))
	}
	if len(existing) > 0 {
		outcomes, err := a.loader.LoadAll(ctx, existing, a.concurrency())
		a.report(outcomes, render.OriginParsed)
		if err != nil {
			return nil //nolint:nilerr // cancelled while warming means shutdown
		}
	}

	// Batches still pending on shutdown are processed with a context that is not cancelled.
	batchCtx := context.WithoutCancel(ctx)
	debouncer := watcher.NewDebouncer(a.debounce(), func(paths []string) {
		outcomes, _ := a.loader.RefreshAll(batchCtx, paths, a.concurrency())
		a.report(outcomes, render.OriginRefreshed)
	})

	for event := range w.Events() {
		debouncer.Add(event.Path)
	}
	debouncer.Flush()

	a.logger.Info(fmt.Sprintf("stopped watching %s", dir))
	return nil
}

// dumpsIn lists the dump candidates directly inside dir, sorted by name.
func dumpsIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !watcher.IsDumpCandidate(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// report prints one summary line per outcome and returns how many failed.
func (a *App) report(outcomes []loader.Outcome, origin render.Origin) int {
	a.reportMu.Lock()
	defer a.reportMu.Unlock()

	out := output.New(a.stdout)
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			render.Failed(out, domain.CacheIdentity(o.Path), o.Err)
			continue
		}
		if o.Result == nil {
			continue
		}
		render.Summary(out, o.Result.Identity, o.Result.Table, originOf(o.Result, origin), o.Elapsed)
	}
	return failed
}

func originOf(res *loader.Result, fallback render.Origin) render.Origin {
	if res.CacheHit {
		return render.OriginCached
	}
	return fallback
}

// CachePath prints the cache root, or the snapshot file used for dump when it is set.
func (a *App) CachePath(dump string) error {
	path := a.store.Root()
	if dump != "" {
		path = a.store.Path(domain.CacheIdentity(dump))
	}
	_, err := fmt.Fprintln(a.stdout, path)
	return err
}

// CacheClean removes every cached table.
func (a *App) CacheClean(_ context.Context) error {
	n, err := a.store.Clear()
	if err != nil {
		return err
	}

	noun := "tables"
	if n == 1 {
		noun = "table"
	}
	a.logger.Info(fmt.Sprintf("removed %d cached %s from %s", n, noun, a.store.Root()))
	return nil
}

func (a *App) concurrency() int {
	if a.settings.WarmConcurrency > 0 {
		return a.settings.WarmConcurrency
	}
	return domain.DefaultWarmConcurrency
}

func (a *App) debounce() time.Duration {
	if a.settings.WatchDebounce > 0 {
		return a.settings.WatchDebounce
	}
	return domain.DefaultWatchDebounce
}
