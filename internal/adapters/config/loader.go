// Package config resolves runtime settings from ibmetrics.yaml and the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/ibmetrics/internal/core/domain"
	"go.trai.ch/ibmetrics/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using an optional YAML file.
type Loader struct {
	Logger ports.Logger
	// Getenv looks up environment variables; os.Getenv when nil.
	Getenv func(string) string
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, Getenv: os.Getenv}
}

// Load resolves settings for cwd. The nearest ibmetrics.yaml in cwd or one of its
// parents is applied when present; IBMETRICS_CACHE_DIR overrides its cache_dir.
func (l *Loader) Load(cwd string) (*domain.Settings, error) {
	settings := &domain.Settings{
		WarmConcurrency: domain.DefaultWarmConcurrency,
		WatchDebounce:   domain.DefaultWatchDebounce,
	}

	configPath, found := findConfiguration(cwd)
	if found {
		var file File
		if err := readAndUnmarshalYAML(configPath, &file); err != nil {
			return nil, err
		}
		l.apply(settings, &file, configPath)
		settings.ConfigPath = configPath
	}

	if dir := l.getenv(domain.CacheDirEnv); dir != "" {
		settings.CacheDir = resolvePath(cwd, dir)
	}

	if settings.CacheDir == "" {
		dir, err := domain.DefaultCacheDir()
		if err != nil {
			return nil, err
		}
		settings.CacheDir = dir
	}

	return settings, nil
}

func (l *Loader) apply(settings *domain.Settings, file *File, configPath string) {
	if file.CacheDir != "" {
		settings.CacheDir = resolvePath(filepath.Dir(configPath), file.CacheDir)
	}
	settings.JSONLogs = file.Log.JSON

	switch {
	case file.Warm.Concurrency > 0:
		settings.WarmConcurrency = file.Warm.Concurrency
	case file.Warm.Concurrency < 0:
		l.Logger.Warn(fmt.Sprintf("ignoring warm.concurrency %d in %s, using %d",
			file.Warm.Concurrency, configPath, domain.DefaultWarmConcurrency))
	}

	switch {
	case file.Watch.Debounce > 0:
		settings.WatchDebounce = file.Watch.Debounce
	case file.Watch.Debounce < 0:
		l.Logger.Warn(fmt.Sprintf("ignoring negative watch.debounce in %s, using %s",
			configPath, domain.DefaultWatchDebounce))
	}
}

func (l *Loader) getenv(key string) string {
	if l.Getenv == nil {
		return os.Getenv(key)
	}
	return l.Getenv(key)
}

// findConfiguration walks from cwd towards the filesystem root looking for ibmetrics.yaml.
func findConfiguration(cwd string) (string, bool) {
	currentDir := filepath.Clean(cwd)
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

// resolvePath makes p absolute relative to base.
func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readAndUnmarshalYAML reads a YAML file strictly: unknown keys are an error.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath comes from findConfiguration
	data, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Join(domain.ErrConfigReadFailed, zerr.With(err, "path", configPath))
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return errors.Join(domain.ErrConfigParseFailed, zerr.With(err, "path", configPath))
	}
	return nil
}
