package domain

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// AppName is used for the default cache directory and the tracer name.
	AppName = "ibmetrics"

	// CacheDirEnv names the environment variable overriding the cache root.
	CacheDirEnv = "IBMETRICS_CACHE_DIR"

	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "ibmetrics.yaml"

	// CacheFileExt is the extension of cached table snapshots.
	CacheFileExt = ".ibcache"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// DefaultWarmConcurrency bounds how many dumps warm loads in parallel.
	DefaultWarmConcurrency = 4

	// DefaultWatchDebounce coalesces bursts of file events in the drop directory.
	DefaultWatchDebounce = 500 * time.Millisecond
)

// DefaultCacheDir returns the platform user cache location for ibmetrics.
func DefaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Join(ErrNoCacheDir, err)
	}
	return filepath.Join(base, AppName), nil
}

// CacheIdentity derives the cache key for a dump path: its base name.
// Two dumps with the same file name share one cache entry regardless of directory.
func CacheIdentity(path string) string {
	return filepath.Base(path)
}

// CacheFileName returns the snapshot file name for a cache identity.
func CacheFileName(identity string) string {
	return strings.TrimSuffix(identity, filepath.Ext(identity)) + CacheFileExt
}
