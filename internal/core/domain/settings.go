package domain

import "time"

// Settings is the resolved runtime configuration.
type Settings struct {
	// CacheDir is the root of the table cache.
	CacheDir string
	// ConfigPath is the config file the settings came from, empty when none was found.
	ConfigPath string
	// JSONLogs switches log output to JSON.
	JSONLogs bool
	// WarmConcurrency bounds parallel loads in warm and watch.
	WarmConcurrency int
	// WatchDebounce is the quiet period before a changed dump is loaded.
	WatchDebounce time.Duration
}
