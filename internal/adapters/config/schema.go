package config

import "time"

// File is the structure of the ibmetrics.yaml configuration file.
type File struct {
	CacheDir string      `yaml:"cache_dir"`
	Log      LogConfig   `yaml:"log"`
	Warm     WarmConfig  `yaml:"warm"`
	Watch    WatchConfig `yaml:"watch"`
}

// LogConfig holds logging options.
type LogConfig struct {
	JSON bool `yaml:"json"`
}

// WarmConfig holds options for warming the cache.
type WarmConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// WatchConfig holds options for watching a drop directory.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}
