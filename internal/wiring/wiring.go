// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/ibmetrics/internal/adapters/cache"
	_ "go.trai.ch/ibmetrics/internal/adapters/config"
	_ "go.trai.ch/ibmetrics/internal/adapters/dump"
	_ "go.trai.ch/ibmetrics/internal/adapters/logger"
	_ "go.trai.ch/ibmetrics/internal/adapters/telemetry"
	_ "go.trai.ch/ibmetrics/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/ibmetrics/internal/app"
	_ "go.trai.ch/ibmetrics/internal/engine/loader"
)
