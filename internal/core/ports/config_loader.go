package ports

import "go.trai.ch/ibmetrics/internal/core/domain"

// ConfigLoader defines the interface for resolving runtime settings.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load resolves settings for the given working directory, reading the nearest
	// config file if there is one and applying environment overrides.
	Load(cwd string) (*domain.Settings, error)
}
