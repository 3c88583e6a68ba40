package ports

import (
	"context"

	"go.trai.ch/ibmetrics/internal/core/domain"
)

// TableStore persists parsed tables keyed by cache identity.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type TableStore interface {
	// Load returns the cached table for identity.
	// A missing or corrupt entry is reported as a miss, never as an error.
	Load(ctx context.Context, identity string) (*domain.RecordTable, bool)

	// Save writes the table for identity, replacing any existing entry.
	Save(ctx context.Context, identity string, table *domain.RecordTable) error

	// Path returns the snapshot file used for identity.
	Path(identity string) string

	// Clear removes every cached table and returns how many were removed.
	Clear() (int, error)

	// Root returns the cache directory.
	Root() string
}
