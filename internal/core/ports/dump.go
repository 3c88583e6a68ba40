package ports

import (
	"context"

	"go.trai.ch/ibmetrics/internal/core/domain"
)

// LineDecoder turns one raw dump line into a record.
//
//go:generate mockgen -source=dump.go -destination=mocks/mock_dump.go -package=mocks
type LineDecoder interface {
	// Decode converts a data line using the decoder's column layout.
	// A line that cannot be converted yields a non-nil failure and a zero record.
	Decode(raw domain.RawLine) (domain.BuildRecord, *domain.DecodeFailure)

	// Columns returns the column layout the decoder applies.
	Columns() []domain.Field
}

// DumpReader parses an entire dump file into a table.
type DumpReader interface {
	// Read parses the dump at path. Undecodable lines are collected on the table.
	// It fails only when the file is missing, unreadable, or not a dump at all.
	Read(ctx context.Context, path string) (*domain.RecordTable, error)
}
