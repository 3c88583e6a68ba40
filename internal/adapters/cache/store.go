// Package cache implements the on-disk snapshot store for parsed dump tables.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/ibmetrics/internal/core/domain"
	"go.trai.ch/ibmetrics/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// SnapshotFormat identifies ibmetrics table snapshots.
	SnapshotFormat = "ibmetrics.table"
	// SnapshotFormatVersion is bumped whenever the envelope or table encoding changes.
	SnapshotFormatVersion = 2
)

var _ ports.TableStore = (*Store)(nil)

// envelope is the on-disk layout of one snapshot.
type envelope struct {
	Format        string          `json:"format"`
	FormatVersion int             `json:"format_version"`
	SchemaVersion int             `json:"schema_version"`
	Identity      string          `json:"identity"`
	Checksum      string          `json:"checksum"`
	Table         json.RawMessage `json:"table"`
}

// Store implements ports.TableStore with one snapshot file per identity.
type Store struct {
	root          string
	schemaVersion int
	logger        ports.Logger
	tracer        ports.Tracer
}

// NewStore creates a Store rooted at root. The directory is created on the first Save.
func NewStore(root string, logger ports.Logger, tracer ports.Tracer) *Store {
	return &Store{
		root:          filepath.Clean(root),
		schemaVersion: domain.CurrentSchema.Version,
		logger:        logger,
		tracer:        tracer,
	}
}

// Root returns the cache directory.
func (s *Store) Root() string {
	return s.root
}

// Path returns the snapshot file used for identity.
func (s *Store) Path(identity string) string {
	return filepath.Join(s.root, domain.CacheFileName(identity))
}

// Load returns the cached table for identity. It never reads the source dump.
func (s *Store) Load(ctx context.Context, identity string) (*domain.RecordTable, bool) {
	_, span := s.tracer.Start(ctx, "cache.load", ports.WithAttribute("identity", identity))
	defer span.End()

	table, err := s.load(identity)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			span.RecordError(err)
			s.logger.Warn(fmt.Sprintf("ignoring cached table for %s: %s",
				identity, strings.ReplaceAll(err.Error(), "\n", ": ")))
		}
		span.SetAttribute("hit", false)
		return nil, false
	}

	span.SetAttribute("hit", true)
	span.SetAttribute("records", table.Len())
	return table, true
}

func (s *Store) load(identity string) (*domain.RecordTable, error) {
	path := s.Path(identity)

	//nolint:gosec // Path is built from the cache root and a sanitised file name
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, corrupt(zerr.Wrap(err, "invalid envelope"), path)
	}

	switch {
	case env.Format != SnapshotFormat:
		return nil, corrupt(zerr.With(zerr.New("unknown snapshot format"), "format", env.Format), path)
	case env.FormatVersion != SnapshotFormatVersion:
		return nil, corrupt(zerr.With(zerr.New("unsupported snapshot version"), "format_version", env.FormatVersion), path)
	case env.Identity != identity:
		// Basenames differing only in extension share a snapshot file.
		return nil, corrupt(zerr.With(zerr.New("snapshot belongs to another dump"), "identity", env.Identity), path)
	case env.SchemaVersion != s.schemaVersion:
		return nil, corrupt(zerr.With(zerr.New("snapshot was written for another schema"), "schema_version", env.SchemaVersion), path)
	case env.Checksum != checksum(env.Table):
		return nil, corrupt(zerr.New("checksum mismatch"), path)
	}

	var table domain.RecordTable
	if err := json.Unmarshal(env.Table, &table); err != nil {
		return nil, corrupt(zerr.Wrap(err, "invalid table"), path)
	}
	return &table, nil
}

// Save writes the table for identity atomically, replacing any previous snapshot.
func (s *Store) Save(ctx context.Context, identity string, table *domain.RecordTable) error {
	_, span := s.tracer.Start(ctx, "cache.save", ports.WithAttribute("identity", identity))
	defer span.End()

	if err := s.save(identity, table); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (s *Store) save(identity string, table *domain.RecordTable) error {
	path := s.Path(identity)

	raw, err := json.Marshal(table)
	if err != nil {
		return errors.Join(domain.ErrCacheMarshalFailed, zerr.With(err, "identity", identity))
	}
	data, err := json.Marshal(envelope{
		Format:        SnapshotFormat,
		FormatVersion: SnapshotFormatVersion,
		SchemaVersion: s.schemaVersion,
		Identity:      identity,
		Checksum:      checksum(raw),
		Table:         raw,
	})
	if err != nil {
		return errors.Join(domain.ErrCacheMarshalFailed, zerr.With(err, "identity", identity))
	}

	if err := os.MkdirAll(s.root, domain.DirPerm); err != nil {
		return errors.Join(domain.ErrCacheRootUnavailable, zerr.With(err, "path", s.root))
	}

	if err := writeAtomic(path, data); err != nil {
		return errors.Join(domain.ErrCacheWriteFailed, zerr.With(err, "path", path))
	}
	return nil
}

// Clear removes every snapshot under the root and reports how many were removed.
// The root directory itself is kept.
func (s *Store) Clear() (int, error) {
	matches, err := filepath.Glob(filepath.Join(s.root, "*"+domain.CacheFileExt))
	if err != nil {
		return 0, errors.Join(domain.ErrCacheCleanFailed, zerr.With(err, "path", s.root))
	}

	removed := 0
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, errors.Join(domain.ErrCacheCleanFailed, zerr.With(err, "path", m))
		}
		removed++
	}
	return removed, nil
}

// writeAtomic writes data next to path and renames it into place, so readers
// see either the old snapshot or the new one.
func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(bytes.TrimSpace(data)))
}

func corrupt(cause error, path string) error {
	return errors.Join(domain.ErrCacheCorrupt, zerr.With(cause, "path", path))
}
