package domain

import "go.trai.ch/zerr"

var (
	// ErrDumpNotFound is returned when the dump file does not exist.
	ErrDumpNotFound = zerr.New("dump file not found")

	// ErrDumpIO is returned when the dump file cannot be opened or read.
	ErrDumpIO = zerr.New("failed to read dump file")

	// ErrDumpFormat is returned when the file content does not resemble a build dump at all.
	ErrDumpFormat = zerr.New("file is not a build dump")

	// ErrUnsupportedSchema is returned when a dump declares a schema version this build does not know.
	ErrUnsupportedSchema = zerr.New("unsupported dump schema version")

	// ErrRecordShape is returned when a stored record has mismatched names and values.
	ErrRecordShape = zerr.New("record names and values differ in length")

	// ErrCacheRootUnavailable is returned when the cache directory cannot be created.
	ErrCacheRootUnavailable = zerr.New("failed to create cache directory")

	// ErrCacheMarshalFailed is returned when a table cannot be encoded for the cache.
	ErrCacheMarshalFailed = zerr.New("failed to marshal cached table")

	// ErrCacheWriteFailed is returned when a cache snapshot cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write cached table")

	// ErrCacheCorrupt marks an unreadable or inconsistent snapshot. It is never returned
	// to callers of the store; a corrupt entry is reported as a miss.
	ErrCacheCorrupt = zerr.New("cached table is corrupt")

	// ErrCacheCleanFailed is returned when cached snapshots cannot be removed.
	ErrCacheCleanFailed = zerr.New("failed to clean cache")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrNoCacheDir is returned when no cache directory is configured and no user cache dir exists.
	ErrNoCacheDir = zerr.New("could not determine cache directory")

	// ErrNoDumpsSpecified is returned when a command needs at least one dump path.
	ErrNoDumpsSpecified = zerr.New("no dump files specified")

	// ErrInvalidFilter is returned when a --where or time filter cannot be parsed.
	ErrInvalidFilter = zerr.New("invalid filter")

	// ErrUnknownFormat is returned when --format names no known output format.
	ErrUnknownFormat = zerr.New("unknown output format")

	// ErrWarmIncomplete is returned when at least one dump of a batch could not be loaded.
	// Each failure has already been reported when it is returned.
	ErrWarmIncomplete = zerr.New("some dumps could not be loaded")

	// ErrWatchFailed is returned when the drop directory cannot be watched.
	ErrWatchFailed = zerr.New("failed to watch directory")
)
