package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/ibmetrics/internal/adapters/logger"
)

func TestPrettyHandler_Handle_Levels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		msg        string
		goldenName string
	}{
		{
			name:       "info level",
			level:      slog.LevelInfo,
			msg:        "loaded 3 rows from dump.txt",
			goldenName: "handler_info",
		},
		{
			name:       "warn level",
			level:      slog.LevelWarn,
			msg:        "failed to parse row count footer in dump.txt",
			goldenName: "handler_warn",
		},
		{
			name:       "error level",
			level:      slog.LevelError,
			msg:        "error message",
			goldenName: "handler_error",
		},
		{
			name:       "debug level filtered",
			level:      slog.LevelDebug,
			msg:        "debug message",
			goldenName: "handler_debug_filtered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			lg := slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}))

			lg.Log(t.Context(), tt.level, tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_Attrs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil)).
		With("path", "dump.txt").
		WithGroup("cache")

	lg.Info("stored", "hit", false)

	assert.Equal(t, "stored cache.path=dump.txt cache.hit=false\n", buf.String())
}

func TestPrettyHandler_DumpLocation(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name  string
		attrs []any
		want  string
	}{
		{
			name:  "path and line",
			attrs: []any{"line", 4, "path", "weekly.txt", "reason", "invalid timestamp"},
			want:  "! skipped row (weekly.txt:4) reason=invalid timestamp\n",
		},
		{
			name:  "path only",
			attrs: []any{"path", "weekly.txt"},
			want:  "! skipped row (weekly.txt)\n",
		},
		{
			name:  "line only",
			attrs: []any{"rows", 3, "line", 4},
			want:  "! skipped row line=4 rows=3\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			slog.New(logger.NewPrettyHandler(buf, nil)).Warn("skipped row", tt.attrs...)

			assert.Equal(t, tt.want, buf.String())
		})
	}
}
