package detector_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ibmetrics/internal/adapters/detector"
	"go.trai.ch/ibmetrics/internal/core/domain"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestDetectFormat(t *testing.T) {
	t.Run("buffer is not a terminal", func(t *testing.T) {
		got := detector.DetectFormat(new(bytes.Buffer), env(nil))
		assert.Equal(t, detector.FormatTSV, got)
	})

	t.Run("regular file is not a terminal", func(t *testing.T) {
		f, err := os.CreateTemp(t.TempDir(), "out")
		require.NoError(t, err)
		defer func() { _ = f.Close() }()

		got := detector.DetectFormat(f, env(nil))
		assert.Equal(t, detector.FormatTSV, got)
	})

	t.Run("CI forces TSV", func(t *testing.T) {
		for _, ci := range []string{"true", "1"} {
			got := detector.DetectFormat(new(bytes.Buffer), env(map[string]string{"CI": ci}))
			assert.Equal(t, detector.FormatTSV, got, "CI=%s", ci)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		flag string
		want detector.Format
	}{
		{flag: "", want: detector.FormatAuto},
		{flag: "auto", want: detector.FormatAuto},
		{flag: "table", want: detector.FormatTable},
		{flag: "tsv", want: detector.FormatTSV},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := detector.ParseFormat(tt.flag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.flag != "" {
				assert.Equal(t, tt.flag, got.String())
			}
		})
	}

	_, err := detector.ParseFormat("csv")
	require.ErrorIs(t, err, domain.ErrUnknownFormat)
}

func TestResolveFormat(t *testing.T) {
	assert.Equal(t, detector.FormatTable, detector.ResolveFormat(detector.FormatTable, detector.FormatAuto))
	assert.Equal(t, detector.FormatTSV, detector.ResolveFormat(detector.FormatTable, detector.FormatTSV))
	assert.Equal(t, detector.FormatTable, detector.ResolveFormat(detector.FormatTSV, detector.FormatTable))
}
