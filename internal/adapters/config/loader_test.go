package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ibmetrics/internal/adapters/config"
	"go.trai.ch/ibmetrics/internal/core/domain"
	"go.trai.ch/ibmetrics/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func createFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, domain.DirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), domain.FilePerm))
}

func newLoader(t *testing.T, env map[string]string) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()

	loader := config.NewLoader(mockLogger)
	loader.Getenv = func(key string) string { return env[key] }
	return loader
}

func TestLoader_Load_Defaults(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cwd := t.TempDir()

	settings, err := newLoader(t, nil).Load(cwd)
	require.NoError(t, err)

	want, err := domain.DefaultCacheDir()
	require.NoError(t, err)
	assert.Equal(t, want, settings.CacheDir)
	assert.Empty(t, settings.ConfigPath)
	assert.False(t, settings.JSONLogs)
	assert.Equal(t, domain.DefaultWarmConcurrency, settings.WarmConcurrency)
	assert.Equal(t, domain.DefaultWatchDebounce, settings.WatchDebounce)
}

func TestLoader_Load_FileInParent(t *testing.T) {
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, `
cache_dir: .cache/tables
log:
  json: true
warm:
  concurrency: 8
watch:
  debounce: 2s
`)
	cwd := filepath.Join(root, "reports", "2024")
	require.NoError(t, os.MkdirAll(cwd, domain.DirPerm))

	settings, err := newLoader(t, nil).Load(cwd)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, domain.ConfigFileName), settings.ConfigPath)
	assert.Equal(t, filepath.Join(root, ".cache", "tables"), settings.CacheDir)
	assert.True(t, settings.JSONLogs)
	assert.Equal(t, 8, settings.WarmConcurrency)
	assert.Equal(t, 2*time.Second, settings.WatchDebounce)
}

func TestLoader_Load_EnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "cache_dir: /var/cache/ibmetrics\n")
	envDir := filepath.Join(t.TempDir(), "env-cache")

	settings, err := newLoader(t, map[string]string{domain.CacheDirEnv: envDir}).Load(root)
	require.NoError(t, err)

	assert.Equal(t, envDir, settings.CacheDir)
}

func TestLoader_Load_RelativeEnvResolvesAgainstCwd(t *testing.T) {
	cwd := t.TempDir()

	settings, err := newLoader(t, map[string]string{domain.CacheDirEnv: "tables"}).Load(cwd)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cwd, "tables"), settings.CacheDir)
}

func TestLoader_Load_UnknownKey(t *testing.T) {
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "cache_directory: /tmp/x\n")

	_, err := newLoader(t, nil).Load(root)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigParseFailed)
}

func TestLoader_Load_InvalidYAML(t *testing.T) {
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "warm: [unclosed\n")

	_, err := newLoader(t, nil).Load(root)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigParseFailed)
}

func TestLoader_Load_EmptyFile(t *testing.T) {
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "")

	settings, err := newLoader(t, map[string]string{domain.CacheDirEnv: "/tmp/c"}).Load(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, domain.ConfigFileName), settings.ConfigPath)
	assert.Equal(t, domain.DefaultWarmConcurrency, settings.WarmConcurrency)
}

func TestLoader_Load_NegativeValuesWarn(t *testing.T) {
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "warm:\n  concurrency: -1\nwatch:\n  debounce: -1s\n")

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(2)

	loader := config.NewLoader(mockLogger)
	loader.Getenv = func(string) string { return "/tmp/c" }

	settings, err := loader.Load(root)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWarmConcurrency, settings.WarmConcurrency)
	assert.Equal(t, domain.DefaultWatchDebounce, settings.WatchDebounce)
}

func TestResolveSettings(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	want := &domain.Settings{CacheDir: "/var/cache/ibmetrics"}

	loader.EXPECT().Load("/work/reports").Return(want, nil)

	got, err := config.ResolveSettings(loader, func() (string, error) { return "/work/reports", nil })
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestResolveSettings_Errors(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)

	cwdErr := errors.New("cwd removed")
	_, err := config.ResolveSettings(loader, func() (string, error) { return "", cwdErr })
	require.ErrorIs(t, err, cwdErr)

	loader.EXPECT().Load("/work").Return(nil, domain.ErrConfigParseFailed)
	_, err = config.ResolveSettings(loader, func() (string, error) { return "/work", nil })
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
}
