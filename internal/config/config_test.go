package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "http://localhost:9200", cfg.Search.URL)
	assert.Equal(t, cfg.Search.URL, cfg.Search.UIEndpoint)
	assert.Equal(t, 10000, cfg.Report.MaxPages)
	assert.Equal(t, "json", cfg.Gateway.DefaultFormat)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, filepath.Join(filepath.Dir(dir), "logs"), cfg.Logging.Dir)
}

func TestLoadConfig_LocalOverridesBase(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yml", `
server:
  http_port: 9000
search:
  url: http://es-base:9200
  request_timeout: 10s
report:
  max_rows: 500
`)
	writeConfig(t, dir, "config.local.yml", `
search:
  url: http://es-local:9200
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, "http://es-local:9200", cfg.Search.URL)
	assert.Equal(t, 10*time.Second, cfg.Search.RequestTimeout)
	assert.Equal(t, 500, cfg.Report.MaxRows)
	assert.Equal(t, 4, cfg.Report.ExpandWorkers)
}

func TestLoadConfig_EnvOverridesFiles(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yml", "search:\n  url: http://es-file:9200\n")
	t.Setenv("ESREPORT_SEARCH_URL", "http://es-env:9200")
	t.Setenv("ESREPORT_HTTP_PORT", "9100")
	t.Setenv("ESREPORT_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://es-env:9200", cfg.Search.URL)
	assert.Equal(t, 9100, cfg.Server.HTTPPort)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "config.yml", "server: [not valid")

		_, err := LoadConfig(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})

	t.Run("unreadable file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "config.yml"), 0o755))

		_, err := LoadConfig(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read")
	})

	t.Run("invalid section", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "config.yml", "report:\n  max_pages: -1\n")

		_, err := LoadConfig(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration error")
		assert.Contains(t, err.Error(), "report.max_pages")
	})
}

func TestConfig_ApplyDefaultsEveryField(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Apply(DefaultDir))

	assert.NotZero(t, cfg.Server.HTTPPort)
	assert.NotEmpty(t, cfg.Search.URL)
	assert.NotZero(t, cfg.Report.ExpandWorkers)
	assert.NotEmpty(t, cfg.Logging.Level)
}
