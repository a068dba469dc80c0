package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// isolate points HOME and the working directory at a fresh temp dir
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	oldDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldDir) })
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://s-api.csfloat.com", cfg.API.BaseURL)
	assert.Equal(t, "https://csfloat.pics/", cfg.API.ImageBaseURL)
	assert.Equal(t, "?v=3", cfg.API.ImageQuery)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)

	assert.Equal(t, 1, cfg.Fetch.FirstFile)
	assert.Equal(t, 47, cfg.Fetch.LastFile)
	assert.Equal(t, "success_cache.json", cfg.Fetch.CacheFile)
	assert.Equal(t, "failed_paint_seeds.json", cfg.Fetch.FailedFile)
	assert.Equal(t, 5, cfg.Fetch.MaxRetries)
	assert.Equal(t, time.Second, cfg.Fetch.BaseDelay)
	assert.Equal(t, time.Second, cfg.Fetch.RequestDelay)

	assert.Equal(t, "G3_gallery", cfg.Gallery.FilePrefix)
	assert.Len(t, cfg.Rank.Subdirs, 10)
	assert.Equal(t, 8, cfg.Rank.Workers)
	assert.Equal(t, "color_ratio_ranking.csv", cfg.Rank.OutputFile)
	assert.Equal(t, "favorites.json", cfg.Viewer.FavoritesFile)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GAMMASCOPE_API_KEY", "secret")
	t.Setenv("GAMMASCOPE_INPUT_DIR", "/data/in")
	t.Setenv("GAMMASCOPE_MAX_RETRIES", "9")
	t.Setenv("GAMMASCOPE_REQUEST_DELAY", "250ms")
	t.Setenv("GAMMASCOPE_RANK_WORKERS", "4")
	t.Setenv("GAMMASCOPE_LOG_LEVEL", "debug")
	t.Setenv("GAMMASCOPE_NO_COLOR", "1")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "secret", cfg.API.APIKey)
	assert.Equal(t, "/data/in", cfg.Fetch.InputDir)
	assert.Equal(t, 9, cfg.Fetch.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Fetch.RequestDelay)
	assert.Equal(t, 4, cfg.Rank.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.NoColor)
}

func TestLoadFromEnvReportsBadValues(t *testing.T) {
	t.Setenv("GAMMASCOPE_MAX_RETRIES", "many")
	t.Setenv("GAMMASCOPE_BASE_DELAY", "soon")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GAMMASCOPE_MAX_RETRIES")
	assert.Contains(t, err.Error(), "GAMMASCOPE_BASE_DELAY")
	assert.Equal(t, 5, cfg.Fetch.MaxRetries)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
fetch:
  input_dir: /srv/items
  last_file: 3
  base_delay: 500ms
rank:
  subdirs: ["0", "1"]
  workers: 2
download:
  timeout: 1m30s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "/srv/items", cfg.Fetch.InputDir)
	assert.Equal(t, 3, cfg.Fetch.LastFile)
	assert.Equal(t, 500*time.Millisecond, cfg.Fetch.BaseDelay)
	assert.Equal(t, []string{"0", "1"}, cfg.Rank.Subdirs)
	assert.Equal(t, 2, cfg.Rank.Workers)
	assert.Equal(t, 90*time.Second, cfg.Download.Timeout)
	// untouched keys keep defaults
	assert.Equal(t, "success_cache.json", cfg.Fetch.CacheFile)
}

func TestLoadFromFileErrors(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("fetch: [unclosed"), 0644))
	err := cfg.LoadFromFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestFindConfigFile(t *testing.T) {
	dir := isolate(t)

	cfg := DefaultConfig()
	assert.Empty(t, cfg.findConfigFile())

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gammascope.yaml"), []byte("{}"), 0644))
	assert.Equal(t, ".gammascope.yaml", cfg.findConfigFile())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "relative base url", mutate: func(c *Config) { c.API.BaseURL = "csfloat" }, wantErr: "api base url"},
		{name: "file range reversed", mutate: func(c *Config) { c.Fetch.FirstFile, c.Fetch.LastFile = 5, 2 }, wantErr: "last input file"},
		{name: "zero retries", mutate: func(c *Config) { c.Fetch.MaxRetries = 0 }, wantErr: "max retries"},
		{name: "negative delay", mutate: func(c *Config) { c.Fetch.RequestDelay = -time.Second }, wantErr: "delays cannot be negative"},
		{name: "too many downloads", mutate: func(c *Config) { c.Download.Concurrent = 11 }, wantErr: "should not exceed 10"},
		{name: "unknown side", mutate: func(c *Config) { c.Download.Sides = []string{"front"} }, wantErr: "unknown image side"},
		{name: "no workers", mutate: func(c *Config) { c.Rank.Workers = 0 }, wantErr: "rank workers"},
		{name: "bad mode", mutate: func(c *Config) { c.Viewer.StartMode = "red" }, wantErr: "start mode"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "chatty" }, wantErr: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fetch.CacheFile = ""
	cfg.Rank.OutputFile = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache file is required")
	assert.Contains(t, err.Error(), "ranking output file is required")
}

func TestSaveDoesNotWriteAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.API.APIKey = "do-not-persist"
	cfg.Fetch.LastFile = 12

	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "do-not-persist")

	var loaded Config
	require.NoError(t, yaml.Unmarshal(data, &loaded))
	assert.Equal(t, 12, loaded.Fetch.LastFile)
	assert.Equal(t, time.Second, loaded.Fetch.BaseDelay)
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"input-dir":     "/flags",
		"max-retries":   7,
		"request-delay": 2 * time.Second,
		"no-gallery":    true,
		"workers":       "not a number",
		"concurrent":    -1,
		"log-level":     "warn",
	})

	assert.Equal(t, "/flags", cfg.Fetch.InputDir)
	assert.Equal(t, 7, cfg.Fetch.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Fetch.RequestDelay)
	assert.False(t, cfg.Gallery.Enabled)
	assert.Equal(t, 8, cfg.Rank.Workers)
	assert.Equal(t, 3, cfg.Download.Concurrent)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)

	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
fetch:
  input_dir: /from/file
  cache_file: file_cache.json
  failed_file: file_failed.json
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GAMMASCOPE_FAILED_FILE=dotenv_failed.json\n"), 0644))

	t.Setenv("GAMMASCOPE_CACHE_FILE", "env_cache.json")
	t.Setenv("GAMMASCOPE_INPUT_DIR", "/from/env")
	// godotenv sets this one; make sure it is unset again afterwards
	t.Setenv("GAMMASCOPE_FAILED_FILE", "")
	require.NoError(t, os.Unsetenv("GAMMASCOPE_FAILED_FILE"))

	cfg, err := Load(configPath, map[string]interface{}{"input-dir": "/from/flag"})
	require.NoError(t, err)

	assert.Equal(t, "/from/flag", cfg.Fetch.InputDir)
	assert.Equal(t, "env_cache.json", cfg.Fetch.CacheFile)
	assert.Equal(t, "dotenv_failed.json", cfg.Fetch.FailedFile)
}

func TestLoadValidationFailure(t *testing.T) {
	isolate(t)

	cfg, err := Load("", map[string]interface{}{"mode": "sideways"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
	assert.Nil(t, cfg)
}
