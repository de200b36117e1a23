package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/deptiers/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// clearEnv unsets the deptiers variables for the duration of a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAddr, EnvRedisURL, EnvMongoURI, EnvCacheDir, EnvNoCache} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, []string{"svg"}, cfg.Render.Formats)
	assert.False(t, cfg.Cache.Disabled)
	assert.Empty(t, cfg.Store.MongoURI)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.toml", `
addr = ":9000"

[cache]
redis_url = "redis://localhost:6379/1"

[layout]
axis = "horizontal"
sort_siblings = true
max_depth = 3

[render]
formats = ["png", "json"]
detailed = true
`)

	cfg, err := Load(Options{Path: path, EnvFile: writeFile(t, dir, ".env", "")})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "redis://localhost:6379/1", cfg.CacheOptions().RedisURL)

	opts := cfg.PipelineOptions()
	assert.Equal(t, "horizontal", opts.Axis)
	assert.True(t, opts.SortSiblings)
	assert.Equal(t, 3, opts.MaxDepth)
	assert.Equal(t, []string{"png", "json"}, opts.Formats)
	assert.True(t, opts.Detailed)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "deptiers.toml", "addr = \":9000\"\n")
	envFile := writeFile(t, dir, ".env", "DEPTIERS_MONGO_URI=mongodb://db:27017\nDEPTIERS_ADDR=:7000\n")
	t.Setenv(EnvAddr, ":6000")
	t.Setenv(EnvNoCache, "true")

	cfg, err := Load(Options{Path: path, EnvFile: envFile})
	require.NoError(t, err)

	assert.Equal(t, ":6000", cfg.Addr, "process environment beats .env")
	assert.Equal(t, "mongodb://db:27017", cfg.Store.MongoURI)
	assert.True(t, cfg.Cache.Disabled)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	env := writeFile(t, dir, ".env", "")

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing explicit file", Options{Path: filepath.Join(dir, "nope.toml"), EnvFile: env}, errors.ErrCodeNotFound},
		{"bad toml", Options{Path: writeFile(t, dir, "bad.toml", "addr = "), EnvFile: env}, errors.ErrCodeInvalidFormat},
		{"unknown key", Options{Path: writeFile(t, dir, "unknown.toml", "colour = \"red\"\n"), EnvFile: env}, errors.ErrCodeInvalidFormat},
		{"bad axis", Options{Path: writeFile(t, dir, "axis.toml", "[layout]\naxis = \"diagonal\"\n"), EnvFile: env}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Path: writeFile(t, dir, "fmt.toml", "[render]\nformats = [\"gif\"]\n"), EnvFile: env}, errors.ErrCodeInvalidInput},
		{"missing explicit env file", Options{Path: writeFile(t, dir, "ok.toml", ""), EnvFile: filepath.Join(dir, "nope.env")}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.opts)
			assert.True(t, errors.Is(err, tt.code), "got %v, want %s", err, tt.code)
		})
	}
}

func TestLoadBadNoCache(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv(EnvNoCache, "sometimes")

	_, err := Load(Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestLoadExampleConfig(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(Options{
		Path:    filepath.Join("..", "..", "examples", "deptiers.toml"),
		EnvFile: writeFile(t, dir, ".env", ""),
	})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.True(t, cfg.Layout.Resolve)
	assert.Equal(t, []string{"svg", "json"}, cfg.Render.Formats)
}
