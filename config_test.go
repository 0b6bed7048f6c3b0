package corvid

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvUsesDefaultsWhenUnset(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, LoadFromEnv(cfg))

	assert.Equal(t, "", cfg.Scope)
	assert.False(t, cfg.ContinueAfterResponse)
	assert.Equal(t, "X-Request-Id", cfg.RequestIDHeader)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoadFromEnvReadsEnvironment(t *testing.T) {
	t.Setenv("CORVID_SCOPE", "admin")
	t.Setenv("CORVID_CONTINUE_AFTER_RESPONSE", "true")
	t.Setenv("CORVID_SHUTDOWN_TIMEOUT", "5s")

	cfg := &Config{}
	require.NoError(t, LoadFromEnv(cfg))

	assert.Equal(t, "admin", cfg.Scope)
	assert.True(t, cfg.ContinueAfterResponse)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "scope: internal\ncontinueAfterResponse: true\nrequestIdHeader: X-Trace-Id\nshutdownTimeout: 10s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := &Config{}
	require.NoError(t, LoadFromYAML(path, cfg))

	assert.Equal(t, "internal", cfg.Scope)
	assert.True(t, cfg.ContinueAfterResponse)
	assert.Equal(t, "X-Trace-Id", cfg.RequestIDHeader)
}

func TestLoadFromYAMLMissingFile(t *testing.T) {
	cfg := &Config{}
	err := LoadFromYAML("/nonexistent/path.yaml", cfg)
	require.Error(t, err)
}
