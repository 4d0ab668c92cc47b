package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, 5*time.Minute, cfg.GuardMemoTTL)
}

func TestFromEnvYAMLOverlayAndOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campus.yaml")
	data := []byte("addr: \":9000\"\napi_base_url: \"http://api.internal\"\nredis:\n  url: \"redis://localhost:6379\"\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	t.Setenv("CAMPUS_CONFIG", path)
	t.Setenv("CAMPUS_ADDR", ":9100")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, ":9100", cfg.Addr, "env must override file")
	require.Equal(t, "http://api.internal", cfg.APIBaseURL)
	require.Equal(t, "redis://localhost:6379", cfg.Redis.URL)
}
