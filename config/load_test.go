package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
Env = "staging"

[Auth]
TokenSecret = "from-file"

[Auth.Session]
Expiration = "12h"

[Rekognition]
MatchThreshold = 95.5
`), 0600))

	t.Setenv("TOKEN_SECRET", "from-env")
	t.Setenv("REKOGNITION_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "staging", cfg.Env)
	require.Equal(t, "from-env", cfg.Auth.TokenSecret)
	require.Equal(t, 12*time.Hour, cfg.Auth.Session.Expiration.Duration)
	require.Equal(t, 95.5, cfg.Rekognition.MatchThreshold)
	require.False(t, cfg.Rekognition.Enabled)

	// Untouched values keep their defaults.
	require.Equal(t, int64(5*1024*1024), cfg.File.MaxSize)
	require.Equal(t, "AUTO", cfg.Rekognition.QualityFilter)
}

func TestLoadInvalidEnv(t *testing.T) {
	t.Setenv("REKOGNITION_ENABLED", "maybe")
	_, err := Load("")
	require.Error(t, err)
}
