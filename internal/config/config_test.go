package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "stratum.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":8443\"\nsegments: 200\ncache_ttl: 5m\ninbox_dir: /srv/inbox\n"), 0o644))

	t.Setenv("TOKEN_KEY", "k")
	t.Setenv("STRATUM_SEGMENTS", "800")
	t.Setenv("STRATUM_DEFLECTION_LIMIT", "300")
	t.Setenv("STRATUM_INSECURE_COOKIES", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8443", cfg.Addr)
	assert.Equal(t, 800, cfg.Segments)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 300.0, cfg.DeflectionLimitRatio)
	assert.Equal(t, "/srv/inbox", cfg.InboxDir)
	assert.True(t, cfg.InsecureCookies)
	assert.Equal(t, "k", cfg.TokenKey)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TOKEN_KEY", "k")

	cfg, err := Load("absent.yaml")
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Segments)
	assert.Equal(t, 250.0, cfg.DeflectionLimitRatio)
}

func TestLoadRequiresTokenKey(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TOKEN_KEY", "")

	_, err := Load("")
	assert.Error(t, err)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
