package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"profilestats/internal/components/retry"

	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFile), env(nil))
	require.NoError(t, err)
	require.Equal(t, Default().Paths, cfg.Paths)
	require.Equal(t, retry.Policy{MaxAttempts: 3, Delay: 5 * time.Second}, cfg.Retry.Policy())
	require.False(t, cfg.Bilibili.HasCredentials())
	require.Len(t, cfg.Tokens, 9)
}

func TestLoadStripsSecrets(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFile), env(map[string]string{
		EnvBiliSessdata: " abc%2C\n123 \t",
		EnvBiliJct:      "\njct\n",
	}))
	require.NoError(t, err)
	require.Equal(t, "abc%2C123", cfg.Bilibili.SessData)
	require.Equal(t, "jct", cfg.Bilibili.BiliJct)
	require.True(t, cfg.Bilibili.HasCredentials())
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	err := os.WriteFile(path, []byte(`{
		paths: {data_dir: "stats"},
		retry: {max_attempts: 5, delay_seconds: 0.5},
		bilibili: {uid: "42", headers: {"X-Extra": "1"}},
		tokens: {MY_TOKEN: {source: "csdn", field: "fans"}},
	}`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path, env(nil))
	require.NoError(t, err)
	require.Equal(t, "stats", cfg.Paths.DataDir)
	require.Equal(t, "assets", cfg.Paths.AssetsDir)
	require.Equal(t, retry.Policy{MaxAttempts: 5, Delay: 500 * time.Millisecond}, cfg.Retry.Policy())
	require.Equal(t, "42", cfg.Bilibili.UID)
	require.Equal(t, "1", cfg.Bilibili.Headers["X-Extra"])
	require.NotEmpty(t, cfg.Bilibili.Headers["User-Agent"])
	require.Equal(t, Token{Source: "csdn", Field: "fans"}, cfg.Tokens["MY_TOKEN"])
	require.Contains(t, cfg.Tokens, "CSDN_FANS")
}
