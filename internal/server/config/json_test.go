package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http": "www.example:9000",
		"database_dsn":       "postgres://json/dsn",
		"jwt_secret":         "my_secret_key",
		"encryption_key":     "a2V5",
		"access_token_ttl":   "24h",
		"refresh_token_ttl":  "168h",
		"remember_me_ttl":    "720h",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://json/dsn", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.JWTSecret)
		assert.Equal(t, "a2V5", cfg.EncryptionKey)
		assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
		assert.Equal(t, 168*time.Hour, cfg.RefreshTokenTTL)
		assert.Equal(t, 720*time.Hour, cfg.RememberMeTTL)
	})

	t.Run("no config flag, no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddrHTTP: "defaults:1234",
			DatabaseDSN:      "postgres://default/dsn",
			JWTSecret:        "key",
			EncryptionKey:    "a2V5MQ==",
			AccessTokenTTL:   2 * time.Hour,
			RefreshTokenTTL:  3 * time.Hour,
			RememberMeTTL:    4 * time.Hour,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://default/dsn", cfg.DatabaseDSN)
		assert.Equal(t, "key", cfg.JWTSecret)
		assert.Equal(t, "a2V5MQ==", cfg.EncryptionKey)
		assert.Equal(t, 2*time.Hour, cfg.AccessTokenTTL)
		assert.Equal(t, 3*time.Hour, cfg.RefreshTokenTTL)
		assert.Equal(t, 4*time.Hour, cfg.RememberMeTTL)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
