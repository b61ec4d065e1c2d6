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
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeTempJSON(t, dir, "cfg.json", map[string]any{
		"http_addr":                      "www.example:8080",
		"database_dsn":                   "postgres://db",
		"secret_key":                     "my_secret_key",
		"access_token_validity_duration": "1m",
		"session_validity_duration":      3600000000000,
		"admin_key":                      "adm",
		"s3_bucket":                      "bucket",
	})

	t.Run("loads from json and keeps missing keys", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-config", path}))

		assert.Equal(t, "www.example:8080", cfg.HTTPAddr)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 1*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, time.Hour, cfg.SessionValidityDuration)
		assert.Equal(t, "adm", cfg.AdminKey)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, ":50051", cfg.GRPCAddr)
		assert.Equal(t, 5*time.Second, cfg.ConnAcquireTimeout)
	})

	t.Run("no config flag leaves values untouched", func(t *testing.T) {
		cfg := &Config{HTTPAddr: "defaults:1234", SessionValidityDuration: 2 * time.Minute}
		require.NoError(t, parseJson(cfg, nil))

		assert.Equal(t, "defaults:1234", cfg.HTTPAddr)
		assert.Equal(t, 2*time.Minute, cfg.SessionValidityDuration)
	})

	t.Run("invalid JSON is an error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		assert.Error(t, parseJson(&Config{}, []string{"-c", bad}))
	})

	t.Run("missing file is an error", func(t *testing.T) {
		assert.Error(t, parseJson(&Config{}, []string{"-c", filepath.Join(dir, "nope.json")}))
	})
}
