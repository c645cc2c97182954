package cli

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	writeConfig := func(t *testing.T, content string) string {
		path := filepath.Join(t.TempDir(), "kinmap.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	t.Run("Defaults when no file", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Listen)
		assert.Equal(t, "file", cfg.Store.Backend)
		assert.True(t, cfg.Autosave.Enabled)
	})

	t.Run("Explicit missing file is an error", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("File overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
listen: ":9090"
store:
  backend: redis
  redis:
    addr: localhost:6379
    ttl: 24h
sync:
  baseUrl: https://cases.example.org
  caseId: case-42
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Listen)
		assert.Equal(t, "redis", cfg.Store.Backend)
		assert.Equal(t, 24*time.Hour, cfg.Store.Redis.ParsedTTL())
		assert.Equal(t, "case-42", cfg.Sync.CaseID)
		// Untouched sections keep their defaults.
		assert.Equal(t, "default", cfg.Autosave.DocumentID)
	})

	t.Run("Malformed YAML is an error", func(t *testing.T) {
		path := writeConfig(t, "listen: [")
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestAutosaveConfig_ParsedInterval(t *testing.T) {
	assert.Equal(t, 5*time.Minute, AutosaveConfig{Interval: "5m"}.ParsedInterval(time.Second))
	assert.Equal(t, time.Second, AutosaveConfig{Interval: ""}.ParsedInterval(time.Second))
	assert.Equal(t, time.Second, AutosaveConfig{Interval: "banana"}.ParsedInterval(time.Second))
	assert.Equal(t, time.Second, AutosaveConfig{Interval: "-3s"}.ParsedInterval(time.Second))
}

func TestEncryptionConfig_Keys(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(make([]byte, 32))

	t.Run("Empty means disabled", func(t *testing.T) {
		active, fallbacks, err := EncryptionConfig{}.Keys()
		require.NoError(t, err)
		assert.Nil(t, active)
		assert.Nil(t, fallbacks)
	})

	t.Run("Decodes active and fallbacks", func(t *testing.T) {
		active, fallbacks, err := EncryptionConfig{
			ActiveKey:    key,
			FallbackKeys: []string{key, key},
		}.Keys()
		require.NoError(t, err)
		assert.Len(t, active, 32)
		assert.Len(t, fallbacks, 2)
	})

	t.Run("Rejects bad base64", func(t *testing.T) {
		_, _, err := EncryptionConfig{ActiveKey: "not-base64!!"}.Keys()
		assert.Error(t, err)
	})
}
