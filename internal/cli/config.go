// Package cli holds the configuration and wiring shared by the kinmap
// commands.
package cli

import (
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no --config
// flag is given.
const DefaultConfigFile = "kinmap.yaml"

// Config is the file-driven configuration for the serve and mcp commands.
// Durations are strings in time.ParseDuration syntax ("30s", "5m").
type Config struct {
	Listen string `yaml:"listen"`
	Debug  bool   `yaml:"debug"`

	Store      StoreConfig      `yaml:"store"`
	Autosave   AutosaveConfig   `yaml:"autosave"`
	Sync       SyncConfig       `yaml:"sync"`
	Host       HostConfig       `yaml:"host"`
	Encryption EncryptionConfig `yaml:"encryption"`

	// MaskPII lists key patterns to mask before documents leave the
	// process. Empty disables masking.
	MaskPII []string `yaml:"maskPii"`
}

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	// Backend is one of memory, file or redis.
	Backend string      `yaml:"backend"`
	Path    string      `yaml:"path"`
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
	TTL    string `yaml:"ttl"`
}

// AutosaveConfig configures the periodic snapshot writer.
type AutosaveConfig struct {
	Enabled    bool   `yaml:"enabled"`
	DocumentID string `yaml:"documentId"`
	Interval   string `yaml:"interval"`
}

// SyncConfig points at the case-management backend mutations are pushed to.
type SyncConfig struct {
	BaseURL string `yaml:"baseUrl"`
	CaseID  string `yaml:"caseId"`
}

// HostConfig points at the embedding host's websocket bridge.
type HostConfig struct {
	BridgeURL string `yaml:"bridgeUrl"`
}

// EncryptionConfig carries base64-encoded AES-256 keys. ActiveKey encrypts
// new documents; FallbackKeys are tried on decryption for key rotation.
type EncryptionConfig struct {
	ActiveKey    string   `yaml:"activeKey"`
	FallbackKeys []string `yaml:"fallbackKeys"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Listen: ":8080",
		Store: StoreConfig{
			Backend: "file",
			Path:    ".kinmap/documents",
		},
		Autosave: AutosaveConfig{
			Enabled:    true,
			DocumentID: "default",
			Interval:   "30s",
		},
	}
}

// LoadConfig reads a YAML config file and fills in defaults. An explicit
// path that does not exist is an error; the implicit default file is not.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ParsedInterval returns the parsed autosave interval, or the fallback when the
// field is empty or malformed.
func (a AutosaveConfig) ParsedInterval(fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(a.Interval)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// ParsedTTL returns the parsed document TTL, zero meaning no expiry.
func (r RedisConfig) ParsedTTL() time.Duration {
	d, err := time.ParseDuration(r.TTL)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Keys decodes the base64 key material. Returns nil key material when no
// active key is configured.
func (e EncryptionConfig) Keys() (active []byte, fallbacks [][]byte, err error) {
	if e.ActiveKey == "" {
		return nil, nil, nil
	}
	active, err = base64.StdEncoding.DecodeString(e.ActiveKey)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid encryption.activeKey: %w", err)
	}
	for i, k := range e.FallbackKeys {
		decoded, err := base64.StdEncoding.DecodeString(k)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid encryption.fallbackKeys[%d]: %w", i, err)
		}
		fallbacks = append(fallbacks, decoded)
	}
	return active, fallbacks, nil
}
