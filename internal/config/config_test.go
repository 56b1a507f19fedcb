package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/openclaw-concierge/internal/scoring"
)

// validCfg returns a fully-valid Config for mutation testing.
func validCfg() *Config {
	return &Config{
		Engine: EngineConfig{
			DefaultLanguage: "fr",
			MaxHistory:      10,
			MaxFailures:     3,
			ListLimit:       3,
			Weights:         scoring.DefaultWeights(),
		},
		Completion: CompletionConfig{
			Model:          "claude-haiku-4-5-20251001",
			MaxTokens:      600,
			TimeoutSeconds: 8,
		},
		Catalog:     CatalogConfig{Source: CatalogFile, Path: "/tmp/catalog.yaml"},
		Preferences: PreferencesConfig{Backend: PrefsMemory},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unsupported language", mutate: func(c *Config) { c.Engine.DefaultLanguage = "de" }, wantErr: "default_language"},
		{name: "zero history", mutate: func(c *Config) { c.Engine.MaxHistory = 0 }, wantErr: "max_history"},
		{name: "zero failures", mutate: func(c *Config) { c.Engine.MaxFailures = 0 }, wantErr: "max_failures"},
		{name: "zero list limit", mutate: func(c *Config) { c.Engine.ListLimit = 0 }, wantErr: "list_limit"},
		{name: "weight out of range", mutate: func(c *Config) { c.Engine.Weights.Taste = 1.5 }, wantErr: "weights"},
		{name: "completion without model", mutate: func(c *Config) {
			c.Completion.APIKey = "sk-ant-test-key"
			c.Completion.Model = ""
		}, wantErr: "completion.model"},
		{name: "completion disabled ignores model", mutate: func(c *Config) { c.Completion.Model = "" }},
		{name: "completion zero timeout", mutate: func(c *Config) {
			c.Completion.APIKey = "sk-ant-test-key"
			c.Completion.TimeoutSeconds = 0
		}, wantErr: "timeout_seconds"},
		{name: "unknown catalog source", mutate: func(c *Config) { c.Catalog.Source = "s3" }, wantErr: "catalog.source"},
		{name: "file without path", mutate: func(c *Config) { c.Catalog.Path = "" }, wantErr: "catalog.path"},
		{name: "neo4j without uri", mutate: func(c *Config) { c.Catalog.Source = CatalogNeo4j }, wantErr: "neo4j.uri"},
		{name: "unknown backend", mutate: func(c *Config) { c.Preferences.Backend = "etcd" }, wantErr: "preferences.backend"},
		{name: "redis without addr", mutate: func(c *Config) { c.Preferences.Backend = PrefsRedis }, wantErr: "redis.addr"},
		{name: "negative ttl", mutate: func(c *Config) { c.Preferences.TTLHours = -1 }, wantErr: "ttl_hours"},
		{name: "negative idle ttl", mutate: func(c *Config) { c.Conversation.IdleTTLMinutes = -5 }, wantErr: "idle_ttl_minutes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validCfg()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "***", maskAPIKey(""))
	assert.Equal(t, "***", maskAPIKey("short"))
	assert.Equal(t, "sk-a****wxyz", maskAPIKey("sk-ant-api-key-abcdwxyz"))

	s := CompletionConfig{APIKey: "sk-ant-super-secret-1234", Model: "m"}.String()
	assert.NotContains(t, s, "super-secret")
	assert.Contains(t, s, "sk-a****1234")

	n := Neo4jConfig{URI: "neo4j://db:7687", Password: "graph-password-99"}.String()
	assert.NotContains(t, n, "graph-password")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := strings.Join([]string{
		"engine:",
		"  default_language: en",
		"  list_limit: 2",
		"catalog:",
		"  source: sqlite",
		"  path: /var/lib/concierge/catalog.db",
		"preferences:",
		"  backend: redis",
		"  ttl_hours: 24",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-from-env-0000")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Engine.DefaultLanguage)
	assert.Equal(t, 2, cfg.Engine.ListLimit)
	assert.Equal(t, 10, cfg.Engine.MaxHistory)
	assert.InDelta(t, 0.30, cfg.Engine.Weights.Base, 1e-9)
	assert.Equal(t, CatalogSQLite, cfg.Catalog.Source)
	assert.Equal(t, PrefsRedis, cfg.Preferences.Backend)
	assert.Equal(t, "localhost:6379", cfg.Preferences.Redis.Addr)
	assert.Equal(t, float64(24), cfg.Preferences.TTL().Hours())
	assert.True(t, cfg.Completion.Enabled())
	assert.Equal(t, "sk-ant-from-env-0000", cfg.Completion.APIKey)
	assert.Equal(t, float64(60), cfg.Conversation.IdleTTL().Minutes())
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog:\n  source: ftp\n"), 0o600))
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog.source")
}
