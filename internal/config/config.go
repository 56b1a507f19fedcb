package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ajitpratap0/openclaw-concierge/internal/models"
	"github.com/ajitpratap0/openclaw-concierge/internal/scoring"
)

// Catalog source and preference backend names.
const (
	CatalogFile   = "file"
	CatalogSQLite = "sqlite"
	CatalogNeo4j  = "neo4j"

	PrefsMemory = "memory"
	PrefsRedis  = "redis"
)

// Config holds all configuration for the concierge.
type Config struct {
	Engine       EngineConfig       `mapstructure:"engine"`
	Completion   CompletionConfig   `mapstructure:"completion"`
	Catalog      CatalogConfig      `mapstructure:"catalog"`
	Preferences  PreferencesConfig  `mapstructure:"preferences"`
	Conversation ConversationConfig `mapstructure:"conversation"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	API          APIConfig          `mapstructure:"api"`
}

// EngineConfig tunes the deterministic pipeline.
type EngineConfig struct {
	DefaultLanguage string          `mapstructure:"default_language"`
	MaxHistory      int             `mapstructure:"max_history"`
	MaxFailures     int             `mapstructure:"max_failures"`
	ListLimit       int             `mapstructure:"list_limit"`
	Weights         scoring.Weights `mapstructure:"weights"`
}

// CompletionConfig holds Anthropic Claude API settings. An empty APIKey
// disables the completion service and every turn uses the engine.
type CompletionConfig struct {
	APIKey             string `mapstructure:"api_key"`
	Model              string `mapstructure:"model"`
	MaxTokens          int    `mapstructure:"max_tokens"`
	TimeoutSeconds     int    `mapstructure:"timeout_seconds"`
	HistoryTokenBudget int    `mapstructure:"history_token_budget"`
}

// Enabled reports whether a completion client should be built.
func (c CompletionConfig) Enabled() bool { return c.APIKey != "" }

// Timeout returns the per-call timeout.
func (c CompletionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// String returns a safe representation of CompletionConfig with the API key masked.
func (c CompletionConfig) String() string {
	return fmt.Sprintf("CompletionConfig{APIKey:%s, Model:%s, MaxTokens:%d, TimeoutSeconds:%d}",
		maskAPIKey(c.APIKey), c.Model, c.MaxTokens, c.TimeoutSeconds)
}

// CatalogConfig selects where catalog snapshots come from.
type CatalogConfig struct {
	Source string      `mapstructure:"source"`
	Path   string      `mapstructure:"path"`
	Neo4j  Neo4jConfig `mapstructure:"neo4j"`
}

// Neo4jConfig holds graph database connection settings.
type Neo4jConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// String returns a safe representation with the password masked.
func (c Neo4jConfig) String() string {
	return fmt.Sprintf("Neo4jConfig{URI:%s, Username:%s, Password:%s, Database:%s}",
		c.URI, c.Username, maskAPIKey(c.Password), c.Database)
}

// PreferencesConfig selects the preference store.
type PreferencesConfig struct {
	Backend  string      `mapstructure:"backend"`
	Redis    RedisConfig `mapstructure:"redis"`
	TTLHours int         `mapstructure:"ttl_hours"`
}

// TTL returns the profile expiry, zero for none.
func (c PreferencesConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// ConversationConfig controls conversation expiry.
type ConversationConfig struct {
	IdleTTLMinutes       int `mapstructure:"idle_ttl_minutes"`
	SweepIntervalSeconds int `mapstructure:"sweep_interval_seconds"`
}

// IdleTTL returns how long a conversation may stay idle.
func (c ConversationConfig) IdleTTL() time.Duration {
	return time.Duration(c.IdleTTLMinutes) * time.Minute
}

// SweepInterval returns how often the lifecycle manager runs under serve.
func (c ConversationConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	AuthToken  string `mapstructure:"auth_token"`
}

// maskAPIKey shows first 4 + last 4 chars, replacing the middle with asterisks.
func maskAPIKey(key string) string {
	const visible = 4
	if len(key) <= visible*2 {
		return "***"
	}
	return key[:visible] + "****" + key[len(key)-visible:]
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(homeDir(), ".openclaw-concierge"))
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("CONCIERGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("completion.api_key", "ANTHROPIC_API_KEY", "CONCIERGE_COMPLETION_API_KEY")
	_ = v.BindEnv("catalog.neo4j.password", "NEO4J_PASSWORD", "CONCIERGE_CATALOG_NEO4J_PASSWORD")
	_ = v.BindEnv("preferences.redis.password", "REDIS_PASSWORD", "CONCIERGE_PREFERENCES_REDIS_PASSWORD")
	_ = v.BindEnv("api.auth_token", "CONCIERGE_API_AUTH_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return decode(v)
}

// LoadFile reads configuration from an explicit file path, with the same
// defaults and environment overrides as Load.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("CONCIERGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("completion.api_key", "ANTHROPIC_API_KEY", "CONCIERGE_COMPLETION_API_KEY")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	w := scoring.DefaultWeights()
	v.SetDefault("engine.default_language", string(models.LangFrench))
	v.SetDefault("engine.max_history", 10)
	v.SetDefault("engine.max_failures", 3)
	v.SetDefault("engine.list_limit", 3)
	v.SetDefault("engine.weights.base", w.Base)
	v.SetDefault("engine.weights.taste", w.Taste)
	v.SetDefault("engine.weights.restriction", w.Restriction)
	v.SetDefault("engine.weights.fear", w.Fear)
	v.SetDefault("engine.weights.dietary", w.Dietary)
	v.SetDefault("engine.weights.service", w.Service)

	v.SetDefault("completion.model", "claude-haiku-4-5-20251001")
	v.SetDefault("completion.max_tokens", 600)
	v.SetDefault("completion.timeout_seconds", 8)
	v.SetDefault("completion.history_token_budget", 1500)

	v.SetDefault("catalog.source", CatalogFile)
	v.SetDefault("catalog.path", filepath.Join(homeDir(), ".openclaw-concierge", "catalog.yaml"))
	v.SetDefault("catalog.neo4j.uri", "neo4j://localhost:7687")
	v.SetDefault("catalog.neo4j.username", "neo4j")
	v.SetDefault("catalog.neo4j.database", "")

	v.SetDefault("preferences.backend", PrefsMemory)
	v.SetDefault("preferences.redis.addr", "localhost:6379")
	v.SetDefault("preferences.redis.db", 0)
	v.SetDefault("preferences.redis.prefix", "concierge:prefs:")
	v.SetDefault("preferences.ttl_hours", 0)

	v.SetDefault("conversation.idle_ttl_minutes", 60)
	v.SetDefault("conversation.sweep_interval_seconds", 60)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("api.listen_addr", ":8080")
	v.SetDefault("api.auth_token", "")
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	if !models.Language(c.Engine.DefaultLanguage).IsValid() {
		return fmt.Errorf("engine.default_language %q is not supported", c.Engine.DefaultLanguage)
	}
	if c.Engine.MaxHistory <= 0 {
		return fmt.Errorf("engine.max_history must be greater than 0")
	}
	if c.Engine.MaxFailures <= 0 {
		return fmt.Errorf("engine.max_failures must be greater than 0")
	}
	if c.Engine.ListLimit <= 0 {
		return fmt.Errorf("engine.list_limit must be greater than 0")
	}
	if err := c.Engine.Weights.Validate(); err != nil {
		return fmt.Errorf("engine.weights: %w", err)
	}
	if c.Completion.Enabled() {
		if c.Completion.Model == "" {
			return fmt.Errorf("completion.model must not be empty")
		}
		if c.Completion.MaxTokens <= 0 {
			return fmt.Errorf("completion.max_tokens must be greater than 0")
		}
		if c.Completion.TimeoutSeconds <= 0 {
			return fmt.Errorf("completion.timeout_seconds must be greater than 0")
		}
	}
	if c.Completion.HistoryTokenBudget < 0 {
		return fmt.Errorf("completion.history_token_budget must be >= 0")
	}
	switch c.Catalog.Source {
	case CatalogFile, CatalogSQLite:
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog.path must not be empty for source %q", c.Catalog.Source)
		}
	case CatalogNeo4j:
		if c.Catalog.Neo4j.URI == "" {
			return fmt.Errorf("catalog.neo4j.uri must not be empty")
		}
	default:
		return fmt.Errorf("catalog.source %q must be one of file, sqlite, neo4j", c.Catalog.Source)
	}
	switch c.Preferences.Backend {
	case PrefsMemory:
	case PrefsRedis:
		if c.Preferences.Redis.Addr == "" {
			return fmt.Errorf("preferences.redis.addr must not be empty")
		}
	default:
		return fmt.Errorf("preferences.backend %q must be one of memory, redis", c.Preferences.Backend)
	}
	if c.Preferences.TTLHours < 0 {
		return fmt.Errorf("preferences.ttl_hours must be >= 0")
	}
	if c.Conversation.IdleTTLMinutes < 0 {
		return fmt.Errorf("conversation.idle_ttl_minutes must be >= 0")
	}
	if c.Conversation.SweepIntervalSeconds < 0 {
		return fmt.Errorf("conversation.sweep_interval_seconds must be >= 0")
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
