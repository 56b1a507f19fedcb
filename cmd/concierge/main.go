package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-concierge/internal/catalog"
	"github.com/ajitpratap0/openclaw-concierge/internal/chat"
	"github.com/ajitpratap0/openclaw-concierge/internal/completion"
	"github.com/ajitpratap0/openclaw-concierge/internal/config"
	"github.com/ajitpratap0/openclaw-concierge/internal/conversation"
	"github.com/ajitpratap0/openclaw-concierge/internal/engine"
	"github.com/ajitpratap0/openclaw-concierge/internal/models"
	"github.com/ajitpratap0/openclaw-concierge/internal/preferences"
)

// version is set at build time.
var version = "dev"

var (
	cfg        *config.Config
	configPath string
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: reading .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:     "concierge",
		Short:   "OpenClaw Concierge: premium chat concierge with a deterministic fallback engine",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if configPath != "" {
				cfg, err = config.LoadFile(configPath)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.openclaw-concierge/config.yaml or ./config.yaml)")

	rootCmd.AddCommand(
		detectCmd(),
		classifyCmd(),
		recommendCmd(),
		chatCmd(),
		serveCmd(),
		mcpCmd(),
		catalogCmd(),
		prefsCmd(),
		lifecycleCmd(),
	)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil && cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newEngine(logger *slog.Logger) *engine.Engine {
	return engine.New(engine.Options{
		DefaultLanguage: models.Language(cfg.Engine.DefaultLanguage),
		ListLimit:       cfg.Engine.ListLimit,
		MaxFailures:     cfg.Engine.MaxFailures,
		Weights:         cfg.Engine.Weights,
	}, logger)
}

// newCatalogSource opens the configured catalog. The returned closer must be
// called once the source is no longer needed.
func newCatalogSource(ctx context.Context, logger *slog.Logger) (catalog.Source, func(), error) {
	switch cfg.Catalog.Source {
	case config.CatalogNeo4j:
		nc := cfg.Catalog.Neo4j
		q, err := catalog.DialNeo4j(ctx, nc.URI, nc.Username, nc.Password, nc.Database)
		if err != nil {
			return nil, nil, err
		}
		return catalog.NewNeo4jSource(q, logger), func() { _ = q.Close(context.Background()) }, nil
	case config.CatalogSQLite:
		src, err := catalog.OpenSQLite(cfg.Catalog.Path)
		if err != nil {
			return nil, nil, err
		}
		return src, func() { _ = src.Close() }, nil
	default:
		return catalog.NewFileSource(cfg.Catalog.Path), func() {}, nil
	}
}

// newPreferenceStore opens the configured preference store.
func newPreferenceStore(ctx context.Context) (preferences.Store, func(), error) {
	if cfg.Preferences.Backend != config.PrefsRedis {
		return preferences.NewMemoryStore(), func() {}, nil
	}
	rc := cfg.Preferences.Redis
	client := preferences.NewRedisClient(rc.Addr, rc.Password, rc.DB)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connecting to redis at %s: %w", rc.Addr, err)
	}
	return preferences.NewRedisStore(client, rc.Prefix, cfg.Preferences.TTL()), func() { _ = client.Close() }, nil
}

// newCompleter returns nil when no API key is configured or offline is set.
func newCompleter(offline bool, logger *slog.Logger) completion.Completer {
	if offline || !cfg.Completion.Enabled() {
		return nil
	}
	return completion.NewAnthropicCompleter(completion.AnthropicOptions{
		APIKey:        cfg.Completion.APIKey,
		Model:         cfg.Completion.Model,
		MaxTokens:     cfg.Completion.MaxTokens,
		HistoryBudget: cfg.Completion.HistoryTokenBudget,
	}, logger)
}

// newService builds the chat service from configuration. Collaborators that
// fail to open are logged and replaced so the engine still answers.
func newService(ctx context.Context, offline bool, logger *slog.Logger) (*chat.Service, preferences.Store, func()) {
	var closers []func()

	src, closeSrc, err := newCatalogSource(ctx, logger)
	if err != nil {
		logger.Error("catalog source unavailable; continuing with an empty catalog", "source", cfg.Catalog.Source, "error", err)
		src = catalog.NewMemorySource(nil)
	} else {
		closers = append(closers, closeSrc)
	}

	prefs, closePrefs, err := newPreferenceStore(ctx)
	if err != nil {
		logger.Error("preference store unavailable; profiles are kept in memory", "error", err)
		prefs = preferences.NewMemoryStore()
	} else {
		closers = append(closers, closePrefs)
	}

	completer := newCompleter(offline, logger)
	if completer == nil {
		logger.Info("completion service disabled; every reply uses the deterministic engine")
	}

	svc := chat.NewService(chat.Deps{
		Engine:      newEngine(logger),
		Registry:    conversation.NewRegistry(cfg.Engine.MaxHistory),
		Catalog:     src,
		Preferences: prefs,
		Completer:   completer,
		Timeout:     cfg.Completion.Timeout(),
	}, logger)

	return svc, prefs, func() {
		for _, c := range closers {
			c()
		}
	}
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return s
}
