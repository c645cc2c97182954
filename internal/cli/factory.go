package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	redisbackend "github.com/redis/go-redis/v9"

	"github.com/avelar0/kinmap"
	"github.com/avelar0/kinmap/internal/logging"
	"github.com/avelar0/kinmap/pkg/adapters/casemgmt"
	"github.com/avelar0/kinmap/pkg/adapters/file"
	"github.com/avelar0/kinmap/pkg/adapters/memory"
	redisstore "github.com/avelar0/kinmap/pkg/adapters/redis"
	"github.com/avelar0/kinmap/pkg/adapters/wsbridge"
	"github.com/avelar0/kinmap/pkg/observability"
	"github.com/avelar0/kinmap/pkg/persistence/middleware"
	"github.com/avelar0/kinmap/pkg/ports"
	"github.com/avelar0/kinmap/pkg/session"
)

// CreateLogger configures the application logger at the level the debug
// flag selects. Output always goes to Stderr so Stdout stays machine-readable.
func CreateLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(slog.LevelInfo)
}

// CreateStore builds the document store selected by the config, wrapped in
// the configured persistence middleware and a session manager. The redis
// backend adds a distributed lock so concurrent processes serialize access
// to the same document.
func CreateStore(cfg Config) (*session.Manager, error) {
	var store ports.DocumentStore
	var sessionOpts []session.Option

	switch cfg.Store.Backend {
	case "memory":
		store = memory.NewStore()
	case "file", "":
		store = file.New(cfg.Store.Path)
	case "redis":
		opts := []redisstore.Option{}
		if cfg.Store.Redis.Prefix != "" {
			opts = append(opts, redisstore.WithPrefix(cfg.Store.Redis.Prefix))
		}
		if ttl := cfg.Store.Redis.ParsedTTL(); ttl > 0 {
			opts = append(opts, redisstore.WithTTL(ttl))
		}
		client := redisbackend.NewClient(&redisbackend.Options{Addr: cfg.Store.Redis.Addr})
		store = redisstore.NewFromClient(client, opts...)
		sessionOpts = append(sessionOpts, session.WithLocker(redisstore.NewLocker(client, cfg.Store.Redis.Prefix)))
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}

	active, fallbacks, err := cfg.Encryption.Keys()
	if err != nil {
		return nil, err
	}
	if active != nil {
		store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallbacks,
		})(store)
	}
	if len(cfg.MaskPII) > 0 {
		store = middleware.NewPIIMiddleware(cfg.MaskPII)(store)
	}

	return session.NewManager(store, sessionOpts...), nil
}

// CreateEditor initializes an Editor with standard CLI conventions: the
// configured sync client, host bridge and Prometheus metrics hooks.
func CreateEditor(ctx context.Context, cfg Config, logger *slog.Logger, reg prometheus.Registerer) (*kinmap.Editor, error) {
	editorOpts := []kinmap.Option{
		kinmap.WithLogger(logger),
	}

	if reg != nil {
		metrics := observability.NewMetrics(reg)
		editorOpts = append(editorOpts, kinmap.WithHooks(metrics.Hooks()))
	}

	if cfg.Sync.BaseURL != "" {
		client := casemgmt.New(cfg.Sync.BaseURL, cfg.Sync.CaseID)
		editorOpts = append(editorOpts, kinmap.WithSyncClient(client))
	}

	if cfg.Host.BridgeURL != "" {
		bridge, err := wsbridge.Dial(ctx, cfg.Host.BridgeURL, wsbridge.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to reach host bridge: %w", err)
		}
		editorOpts = append(editorOpts, kinmap.WithHostNotifier(bridge))
	}

	return kinmap.New(editorOpts...), nil
}
