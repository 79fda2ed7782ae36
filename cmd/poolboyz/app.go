package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/echohtp/poolboyz/internal/analyze"
	"github.com/echohtp/poolboyz/internal/cache"
	"github.com/echohtp/poolboyz/internal/config"
	"github.com/echohtp/poolboyz/internal/ledger"
	"github.com/echohtp/poolboyz/internal/model"
	"github.com/echohtp/poolboyz/internal/storage/postgres"
	"github.com/echohtp/poolboyz/internal/token"
)

// app bundles the wired components a command needs.
type app struct {
	cfg         config.Config
	logger      *zap.Logger
	client      *ledger.Client
	analyzer    *analyze.Analyzer
	coordinator *cache.Coordinator
	snapshots   *postgres.Store
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}

	positionProgram, err := solana.PublicKeyFromBase58(cfg.PositionProgram)
	if err != nil {
		return nil, fmt.Errorf("invalid position program: %w", err)
	}
	orderProgram, err := solana.PublicKeyFromBase58(cfg.OrderProgram)
	if err != nil {
		return nil, fmt.Errorf("invalid order program: %w", err)
	}

	client := ledger.NewClient(cfg.RPCURL, cfg.MaxRetries, cfg.RetryBackoff, logger)
	resolver := token.NewResolver(client, logger)
	analyzer := analyze.NewAnalyzer(client, resolver, positionProgram, orderProgram, logger)

	var volatile cache.Store
	switch {
	case cfg.CacheDisabled:
		volatile = cache.NopStore{}
	case cfg.RedisURL != "":
		store, err := cache.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		volatile = store
	default:
		volatile = cache.NewMemoryStore()
	}

	var snapshots *postgres.Store
	var durable cache.Snapshots
	if cfg.PGDSN != "" && !cfg.CacheDisabled {
		snapshots, err = postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := snapshots.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		durable = snapshots
	}

	coordinator := cache.NewCoordinator(volatile, durable, cache.Options{Disabled: cfg.CacheDisabled}, logger)

	return &app{
		cfg:         cfg,
		logger:      logger,
		client:      client,
		analyzer:    analyzer,
		coordinator: coordinator,
		snapshots:   snapshots,
	}, nil
}

func (a *app) close() {
	a.coordinator.Wait()
	if a.snapshots != nil {
		a.snapshots.Close()
	}
	a.client.Close()
	a.logger.Sync()
}

// envelope is the printed response: the cached payload plus where it
// came from. TargetBin is a per-request annotation, never cached.
type envelope struct {
	Status      cache.Status     `json:"status"`
	LastUpdated int64            `json:"last_updated"`
	CreatedAt   int64            `json:"created_at"`
	TargetBin   *model.TargetBin `json:"target_bin,omitempty"`
	Payload     json.RawMessage  `json:"payload"`
}

func printResult(result cache.Result, target *model.TargetBin) error {
	out, err := json.MarshalIndent(envelope{
		Status:      result.Status,
		LastUpdated: result.Entry.LastUpdated,
		CreatedAt:   result.Entry.CreatedAt,
		TargetBin:   target,
		Payload:     result.Entry.Payload,
	}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}
