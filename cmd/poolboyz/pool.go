package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/echohtp/poolboyz/internal/analyze"
	"github.com/echohtp/poolboyz/internal/cache"
	"github.com/echohtp/poolboyz/internal/model"
)

func runPool(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	pool, err := solana.PublicKeyFromBase58(args[0])
	if err != nil {
		return err
	}

	key, err := cache.PoolKey(pool.String())
	if err != nil {
		return err
	}

	a.logger.Info("analyze pool",
		zap.String("pool", pool.String()),
		zap.Duration("freshness", a.cfg.PoolFreshness),
	)

	result, err := a.coordinator.Resolve(ctx, key, a.cfg.PoolFreshness, a.cfg.CacheTTL, func(ctx context.Context) (json.RawMessage, error) {
		analysis, err := a.analyzer.AnalyzePool(ctx, pool)
		if err != nil {
			return nil, err
		}
		return json.Marshal(analysis)
	})
	if err != nil {
		return err
	}

	var target *model.TargetBin
	if price, _ := cmd.Flags().GetFloat64("price"); price > 0 {
		var analysis model.AnalysisResult
		if err := json.Unmarshal(result.Entry.Payload, &analysis); err != nil {
			return err
		}
		annotated := analyze.TargetBin(analysis, price)
		target = &annotated
	}

	return printResult(result, target)
}
