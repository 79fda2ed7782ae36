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

	"github.com/echohtp/poolboyz/internal/cache"
)

func runOrders(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	maker, err := solana.PublicKeyFromBase58(args[0])
	if err != nil {
		return err
	}

	mintFlag, _ := cmd.Flags().GetString("mint")
	var mint *solana.PublicKey
	mintID := ""
	if mintFlag != "" {
		parsed, err := solana.PublicKeyFromBase58(mintFlag)
		if err != nil {
			return err
		}
		mint = &parsed
		mintID = parsed.String()
	}

	key, err := cache.OrdersKey(maker.String(), mintID)
	if err != nil {
		return err
	}

	a.logger.Info("analyze orders",
		zap.String("maker", maker.String()),
		zap.String("mint", mintID),
		zap.Duration("freshness", a.cfg.OrderFreshness),
	)

	result, err := a.coordinator.Resolve(ctx, key, a.cfg.OrderFreshness, a.cfg.CacheTTL, func(ctx context.Context) (json.RawMessage, error) {
		analysis, err := a.analyzer.AnalyzeOrders(ctx, maker, mint)
		if err != nil {
			return nil, err
		}
		return json.Marshal(analysis)
	})
	if err != nil {
		return err
	}

	return printResult(result, nil)
}
