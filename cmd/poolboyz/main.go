package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "poolboyz",
		Short:        "Liquidity and limit-order analytics over ledger account snapshots",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("rpc", "", "ledger RPC URL")
	root.PersistentFlags().String("pg-dsn", "", "Postgres DSN for the durable snapshot store")
	root.PersistentFlags().String("redis-url", "", "Redis URL for the volatile store (in-memory when empty)")
	root.PersistentFlags().Bool("no-cache", false, "bypass both cache tiers")
	root.PersistentFlags().String("position-program", "", "position account program address")
	root.PersistentFlags().String("order-program", "", "order account program address")
	root.PersistentFlags().Duration("pool-freshness", 0, "max age served without recompute for pool queries")
	root.PersistentFlags().Duration("order-freshness", 0, "max age served without recompute for order queries")
	root.PersistentFlags().Duration("cache-ttl", 0, "volatile store retention bound")
	root.PersistentFlags().Int("max-retries", 5, "maximum RPC retry attempts")
	root.PersistentFlags().Duration("retry-backoff", 0, "initial RPC retry backoff")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	poolCmd := &cobra.Command{
		Use:   "pool <address>",
		Short: "Analyze the liquidity distribution of a pool",
		Args:  cobra.ExactArgs(1),
		RunE:  runPool,
	}
	poolCmd.Flags().Float64("price", 0, "annotate the bin this quote price lands in")
	root.AddCommand(poolCmd)

	ordersCmd := &cobra.Command{
		Use:   "orders <maker>",
		Short: "Analyze a maker's resting limit orders",
		Args:  cobra.ExactArgs(1),
		RunE:  runOrders,
	}
	ordersCmd.Flags().String("mint", "", "narrow to orders selling this input mint")
	root.AddCommand(ordersCmd)

	historyCmd := &cobra.Command{
		Use:   "history <identifier>",
		Short: "List archived analyses for a query identifier",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistory,
	}
	historyCmd.Flags().Int("limit", 20, "maximum rows to list")
	root.AddCommand(historyCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
