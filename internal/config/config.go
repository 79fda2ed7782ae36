// Package config loads runtime configuration from flags, environment,
// and an optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Default program addresses for position and order accounts.
const (
	DefaultPositionProgram = "LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo"
	DefaultOrderProgram    = "jupoNjAxXgZ4rjzxzPMP4oxduvQsQtZzyknqvzYNrNu"
)

// Config holds configuration values loaded from flags, env, or config
// file.
type Config struct {
	RPCURL          string
	PGDSN           string
	RedisURL        string
	CacheDisabled   bool
	PositionProgram string
	OrderProgram    string
	PoolFreshness   time.Duration
	OrderFreshness  time.Duration
	CacheTTL        time.Duration
	MaxRetries      int
	RetryBackoff    time.Duration
	LogLevel        string
}

// Load merges config file, environment variables, and flags into
// Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("POOLBOYZ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("position-program", DefaultPositionProgram)
	v.SetDefault("order-program", DefaultOrderProgram)
	v.SetDefault("pool-freshness", 5*time.Minute)
	v.SetDefault("order-freshness", time.Minute)
	v.SetDefault("cache-ttl", 30*time.Minute)
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:          v.GetString("rpc"),
		PGDSN:           v.GetString("pg-dsn"),
		RedisURL:        v.GetString("redis-url"),
		CacheDisabled:   v.GetBool("no-cache"),
		PositionProgram: v.GetString("position-program"),
		OrderProgram:    v.GetString("order-program"),
		PoolFreshness:   v.GetDuration("pool-freshness"),
		OrderFreshness:  v.GetDuration("order-freshness"),
		CacheTTL:        v.GetDuration("cache-ttl"),
		MaxRetries:      v.GetInt("max-retries"),
		RetryBackoff:    v.GetDuration("retry-backoff"),
		LogLevel:        v.GetString("log-level"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the cache policy cannot honor. The
// volatile TTL only bounds retention; it must sit strictly above every
// freshness threshold or entries would vanish while still fresh.
func (c Config) Validate() error {
	if c.PoolFreshness <= 0 || c.OrderFreshness <= 0 {
		return fmt.Errorf("freshness thresholds must be positive")
	}
	if c.CacheTTL <= c.PoolFreshness || c.CacheTTL <= c.OrderFreshness {
		return fmt.Errorf("cache ttl %s must exceed freshness thresholds (pool %s, orders %s)",
			c.CacheTTL, c.PoolFreshness, c.OrderFreshness)
	}
	return nil
}
