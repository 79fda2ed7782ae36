// Package token resolves mint identifiers to token metadata. Results
// are memoized for the process lifetime; entries are never invalidated.
package token

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/echohtp/poolboyz/internal/model"
)

// Mint account layout: authority option (4), authority (32), supply
// (8), then decimals at offset 44.
const (
	mintDecimalsOffset = 44
	mintAccountMinSize = 82
)

// AccountFetcher loads a raw account buffer for an address.
type AccountFetcher interface {
	FetchAccount(ctx context.Context, address solana.PublicKey) ([]byte, error)
}

// Resolver memoizes mint metadata, seeding from a static table of
// well-known mints and falling back to a ledger fetch for the rest.
// Concurrent first-time lookups for the same mint may both fetch; the
// result is identical either way, so the race is tolerated.
type Resolver struct {
	fetcher AccountFetcher
	logger  *zap.Logger

	mu   sync.RWMutex
	memo map[solana.PublicKey]model.TokenInfo
}

// NewResolver builds a resolver seeded with the static mint table.
func NewResolver(fetcher AccountFetcher, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	memo := make(map[solana.PublicKey]model.TokenInfo, len(knownMints))
	for _, info := range knownMints {
		key, err := solana.PublicKeyFromBase58(info.Mint)
		if err != nil {
			continue
		}
		memo[key] = info
	}
	return &Resolver{
		fetcher: fetcher,
		logger:  logger,
		memo:    memo,
	}
}

// Resolve returns metadata for a mint, fetching and decoding the mint
// account when it is not memoized yet.
func (r *Resolver) Resolve(ctx context.Context, mint solana.PublicKey) (model.TokenInfo, error) {
	r.mu.RLock()
	info, ok := r.memo[mint]
	r.mu.RUnlock()
	if ok {
		return info, nil
	}

	if r.fetcher == nil {
		return model.TokenInfo{}, fmt.Errorf("no fetcher configured for unknown mint %s", mint)
	}

	data, err := r.fetcher.FetchAccount(ctx, mint)
	if err != nil {
		return model.TokenInfo{}, fmt.Errorf("fetch mint %s: %w", mint, err)
	}

	decimals, err := decodeMintDecimals(data)
	if err != nil {
		return model.TokenInfo{}, fmt.Errorf("mint %s: %w", mint, err)
	}

	info = model.TokenInfo{
		Mint:     mint.String(),
		Symbol:   shortAddress(mint),
		Name:     shortAddress(mint),
		Decimals: decimals,
	}

	r.mu.Lock()
	r.memo[mint] = info
	r.mu.Unlock()

	r.logger.Debug("resolved mint", zap.String("mint", info.Mint), zap.Uint8("decimals", decimals))
	return info, nil
}

func decodeMintDecimals(data []byte) (uint8, error) {
	if len(data) < mintAccountMinSize {
		return 0, &model.DecodeError{Kind: "mint", Got: len(data), Want: mintAccountMinSize}
	}
	return data[mintDecimalsOffset], nil
}

func shortAddress(key solana.PublicKey) string {
	s := key.String()
	if len(s) <= 8 {
		return s
	}
	return s[:4] + ".." + s[len(s)-4:]
}
