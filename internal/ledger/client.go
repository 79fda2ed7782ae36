// Package ledger fetches raw account snapshots from the chain RPC.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/echohtp/poolboyz/internal/model"
)

// KeyedAccount pairs an account address with its raw data.
type KeyedAccount struct {
	Address solana.PublicKey
	Data    []byte
}

// Client wraps the JSON-RPC client and provides account fetch helpers
// with retry. All failures surface as model.UpstreamError.
type Client struct {
	rpcClient    *rpc.Client
	logger       *zap.Logger
	maxRetries   int
	retryBackoff time.Duration
}

// NewClient creates a ledger client for the RPC URL.
func NewClient(rpcURL string, maxRetries int, retryBackoff time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		rpcClient:    rpc.New(rpcURL),
		logger:       logger,
		maxRetries:   maxRetries,
		retryBackoff: retryBackoff,
	}
}

// Close releases the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// FetchAccount returns the raw data of a single account.
func (c *Client) FetchAccount(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	var data []byte
	err := withRetry(ctx, c.maxRetries, c.retryBackoff, c.logger, func(ctx context.Context) error {
		result, err := c.rpcClient.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
			Encoding:   solana.EncodingBase64,
			Commitment: rpc.CommitmentConfirmed,
		})
		if err != nil {
			c.logger.Warn("account fetch failed", zap.String("address", address.String()), zap.Error(err))
			return err
		}
		if result == nil || result.Value == nil || result.Value.Data == nil {
			return fmt.Errorf("account %s has no data", address)
		}
		data = result.Value.Data.GetBinary()
		return nil
	})
	if err != nil {
		return nil, &model.UpstreamError{Op: "fetch account", Err: err}
	}
	return data, nil
}

// MemcmpFilter matches accounts whose data at Offset equals Bytes.
type MemcmpFilter struct {
	Offset uint64
	Bytes  []byte
}

// FetchProgramAccounts returns all accounts owned by a program that
// match the given memcmp filters.
func (c *Client) FetchProgramAccounts(ctx context.Context, program solana.PublicKey, filters []MemcmpFilter) ([]KeyedAccount, error) {
	rpcFilters := make([]rpc.RPCFilter, 0, len(filters))
	for _, f := range filters {
		rpcFilters = append(rpcFilters, rpc.RPCFilter{
			Memcmp: &rpc.RPCFilterMemcmp{
				Offset: f.Offset,
				Bytes:  solana.Base58(f.Bytes),
			},
		})
	}

	var accounts []KeyedAccount
	err := withRetry(ctx, c.maxRetries, c.retryBackoff, c.logger, func(ctx context.Context) error {
		result, err := c.rpcClient.GetProgramAccountsWithOpts(ctx, program, &rpc.GetProgramAccountsOpts{
			Encoding:   solana.EncodingBase64,
			Commitment: rpc.CommitmentConfirmed,
			Filters:    rpcFilters,
		})
		if err != nil {
			c.logger.Warn("program accounts fetch failed", zap.String("program", program.String()), zap.Error(err))
			return err
		}
		accounts = accounts[:0]
		for _, keyed := range result {
			if keyed == nil || keyed.Account == nil || keyed.Account.Data == nil {
				continue
			}
			accounts = append(accounts, KeyedAccount{
				Address: keyed.Pubkey,
				Data:    keyed.Account.Data.GetBinary(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, &model.UpstreamError{Op: "fetch program accounts", Err: err}
	}
	return accounts, nil
}
