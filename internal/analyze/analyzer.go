// Package analyze turns raw account snapshots into liquidity and
// limit-order analytics.
package analyze

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/echohtp/poolboyz/internal/layout"
	"github.com/echohtp/poolboyz/internal/ledger"
	"github.com/echohtp/poolboyz/internal/model"
	"github.com/echohtp/poolboyz/internal/token"
)

// Account data offsets used for program-account filters: both position
// and order accounts carry their primary key right after the 8-byte tag,
// and orders carry the input mint after the maker.
const (
	positionPoolOffset = 8
	orderMakerOffset   = 8
	orderInputOffset   = 40

	resolveConcurrency = 8
)

// AccountSource is the external collaborator that fetches account
// snapshots. Implemented by ledger.Client.
type AccountSource interface {
	FetchAccount(ctx context.Context, address solana.PublicKey) ([]byte, error)
	FetchProgramAccounts(ctx context.Context, program solana.PublicKey, filters []ledger.MemcmpFilter) ([]ledger.KeyedAccount, error)
}

// Analyzer runs the decode and aggregate pipeline over fetched
// snapshots. It holds no per-request state and is safe for concurrent
// use.
type Analyzer struct {
	source          AccountSource
	resolver        *token.Resolver
	logger          *zap.Logger
	positionProgram solana.PublicKey
	orderProgram    solana.PublicKey
	now             func() time.Time
}

// NewAnalyzer builds an analyzer over an account source.
func NewAnalyzer(source AccountSource, resolver *token.Resolver, positionProgram, orderProgram solana.PublicKey, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		source:          source,
		resolver:        resolver,
		logger:          logger,
		positionProgram: positionProgram,
		orderProgram:    orderProgram,
		now:             time.Now,
	}
}

// AnalyzePool fetches a pool and its positions and aggregates the
// liquidity ladder. Per-record decode failures are skipped and logged;
// they never abort the batch.
func (a *Analyzer) AnalyzePool(ctx context.Context, pool solana.PublicKey) (model.AnalysisResult, error) {
	if pool.IsZero() {
		return model.AnalysisResult{}, model.ErrInvalidQuery
	}

	poolData, err := a.source.FetchAccount(ctx, pool)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	meta, err := layout.DecodePool(poolData)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	meta.Address = pool

	// Position accounts and token metadata are independent reads;
	// issue them concurrently.
	var (
		accounts     []ledger.KeyedAccount
		infoX, infoY model.TokenInfo
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		accounts, err = a.source.FetchProgramAccounts(groupCtx, a.positionProgram, []ledger.MemcmpFilter{
			{Offset: positionPoolOffset, Bytes: pool.Bytes()},
		})
		return err
	})
	group.Go(func() error {
		var err error
		infoX, err = a.resolver.Resolve(groupCtx, meta.TokenX)
		return err
	})
	group.Go(func() error {
		var err error
		infoY, err = a.resolver.Resolve(groupCtx, meta.TokenY)
		return err
	})
	if err := group.Wait(); err != nil {
		return model.AnalysisResult{}, err
	}

	meta.DecimalsX = infoX.Decimals
	meta.DecimalsY = infoY.Decimals

	positions := make([]model.PositionRecord, 0, len(accounts))
	for _, account := range accounts {
		record, err := layout.DecodePosition(account.Data)
		if err != nil {
			a.logger.Warn("skip position", zap.String("account", account.Address.String()), zap.Error(err))
			continue
		}
		positions = append(positions, record)
	}

	bins, err := BuildLiquidityBins(positions, meta)
	if err != nil {
		return model.AnalysisResult{}, err
	}

	total, active, peak := summarizeBins(bins)

	return model.AnalysisResult{
		Pool:          pool.String(),
		TokenX:        infoX,
		TokenY:        infoY,
		BinStep:       meta.BinStep,
		Bins:          bins,
		BinCount:      len(bins),
		PositionCount: len(positions),
		TotalShare:    total.Dec(),
		ActiveRange:   active,
		PeakBin:       peak,
	}, nil
}

// AnalyzeOrders fetches a maker's resting orders (optionally narrowed
// to one input mint) and derives status, fills, and distributions.
func (a *Analyzer) AnalyzeOrders(ctx context.Context, maker solana.PublicKey, mint *solana.PublicKey) (model.OrderAnalysisResult, error) {
	if maker.IsZero() {
		return model.OrderAnalysisResult{}, model.ErrInvalidQuery
	}

	filters := []ledger.MemcmpFilter{{Offset: orderMakerOffset, Bytes: maker.Bytes()}}
	if mint != nil {
		filters = append(filters, ledger.MemcmpFilter{Offset: orderInputOffset, Bytes: mint.Bytes()})
	}

	accounts, err := a.source.FetchProgramAccounts(ctx, a.orderProgram, filters)
	if err != nil {
		return model.OrderAnalysisResult{}, err
	}

	orders := make([]model.LimitOrder, 0, len(accounts))
	for _, account := range accounts {
		order, err := layout.DecodeOrder(account.Data)
		if err != nil {
			a.logger.Warn("skip order", zap.String("account", account.Address.String()), zap.Error(err))
			continue
		}
		orders = append(orders, order)
	}
	if len(orders) == 0 {
		return model.OrderAnalysisResult{}, model.ErrNoOrders
	}

	infos, err := a.resolveMints(ctx, orders)
	if err != nil {
		return model.OrderAnalysisResult{}, err
	}

	now := a.now()
	derived := make([]model.DerivedOrder, 0, len(orders))
	statusCounts := make(map[model.OrderStatus]int)
	totalMaking := decimal.Zero
	totalTaking := decimal.Zero
	for _, order := range orders {
		d := DeriveOrder(order, infos[order.InputMint], infos[order.OutputMint], now)
		derived = append(derived, d)
		statusCounts[d.Status]++
		totalMaking = totalMaking.Add(d.MakingAmount)
		totalTaking = totalTaking.Add(d.TakingAmount)
	}

	result := model.OrderAnalysisResult{
		Maker:           maker.String(),
		Orders:          derived,
		StatusCounts:    statusCounts,
		PriceHistogram:  PriceHistogram(derived),
		VolumeHistogram: VolumeHistogram(derived),
		TotalMaking:     totalMaking,
		TotalTaking:     totalTaking,
	}
	if mint != nil {
		result.Mint = mint.String()
	}
	return result, nil
}

// resolveMints fans out metadata lookups for every distinct mint in
// the order set, bounded to keep pressure off the RPC.
func (a *Analyzer) resolveMints(ctx context.Context, orders []model.LimitOrder) (map[solana.PublicKey]model.TokenInfo, error) {
	distinct := make(map[solana.PublicKey]struct{})
	for _, order := range orders {
		distinct[order.InputMint] = struct{}{}
		distinct[order.OutputMint] = struct{}{}
	}

	var mu sync.Mutex
	infos := make(map[solana.PublicKey]model.TokenInfo, len(distinct))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(resolveConcurrency)
	for mint := range distinct {
		mint := mint
		group.Go(func() error {
			info, err := a.resolver.Resolve(groupCtx, mint)
			if err != nil {
				return err
			}
			mu.Lock()
			infos[mint] = info
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return infos, nil
}
