package analyze

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/echohtp/poolboyz/internal/ledger"
	"github.com/echohtp/poolboyz/internal/model"
	"github.com/echohtp/poolboyz/internal/token"
)

var (
	poolKey         = solana.MustPublicKeyFromBase58("3W2HKp9dCuFN3inmHjTza8GqAJLLQn5VBnTvDyEkKpVJ")
	makerKey        = solana.MustPublicKeyFromBase58("9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin")
	positionProgram = solana.MustPublicKeyFromBase58("LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo")
	orderProgram    = solana.MustPublicKeyFromBase58("jupoNjAxXgZ4rjzxzPMP4oxduvQsQtZzyknqvzYNrNu")
	usdcMint        = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	solMint         = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
)

type fakeSource struct {
	accounts map[solana.PublicKey][]byte
	programs map[solana.PublicKey][]ledger.KeyedAccount
	fetchErr error
}

func (f *fakeSource) FetchAccount(_ context.Context, address solana.PublicKey) ([]byte, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	data, ok := f.accounts[address]
	if !ok {
		return nil, &model.UpstreamError{Op: "fetch account", Err: fmt.Errorf("not found: %s", address)}
	}
	return data, nil
}

func (f *fakeSource) FetchProgramAccounts(_ context.Context, program solana.PublicKey, filters []ledger.MemcmpFilter) ([]ledger.KeyedAccount, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	matched := make([]ledger.KeyedAccount, 0)
	for _, keyed := range f.programs[program] {
		ok := true
		for _, filter := range filters {
			end := int(filter.Offset) + len(filter.Bytes)
			if end > len(keyed.Data) || !bytes.Equal(keyed.Data[filter.Offset:end], filter.Bytes) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, keyed)
		}
	}
	return matched, nil
}

// Account builders mirror the layouts the decoders consume.

func poolAccount(binStep uint16, tokenX, tokenY solana.PublicKey) []byte {
	buf := make([]byte, 152)
	binary.LittleEndian.PutUint16(buf[81:], binStep)
	copy(buf[88:], tokenX[:])
	copy(buf[120:], tokenY[:])
	return buf
}

func positionAccount(pool solana.PublicKey, lower, upper int32, shareValues []uint64) []byte {
	buf := make([]byte, 72+len(shareValues)*16+56)
	copy(buf[8:], pool[:])
	off := 72
	for _, v := range shareValues {
		binary.LittleEndian.PutUint64(buf[off:], v)
		off += 16
	}
	binary.LittleEndian.PutUint32(buf[off:], uint32(lower))
	binary.LittleEndian.PutUint32(buf[off+4:], uint32(upper))
	return buf
}

func orderAccount(maker, inputMint, outputMint solana.PublicKey, original, current, taking uint64, expiry *int64) []byte {
	buf := make([]byte, 308)
	copy(buf[8:], maker[:])
	copy(buf[40:], inputMint[:])
	copy(buf[72:], outputMint[:])
	binary.LittleEndian.PutUint64(buf[208:], original)
	binary.LittleEndian.PutUint64(buf[216:], 2*original)
	binary.LittleEndian.PutUint64(buf[224:], current)
	binary.LittleEndian.PutUint64(buf[232:], taking)
	if expiry != nil {
		buf[248] = 1
		binary.LittleEndian.PutUint64(buf[249:], uint64(*expiry))
	}
	return buf
}

func newTestAnalyzer(source *fakeSource) *Analyzer {
	analyzer := NewAnalyzer(source, token.NewResolver(source, nil), positionProgram, orderProgram, nil)
	analyzer.now = func() time.Time { return testNow }
	return analyzer
}

func TestAnalyzePool(t *testing.T) {
	source := &fakeSource{
		accounts: map[solana.PublicKey][]byte{
			poolKey: poolAccount(100, usdcMint, solMint),
		},
		programs: map[solana.PublicKey][]ledger.KeyedAccount{
			positionProgram: {
				{Address: solana.PublicKey{1}, Data: positionAccount(poolKey, 100, 102, []uint64{5, 0, 3})},
				{Address: solana.PublicKey{2}, Data: positionAccount(poolKey, 101, 101, []uint64{10})},
				{Address: solana.PublicKey{3}, Data: []byte{0xde, 0xad}}, // undersized, skipped
			},
		},
	}

	result, err := newTestAnalyzer(source).AnalyzePool(context.Background(), poolKey)
	if err != nil {
		t.Fatalf("analyze pool: %v", err)
	}
	if result.BinCount != 3 {
		t.Fatalf("bin count mismatch: %d", result.BinCount)
	}
	if result.PositionCount != 2 {
		t.Fatalf("malformed account should be skipped: %d positions", result.PositionCount)
	}
	if result.TotalShare != "18" {
		t.Fatalf("total share mismatch: %s", result.TotalShare)
	}
	if result.ActiveRange.Lower != 100 || result.ActiveRange.Upper != 102 {
		t.Fatalf("active range mismatch: %+v", result.ActiveRange)
	}
	if result.PeakBin != 101 {
		t.Fatalf("peak bin mismatch: %d", result.PeakBin)
	}
	if result.TokenX.Symbol != "USDC" || result.TokenY.Symbol != "SOL" {
		t.Fatalf("token info mismatch: %+v / %+v", result.TokenX, result.TokenY)
	}
}

func TestAnalyzePoolNoPositions(t *testing.T) {
	source := &fakeSource{
		accounts: map[solana.PublicKey][]byte{
			poolKey: poolAccount(100, usdcMint, solMint),
		},
	}

	_, err := newTestAnalyzer(source).AnalyzePool(context.Background(), poolKey)
	if !errors.Is(err, model.ErrNoPositions) {
		t.Fatalf("expected ErrNoPositions, got %v", err)
	}
}

func TestAnalyzePoolUpstreamFailure(t *testing.T) {
	source := &fakeSource{fetchErr: &model.UpstreamError{Op: "fetch account", Err: fmt.Errorf("rpc down")}}

	_, err := newTestAnalyzer(source).AnalyzePool(context.Background(), poolKey)
	var upstream *model.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
}

func TestAnalyzePoolZeroAddress(t *testing.T) {
	_, err := newTestAnalyzer(&fakeSource{}).AnalyzePool(context.Background(), solana.PublicKey{})
	if !errors.Is(err, model.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestAnalyzeOrders(t *testing.T) {
	expired := testNow.Unix() - 10
	source := &fakeSource{
		programs: map[solana.PublicKey][]ledger.KeyedAccount{
			orderProgram: {
				{Address: solana.PublicKey{1}, Data: orderAccount(makerKey, usdcMint, solMint, 1000e6, 1000e6, 500e9, nil)},
				{Address: solana.PublicKey{2}, Data: orderAccount(makerKey, usdcMint, solMint, 1000e6, 400e6, 200e9, nil)},
				{Address: solana.PublicKey{3}, Data: orderAccount(makerKey, usdcMint, solMint, 1000e6, 0, 0, nil)},
				{Address: solana.PublicKey{4}, Data: orderAccount(makerKey, solMint, usdcMint, 10e9, 10e9, 2000e6, &expired)},
			},
		},
	}

	result, err := newTestAnalyzer(source).AnalyzeOrders(context.Background(), makerKey, nil)
	if err != nil {
		t.Fatalf("analyze orders: %v", err)
	}
	if len(result.Orders) != 4 {
		t.Fatalf("order count mismatch: %d", len(result.Orders))
	}
	if result.StatusCounts[model.OrderActive] != 1 ||
		result.StatusCounts[model.OrderPartial] != 1 ||
		result.StatusCounts[model.OrderFilled] != 1 ||
		result.StatusCounts[model.OrderExpired] != 1 {
		t.Fatalf("status counts mismatch: %+v", result.StatusCounts)
	}
	if len(result.VolumeHistogram) == 0 {
		t.Fatalf("volume histogram should not be empty")
	}
}

func TestAnalyzeOrdersMintFilter(t *testing.T) {
	source := &fakeSource{
		programs: map[solana.PublicKey][]ledger.KeyedAccount{
			orderProgram: {
				{Address: solana.PublicKey{1}, Data: orderAccount(makerKey, usdcMint, solMint, 1000e6, 1000e6, 500e9, nil)},
				{Address: solana.PublicKey{2}, Data: orderAccount(makerKey, solMint, usdcMint, 10e9, 10e9, 2000e6, nil)},
			},
		},
	}

	result, err := newTestAnalyzer(source).AnalyzeOrders(context.Background(), makerKey, &solMint)
	if err != nil {
		t.Fatalf("analyze orders: %v", err)
	}
	if len(result.Orders) != 1 {
		t.Fatalf("mint filter should narrow to one order: %d", len(result.Orders))
	}
	if result.Mint != solMint.String() {
		t.Fatalf("mint echo mismatch: %s", result.Mint)
	}
}

func TestAnalyzeOrdersEmpty(t *testing.T) {
	source := &fakeSource{}
	_, err := newTestAnalyzer(source).AnalyzeOrders(context.Background(), makerKey, nil)
	if !errors.Is(err, model.ErrNoOrders) {
		t.Fatalf("expected ErrNoOrders, got %v", err)
	}
}
