package analyze

import (
	"sort"

	"github.com/holiman/uint256"

	"github.com/echohtp/poolboyz/internal/model"
	"github.com/echohtp/poolboyz/internal/pricing"
)

// BuildLiquidityBins folds decoded positions into per-bin share totals.
// The fold is commutative, so input order never changes the result.
// Positions with no share anywhere in their range are dropped; bins
// whose aggregate stays zero are omitted. Output is sorted by bin id.
func BuildLiquidityBins(positions []model.PositionRecord, meta model.PoolMetadata) ([]model.LiquidityBin, error) {
	if len(positions) == 0 {
		return nil, model.ErrNoPositions
	}

	totals := make(map[int32]*uint256.Int)
	for _, pos := range positions {
		if pos.TotalShare().IsZero() {
			continue
		}
		for i, share := range pos.Shares {
			if share == nil || share.IsZero() {
				continue
			}
			binID := pos.LowerBinID + int32(i)
			total, ok := totals[binID]
			if !ok {
				total = new(uint256.Int)
				totals[binID] = total
			}
			total.Add(total, share)
		}
	}

	if len(totals) == 0 {
		return nil, model.ErrNoLiquidity
	}

	bins := make([]model.LiquidityBin, 0, len(totals))
	for binID, share := range totals {
		bins = append(bins, model.LiquidityBin{
			BinID:       binID,
			Share:       share,
			ShareAmount: share.Dec(),
			Price:       pricing.BinPrice(meta.BinStep, binID, meta.DecimalsX, meta.DecimalsY),
			PriceUpper:  pricing.BinUpperBound(meta.BinStep, binID, meta.DecimalsX, meta.DecimalsY),
		})
	}

	sort.Slice(bins, func(i, j int) bool { return bins[i].BinID < bins[j].BinID })
	return bins, nil
}

// TargetBin locates the bin a quote price lands in and reports whether
// it sits inside the active range and currently holds share.
func TargetBin(analysis model.AnalysisResult, price float64) model.TargetBin {
	binID := pricing.BinIDForPrice(analysis.BinStep, price, analysis.TokenX.Decimals, analysis.TokenY.Decimals)
	target := model.TargetBin{
		Price:   price,
		BinID:   binID,
		InRange: binID >= analysis.ActiveRange.Lower && binID <= analysis.ActiveRange.Upper,
	}
	for _, bin := range analysis.Bins {
		if bin.BinID == binID {
			target.HasLiquidity = true
			break
		}
	}
	return target
}

// summarizeBins computes the result-level aggregates over a non-empty
// sorted bin ladder.
func summarizeBins(bins []model.LiquidityBin) (total *uint256.Int, active model.BinRange, peak int32) {
	total = new(uint256.Int)
	active = model.BinRange{Lower: bins[0].BinID, Upper: bins[len(bins)-1].BinID}
	peak = bins[0].BinID
	peakShare := new(uint256.Int)

	for _, bin := range bins {
		total.Add(total, bin.Share)
		if bin.Share.Cmp(peakShare) > 0 {
			peakShare.Set(bin.Share)
			peak = bin.BinID
		}
	}
	return total, active, peak
}
