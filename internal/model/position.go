package model

import (
	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
)

// PositionRecord is a decoded liquidity position. Shares[i] belongs to
// bin LowerBinID+i; the slice never exceeds the covered bin range.
type PositionRecord struct {
	Pool             solana.PublicKey `json:"pool"`
	Owner            solana.PublicKey `json:"owner"`
	LowerBinID       int32            `json:"lower_bin_id"`
	UpperBinID       int32            `json:"upper_bin_id"`
	Shares           []*uint256.Int   `json:"-"`
	LastUpdatedAt    int64            `json:"last_updated_at"`
	FeeOwner         solana.PublicKey `json:"fee_owner"`
	LockReleasePoint int64            `json:"lock_release_point"`
}

// BinCount returns the number of bins the position covers.
func (p PositionRecord) BinCount() int {
	return int(p.UpperBinID-p.LowerBinID) + 1
}

// TotalShare sums the position's shares across all covered bins.
func (p PositionRecord) TotalShare() *uint256.Int {
	total := new(uint256.Int)
	for _, share := range p.Shares {
		if share != nil {
			total.Add(total, share)
		}
	}
	return total
}
