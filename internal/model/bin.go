package model

import "github.com/holiman/uint256"

// LiquidityBin is one rung of the aggregated liquidity ladder. It is
// recomputed on every analysis and never persisted as source of truth.
// ShareAmount carries the u128 share as a decimal string across the
// cache envelope.
type LiquidityBin struct {
	BinID       int32        `json:"bin_id"`
	Share       *uint256.Int `json:"-"`
	ShareAmount string       `json:"share"`
	Price       float64      `json:"price"`
	PriceUpper  float64      `json:"price_upper"`
}
