package model

import "github.com/shopspring/decimal"

// BinRange is the inclusive bin-id span holding liquidity.
type BinRange struct {
	Lower int32 `json:"lower"`
	Upper int32 `json:"upper"`
}

// AnalysisResult is the liquidity snapshot served for a pool address.
type AnalysisResult struct {
	Pool          string         `json:"pool"`
	TokenX        TokenInfo      `json:"token_x"`
	TokenY        TokenInfo      `json:"token_y"`
	BinStep       uint16         `json:"bin_step"`
	Bins          []LiquidityBin `json:"bins"`
	BinCount      int            `json:"bin_count"`
	PositionCount int            `json:"position_count"`
	TotalShare    string         `json:"total_share"`
	ActiveRange   BinRange       `json:"active_range"`
	// PeakBin is the bin id carrying the largest aggregate share.
	PeakBin int32 `json:"peak_bin"`
}

// TargetBin annotates which bin a quote price lands in. It is computed
// per request on top of a cached snapshot and never persisted with it.
type TargetBin struct {
	Price        float64 `json:"price"`
	BinID        int32   `json:"bin_id"`
	InRange      bool    `json:"in_range"`
	HasLiquidity bool    `json:"has_liquidity"`
}

// HistogramBucket is one bucket of a price or volume distribution.
// Buckets with zero count are omitted from results.
type HistogramBucket struct {
	Label string  `json:"label"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper,omitempty"`
	Count int     `json:"count"`
}

// OrderAnalysisResult is the limit-order snapshot served for a maker
// (optionally narrowed to one input mint).
type OrderAnalysisResult struct {
	Maker           string              `json:"maker"`
	Mint            string              `json:"mint,omitempty"`
	Orders          []DerivedOrder      `json:"orders"`
	StatusCounts    map[OrderStatus]int `json:"status_counts"`
	PriceHistogram  []HistogramBucket   `json:"price_histogram"`
	VolumeHistogram []HistogramBucket   `json:"volume_histogram"`
	TotalMaking     decimal.Decimal     `json:"total_making"`
	TotalTaking     decimal.Decimal     `json:"total_taking"`
}
