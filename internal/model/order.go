package model

import (
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// OrderStatus classifies a resting limit order.
type OrderStatus string

const (
	OrderActive  OrderStatus = "active"
	OrderExpired OrderStatus = "expired"
	OrderFilled  OrderStatus = "filled"
	OrderPartial OrderStatus = "partial"
)

// LimitOrder is a decoded resting limit order account.
// CurrentMakingAmount only ever decreases from OriginalMakingAmount.
type LimitOrder struct {
	UniqueID              uint64           `json:"unique_id"`
	Maker                 solana.PublicKey `json:"maker"`
	InputMint             solana.PublicKey `json:"input_mint"`
	OutputMint            solana.PublicKey `json:"output_mint"`
	OriginalMakingAmount  uint64           `json:"original_making_amount"`
	OriginalTakingAmount  uint64           `json:"original_taking_amount"`
	CurrentMakingAmount   uint64           `json:"current_making_amount"`
	CurrentTakingAmount   uint64           `json:"current_taking_amount"`
	BorrowMakingAmount    uint64           `json:"borrow_making_amount"`
	ExpiredAt             *int64           `json:"expired_at,omitempty"`
	FeeBps                uint16           `json:"fee_bps"`
	FeeAccount            solana.PublicKey `json:"fee_account"`
	CreatedAt             int64            `json:"created_at"`
	UpdatedAt             int64            `json:"updated_at"`
}

// DerivedOrder is a LimitOrder with analytics attached. It lives only
// inside analysis snapshots.
type DerivedOrder struct {
	LimitOrder

	Status           OrderStatus     `json:"status"`
	FilledPercentage decimal.Decimal `json:"filled_percentage"`
	MakingAmount     decimal.Decimal `json:"making_amount"`
	TakingAmount     decimal.Decimal `json:"taking_amount"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	InputToken       TokenInfo       `json:"input_token"`
	OutputToken      TokenInfo       `json:"output_token"`
}
