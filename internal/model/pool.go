package model

import "github.com/gagliardetto/solana-go"

// PoolMetadata captures immutable pool parameters. Token decimals are
// filled in by the token resolver after decoding.
type PoolMetadata struct {
	Address   solana.PublicKey `json:"address"`
	TokenX    solana.PublicKey `json:"token_x"`
	TokenY    solana.PublicKey `json:"token_y"`
	BinStep   uint16           `json:"bin_step"`
	DecimalsX uint8            `json:"decimals_x"`
	DecimalsY uint8            `json:"decimals_y"`
}
