package model

// TokenInfo captures mint metadata. Entries are append-only for the
// process lifetime once resolved.
type TokenInfo struct {
	Mint     string `json:"mint"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}
