package token

import "github.com/echohtp/poolboyz/internal/model"

// knownMints seeds the resolver with tokens that dominate pool and
// order traffic, saving a ledger round trip for the common case.
var knownMints = []model.TokenInfo{
	{Mint: "So11111111111111111111111111111111111111112", Symbol: "SOL", Name: "Wrapped SOL", Decimals: 9},
	{Mint: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Symbol: "USDC", Name: "USD Coin", Decimals: 6},
	{Mint: "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB", Symbol: "USDT", Name: "Tether USD", Decimals: 6},
	{Mint: "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN", Symbol: "JUP", Name: "Jupiter", Decimals: 6},
	{Mint: "mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So", Symbol: "mSOL", Name: "Marinade staked SOL", Decimals: 9},
	{Mint: "7vfCXTUXx5WJV5JADk17DUJ4ksgau7utNKj4b963voxs", Symbol: "ETH", Name: "Ether (Wormhole)", Decimals: 8},
	{Mint: "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263", Symbol: "BONK", Name: "Bonk", Decimals: 5},
	{Mint: "bSo13r4TkiE4KumL71LsHTPpL2euBYLFx6h9HP3piy1", Symbol: "bSOL", Name: "BlazeStake staked SOL", Decimals: 9},
}
