// Package pricing converts discrete bin ids to quote prices and back.
// The ladder is the geometric step function (1 + binStep/10000)^binId,
// adjusted for the decimal difference between the pool's tokens.
package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

const basisPointDivisor = 10000

// RawBinPrice returns the unadjusted price for a bin id. Strictly
// increasing in binID whenever binStep > 0.
func RawBinPrice(binStep uint16, binID int32) float64 {
	return math.Pow(1+float64(binStep)/basisPointDivisor, float64(binID))
}

// BinPrice returns the tokenX-per-tokenY quote price for a bin,
// adjusted for the tokens' decimal difference.
func BinPrice(binStep uint16, binID int32, decimalsX, decimalsY uint8) float64 {
	return RawBinPrice(binStep, binID) / math.Pow10(int(decimalsY)-int(decimalsX))
}

// BinUpperBound returns the exclusive upper price bound of a bin,
// which is the representative price of the next bin.
func BinUpperBound(binStep uint16, binID int32, decimalsX, decimalsY uint8) float64 {
	return BinPrice(binStep, binID+1, decimalsX, decimalsY)
}

// BinIDForPrice returns the bin id whose interval contains the given
// adjusted price. Inverse of BinPrice up to flooring.
func BinIDForPrice(binStep uint16, price float64, decimalsX, decimalsY uint8) int32 {
	raw := price * math.Pow10(int(decimalsY)-int(decimalsX))
	return int32(math.Floor(math.Log(raw) / math.Log(1+float64(binStep)/basisPointDivisor)))
}

// AdjustAmount converts a raw integer token amount into decimal units.
func AdjustAmount(raw uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromUint64(raw).Shift(-int32(decimals))
}
