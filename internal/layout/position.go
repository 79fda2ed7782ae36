package layout

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/echohtp/poolboyz/internal/model"
)

// Position account layout, version 1. The share array length is not
// stored on the ledger; it is whatever space sits between the fixed
// header and the fixed trailer. The whole buffer must account for
// header + n*16 + trailer exactly, so a drifted or truncated buffer
// fails instead of decoding garbage trailer scalars.
const (
	positionHeaderSize  = tagSize + 2*keySize      // tag, pool, owner
	positionTrailerSize = 4 + 4 + 8 + keySize + 8 // lower, upper, lastUpdatedAt, feeOwner, lockReleasePoint
	positionMinSize     = positionHeaderSize + positionTrailerSize
	maxShareSlots       = 70
)

// DecodePosition decodes a liquidity position account.
func DecodePosition(data []byte) (model.PositionRecord, error) {
	if len(data) < positionMinSize {
		return model.PositionRecord{}, &model.DecodeError{Kind: KindPosition, Got: len(data), Want: positionMinSize}
	}

	shareBytes := len(data) - positionHeaderSize - positionTrailerSize
	if shareBytes%shareSize != 0 {
		return model.PositionRecord{}, &model.DecodeError{
			Kind:   KindPosition,
			Got:    len(data),
			Reason: fmt.Sprintf("share region %d bytes is not a multiple of %d", shareBytes, shareSize),
		}
	}
	shareCount := shareBytes / shareSize
	if shareCount > maxShareSlots {
		return model.PositionRecord{}, &model.DecodeError{
			Kind:   KindPosition,
			Got:    len(data),
			Reason: fmt.Sprintf("%d share slots exceeds maximum %d", shareCount, maxShareSlots),
		}
	}

	r := &reader{buf: data}
	r.skip(tagSize)

	record := model.PositionRecord{}
	record.Pool = r.pubkey()
	record.Owner = r.pubkey()

	record.Shares = make([]*uint256.Int, shareCount)
	for i := range record.Shares {
		record.Shares[i] = r.u128()
	}

	record.LowerBinID = r.i32()
	record.UpperBinID = r.i32()
	record.LastUpdatedAt = r.i64()
	record.FeeOwner = r.pubkey()
	record.LockReleasePoint = r.i64()

	if record.UpperBinID < record.LowerBinID {
		return model.PositionRecord{}, &model.DecodeError{
			Kind:   KindPosition,
			Got:    len(data),
			Reason: fmt.Sprintf("bin range [%d, %d] is inverted", record.LowerBinID, record.UpperBinID),
		}
	}
	if shareCount > record.BinCount() {
		return model.PositionRecord{}, &model.DecodeError{
			Kind:   KindPosition,
			Got:    len(data),
			Reason: fmt.Sprintf("%d share slots for a %d-bin range", shareCount, record.BinCount()),
		}
	}

	return record, nil
}
