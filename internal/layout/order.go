package layout

import (
	"github.com/echohtp/poolboyz/internal/model"
)

// Order account layout: six 32-byte keys after the tag, six u64
// amounts, an optional expiry (flag byte plus an i64 slot that is
// consumed whether or not the flag is set, keeping later offsets
// stable), fee fields, timestamps, bump.
const orderSize = tagSize + 6*keySize + 6*8 + optionSlot + 2 + keySize + 8 + 8 + 1

// DecodeOrder decodes a resting limit order account.
func DecodeOrder(data []byte) (model.LimitOrder, error) {
	if len(data) < orderSize {
		return model.LimitOrder{}, &model.DecodeError{Kind: KindOrder, Got: len(data), Want: orderSize}
	}

	r := &reader{buf: data}
	r.skip(tagSize)

	order := model.LimitOrder{}
	order.Maker = r.pubkey()
	order.InputMint = r.pubkey()
	order.OutputMint = r.pubkey()
	r.skip(keySize) // input token program
	r.skip(keySize) // output token program
	r.skip(keySize) // reserve
	order.UniqueID = r.u64()
	order.OriginalMakingAmount = r.u64()
	order.OriginalTakingAmount = r.u64()
	order.CurrentMakingAmount = r.u64()
	order.CurrentTakingAmount = r.u64()
	order.BorrowMakingAmount = r.u64()

	hasExpiry := r.u8()
	expiredAt := r.i64()
	if hasExpiry != 0 {
		order.ExpiredAt = &expiredAt
	}

	order.FeeBps = r.u16()
	order.FeeAccount = r.pubkey()
	order.CreatedAt = r.i64()
	order.UpdatedAt = r.i64()

	if order.CurrentMakingAmount > order.OriginalMakingAmount {
		return model.LimitOrder{}, &model.DecodeError{
			Kind:   KindOrder,
			Got:    len(data),
			Reason: "current making amount exceeds original",
		}
	}

	return order, nil
}
