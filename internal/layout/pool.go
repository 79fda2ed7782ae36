package layout

import (
	"github.com/echohtp/poolboyz/internal/model"
)

// Pool account layout: 8-byte tag, 64-byte static params block, 9 bytes
// of flags/ids, then binStep (i16), 5 flag bytes, tokenX, tokenY.
const (
	poolParamsSize  = 64
	poolFlagIDsSize = 9
	poolFlagsSize   = 5

	poolMinSize = tagSize + poolParamsSize + poolFlagIDsSize + 2 + poolFlagsSize + 2*keySize
)

// DecodePool decodes a pool metadata account. The returned record's
// token decimals are zero; the token resolver fills them in.
func DecodePool(data []byte) (model.PoolMetadata, error) {
	if len(data) < poolMinSize {
		return model.PoolMetadata{}, &model.DecodeError{Kind: KindPool, Got: len(data), Want: poolMinSize}
	}

	r := &reader{buf: data}
	r.skip(tagSize + poolParamsSize + poolFlagIDsSize)

	meta := model.PoolMetadata{}
	meta.BinStep = r.u16()
	r.skip(poolFlagsSize)
	meta.TokenX = r.pubkey()
	meta.TokenY = r.pubkey()

	if meta.BinStep == 0 {
		return model.PoolMetadata{}, &model.DecodeError{Kind: KindPool, Got: len(data), Reason: "bin step is zero"}
	}

	return meta, nil
}
