// Package layout decodes fixed-layout ledger account buffers into typed
// records. All integers are little-endian; identifiers are 32-byte keys.
// Decoding is forward-only: every record kind has a versioned field
// schema and buffers that do not match it fail with a DecodeError.
package layout

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
)

// Account kinds, used in decode errors.
const (
	KindPool     = "pool"
	KindPosition = "position"
	KindOrder    = "order"
)

const (
	tagSize    = 8
	keySize    = 32
	shareSize  = 16
	optionSlot = 1 + 8 // presence flag + always-consumed value slot
)

// reader walks a buffer forward. Callers validate the total length
// against the record schema before reading, so methods do not re-check
// bounds.
type reader struct {
	buf []byte
	off int
}

func (r *reader) skip(n int) {
	r.off += n
}

func (r *reader) pubkey() solana.PublicKey {
	key := solana.PublicKeyFromBytes(r.buf[r.off : r.off+keySize])
	r.off += keySize
	return key
}

func (r *reader) u8() uint8 {
	v := r.buf[r.off]
	r.off++
	return v
}

func (r *reader) u16() uint16 {
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v
}

func (r *reader) i32() int32 {
	v := int32(binary.LittleEndian.Uint32(r.buf[r.off:]))
	r.off += 4
	return v
}

func (r *reader) u64() uint64 {
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v
}

func (r *reader) i64() int64 {
	return int64(r.u64())
}

// u128 reconstructs an unsigned 128-bit value from two consecutive
// little-endian 64-bit words, low word first. Exact integer arithmetic
// only; float conversion would lose precision at high magnitudes.
func (r *reader) u128() *uint256.Int {
	low := r.u64()
	high := r.u64()
	v := new(uint256.Int).SetUint64(high)
	v.Lsh(v, 64)
	return v.Or(v, new(uint256.Int).SetUint64(low))
}
