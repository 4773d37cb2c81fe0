package nbt

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Maximum number of base-128 groups for each width.
const (
	maxVarintLen32 = 5
	maxVarintLen64 = 10
)

func zigzag32(v int32) uint32   { return uint32((v << 1) ^ (v >> 31)) }
func unzigzag32(u uint32) int32 { return int32(u>>1) ^ -int32(u&1) }
func zigzag64(v int64) uint64   { return uint64((v << 1) ^ (v >> 63)) }
func unzigzag64(u uint64) int64 { return int64(u>>1) ^ -int64(u&1) }

// appendUvarint appends v in base-128 groups, least significant first, with
// the high bit of each byte set when more groups follow.
func appendUvarint[T constraints.Unsigned](dst []byte, v T) []byte {
	x := uint64(v)
	for x >= 0x80 {
		dst = append(dst, byte(x)|0x80)
		x >>= 7
	}
	return append(dst, byte(x))
}

// writeUvarint writes v to w without allocating.
func writeUvarint[T constraints.Unsigned](w *Writer, v T) {
	var buf [maxVarintLen64]byte
	w.Write(appendUvarint(buf[:0], v))
}

// readUvarint reads at most groups base-128 groups. A sequence whose last
// allowed group still has the continuation bit set fails with
// ErrMalformedVarInt.
func readUvarint(r *Reader, groups int) uint64 {
	var x uint64
	for i := 0; i < groups; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0
		}
		x |= uint64(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return x
		}
	}
	r.SetError(fmt.Errorf("%w: more than %d groups", ErrMalformedVarInt, groups))
	return 0
}

// PutVarint32 appends the zig-zag varint encoding of v to dst.
func PutVarint32(dst []byte, v int32) []byte { return appendUvarint(dst, zigzag32(v)) }

// PutVarint64 appends the zig-zag varint encoding of v to dst.
func PutVarint64(dst []byte, v int64) []byte { return appendUvarint(dst, zigzag64(v)) }
