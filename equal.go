package nbt

import (
	"bytes"
	"encoding/binary"
	"math"
	"slices"

	"github.com/zeebo/blake3"
)

// Equal reports whether a and b are structurally equal. Lists and arrays
// compare element by element in order; compounds compare as key sets with
// equal values regardless of entry order. Floats compare by bit pattern, so a
// NaN equals an identical NaN and -0 differs from +0.
func Equal(a, b Tag) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	switch x := a.(type) {
	case End:
		return true
	case Byte, Short, Int, Long, String:
		return a == b
	case Float:
		y, ok := b.(Float)
		return ok && math.Float32bits(float32(x)) == math.Float32bits(float32(y))
	case Double:
		y, ok := b.(Double)
		return ok && math.Float64bits(float64(x)) == math.Float64bits(float64(y))
	case ByteArray:
		y, ok := b.(ByteArray)
		return ok && bytes.Equal(x.v, y.v)
	case IntArray:
		y, ok := b.(IntArray)
		return ok && slices.Equal(x.v, y.v)
	case LongArray:
		y, ok := b.(LongArray)
		return ok && slices.Equal(x.v, y.v)
	case List:
		y, ok := b.(List)
		if !ok || x.elem != y.elem || len(x.items) != len(y.items) {
			return false
		}
		for i := range x.items {
			if !Equal(x.items[i], y.items[i]) {
				return false
			}
		}
		return true
	case Compound:
		y, ok := b.(Compound)
		if !ok || len(x.keys) != len(y.keys) {
			return false
		}
		for i, k := range x.keys {
			v, ok := y.Get(k)
			if !ok || !Equal(x.values[i], v) {
				return false
			}
		}
		return true
	}
	return false
}

// Sum returns a BLAKE3 digest of t that is consistent with Equal: equal trees
// always produce equal digests. Compound entries are digested individually
// and combined in sorted order, so entry order does not matter.
func Sum(t Tag) [32]byte {
	h := blake3.New()
	sum(h, t)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Hash returns the first eight bytes of Sum as an integer, for use as a hash
// table key.
func Hash(t Tag) uint64 {
	s := Sum(t)
	return binary.LittleEndian.Uint64(s[:8])
}

func sum(h *blake3.Hasher, t Tag) {
	var buf [8]byte
	if t == nil {
		h.Write([]byte{0xFF})
		return
	}
	h.Write([]byte{byte(t.Type())})
	switch v := t.(type) {
	case End:
	case Byte:
		h.Write([]byte{byte(v)})
	case Short:
		binary.LittleEndian.PutUint16(buf[:], uint16(v))
		h.Write(buf[:2])
	case Int:
		binary.LittleEndian.PutUint32(buf[:], uint32(v))
		h.Write(buf[:4])
	case Long:
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	case Float:
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(float32(v)))
		h.Write(buf[:4])
	case Double:
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(float64(v)))
		h.Write(buf[:])
	case String:
		writeLen(h, len(v))
		h.Write([]byte(v))
	case ByteArray:
		writeLen(h, len(v.v))
		h.Write(v.v)
	case IntArray:
		writeLen(h, len(v.v))
		for _, x := range v.v {
			binary.LittleEndian.PutUint32(buf[:], uint32(x))
			h.Write(buf[:4])
		}
	case LongArray:
		writeLen(h, len(v.v))
		for _, x := range v.v {
			binary.LittleEndian.PutUint64(buf[:], uint64(x))
			h.Write(buf[:])
		}
	case List:
		h.Write([]byte{byte(v.elem)})
		writeLen(h, len(v.items))
		for _, item := range v.items {
			sum(h, item)
		}
	case Compound:
		entries := make([][32]byte, len(v.keys))
		for i, k := range v.keys {
			eh := blake3.New()
			writeLen(eh, len(k))
			eh.Write([]byte(k))
			sum(eh, v.values[i])
			copy(entries[i][:], eh.Sum(nil))
		}
		slices.SortFunc(entries, func(a, b [32]byte) int { return bytes.Compare(a[:], b[:]) })
		writeLen(h, len(entries))
		for _, e := range entries {
			h.Write(e[:])
		}
	}
}

func writeLen(h *blake3.Hasher, n int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	h.Write(buf[:])
}
