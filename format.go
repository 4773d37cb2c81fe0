package nbt

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Format describes how one wire variant encodes lengths, numbers and
// strings. The decoder and encoder never branch on the variant; they call the
// format for every primitive. Errors are reported through the Reader or
// Writer error latch.
//
// Byte values and type identifiers are single bytes in every variant and are
// read and written by the engine directly.
type Format interface {
	// Name identifies the variant, e.g. "java".
	Name() string
	// NamedRoot reports whether the root tag carries a name on the wire.
	NamedRoot() bool

	ReadShort(r *Reader) int16
	ReadInt(r *Reader) int32
	ReadLong(r *Reader) int64
	ReadFloat(r *Reader) float32
	ReadDouble(r *Reader) float64
	// ReadLength reads a list or array length. Negative lengths fail with
	// ErrSizeLimitExceeded.
	ReadLength(r *Reader) int
	// ReadString reads a length-prefixed string of at most max encoded bytes.
	ReadString(r *Reader, max int) string

	WriteShort(w *Writer, v int16)
	WriteInt(w *Writer, v int32)
	WriteLong(w *Writer, v int64)
	WriteFloat(w *Writer, v float32)
	WriteDouble(w *Writer, v float64)
	WriteLength(w *Writer, n int)
	// WriteString writes s with its length prefix. Encodings longer than max
	// or than the variant can express fail with ErrSizeLimitExceeded.
	WriteString(w *Writer, s string, max int)
}

var (
	// Java is the big-endian variant with modified UTF-8 strings used by
	// Java Edition files and protocol.
	Java Format = fixedFormat{name: "java", order: binary.BigEndian, modified: true}

	// Bedrock is the little-endian variant used by Bedrock Edition files.
	Bedrock Format = fixedFormat{name: "bedrock", order: binary.LittleEndian}

	// Network is the Bedrock network variant: zig-zag varints for Int and
	// Long, unsigned varint lengths and an unnamed root.
	Network Format = networkFormat{fixedFormat{name: "network", order: binary.LittleEndian}}
)

// FormatByName returns the built-in format called name.
func FormatByName(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "java", "be", "big-endian":
		return Java, nil
	case "bedrock", "le", "little-endian":
		return Bedrock, nil
	case "network", "varint":
		return Network, nil
	}
	return nil, fmt.Errorf("nbt: unknown format %q", name)
}

// fixedFormat encodes every number with its natural width in one byte order
// and prefixes strings with an unsigned 16-bit length.
type fixedFormat struct {
	name     string
	order    binary.ByteOrder
	modified bool
}

func (f fixedFormat) Name() string    { return f.name }
func (f fixedFormat) NamedRoot() bool { return true }

func (f fixedFormat) ReadShort(r *Reader) int16 { return int16(f.order.Uint16(r.ReadFixed(2))) }
func (f fixedFormat) ReadInt(r *Reader) int32   { return int32(f.order.Uint32(r.ReadFixed(4))) }
func (f fixedFormat) ReadLong(r *Reader) int64  { return int64(f.order.Uint64(r.ReadFixed(8))) }

func (f fixedFormat) ReadFloat(r *Reader) float32 {
	return math.Float32frombits(f.order.Uint32(r.ReadFixed(4)))
}

func (f fixedFormat) ReadDouble(r *Reader) float64 {
	return math.Float64frombits(f.order.Uint64(r.ReadFixed(8)))
}

func (f fixedFormat) ReadLength(r *Reader) int {
	n := f.ReadInt(r)
	if n < 0 {
		r.SetError(fmt.Errorf("%w: negative length %d", ErrSizeLimitExceeded, n))
		return 0
	}
	return int(n)
}

func (f fixedFormat) ReadString(r *Reader, max int) string {
	n := int(f.order.Uint16(r.ReadFixed(2)))
	if r.Err() != nil {
		return ""
	}
	if n > max {
		r.SetError(fmt.Errorf("%w: string of %d bytes, limit %d", ErrSizeLimitExceeded, n, max))
		return ""
	}
	b := r.ReadBytes(n)
	if r.Err() != nil {
		return ""
	}
	if !f.modified {
		return string(b)
	}
	s, err := decodeModifiedUTF8(b)
	if err != nil {
		r.SetError(err)
		return ""
	}
	return s
}

func (f fixedFormat) WriteShort(w *Writer, v int16) {
	var buf [2]byte
	f.order.PutUint16(buf[:], uint16(v))
	w.Write(buf[:])
}

func (f fixedFormat) WriteInt(w *Writer, v int32) {
	var buf [4]byte
	f.order.PutUint32(buf[:], uint32(v))
	w.Write(buf[:])
}

func (f fixedFormat) WriteLong(w *Writer, v int64) {
	var buf [8]byte
	f.order.PutUint64(buf[:], uint64(v))
	w.Write(buf[:])
}

func (f fixedFormat) WriteFloat(w *Writer, v float32) {
	var buf [4]byte
	f.order.PutUint32(buf[:], math.Float32bits(v))
	w.Write(buf[:])
}

func (f fixedFormat) WriteDouble(w *Writer, v float64) {
	var buf [8]byte
	f.order.PutUint64(buf[:], math.Float64bits(v))
	w.Write(buf[:])
}

func (f fixedFormat) WriteLength(w *Writer, n int) {
	if n > math.MaxInt32 {
		w.SetError(fmt.Errorf("%w: length %d", ErrSizeLimitExceeded, n))
		return
	}
	f.WriteInt(w, int32(n))
}

func (f fixedFormat) WriteString(w *Writer, s string, max int) {
	n := len(s)
	if f.modified {
		n = modifiedLen(s)
	}
	if n > math.MaxUint16 || n > max {
		w.SetError(fmt.Errorf("%w: string of %d bytes, limit %d", ErrSizeLimitExceeded, n, min(max, math.MaxUint16)))
		return
	}
	var buf [2]byte
	f.order.PutUint16(buf[:], uint16(n))
	w.Write(buf[:])
	if !f.modified {
		w.WriteString(s)
		return
	}
	if n == len(s) {
		// No NUL, supplementary or invalid characters: identical to UTF-8.
		w.WriteString(s)
		return
	}
	w.Write(appendModifiedUTF8(make([]byte, 0, n), s))
}
