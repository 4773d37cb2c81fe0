package nbt

import (
	"encoding"
	"io"
)

// Sizer is an interface for types that can report their binary size.
// This is useful for pre-allocating buffers before encoding.
type Sizer interface {
	// Size returns the encoded size in bytes.
	Size() int
}

// Marshaler groups the encoding entry points of a document.
type Marshaler interface {
	encoding.BinaryMarshaler // MarshalBinary() ([]byte, error)
	// io.WriterTo streams the encoding without building it in memory.
	io.WriterTo // WriteTo(w io.Writer) (int64, error)

	// MarshalTo encodes into a caller-provided buffer and fails with
	// io.ErrShortWrite if it is too small.
	MarshalTo(buf []byte) (int, error)
}

// Unmarshaler groups the decoding entry points of a document.
type Unmarshaler interface {
	encoding.BinaryUnmarshaler // UnmarshalBinary(data []byte) error
	io.ReaderFrom              // ReadFrom(r io.Reader) (int64, error)
}

// Codec aggregates all binary serialization and deserialization interfaces.
// Document is the implementation in this package.
type Codec interface {
	Sizer
	Marshaler
	Unmarshaler
}

var _ Codec = (*Document)(nil)
