package nbt

import "io"

// BytesReader is an io.Reader over an in-memory byte slice. Unmarshal uses it
// so that the decoder reads bytewise without any buffering layer, and so the
// bytes left after the root tag can be inspected.
type BytesReader struct {
	B []byte // source slice
	N int    // current read position
}

// NewBytesReader creates a new BytesReader.
func NewBytesReader(b []byte) *BytesReader {
	return &BytesReader{B: b}
}

// Read implements the [io.Reader] interface.
func (r *BytesReader) Read(p []byte) (int, error) {
	if r.N >= len(r.B) {
		return 0, io.EOF
	}
	n := copy(p, r.B[r.N:])
	r.N += n
	return n, nil
}

// ReadByte implements the [io.ByteReader] interface.
func (r *BytesReader) ReadByte() (byte, error) {
	if r.N >= len(r.B) {
		return 0, io.EOF
	}
	b := r.B[r.N]
	r.N++
	return b, nil
}

// Remaining returns the unread part of the slice.
func (r *BytesReader) Remaining() []byte {
	if r.N >= len(r.B) {
		return nil
	}
	return r.B[r.N:]
}

// Reset rewinds the reader to the start of the slice.
func (r *BytesReader) Reset() { r.N = 0 }

// Len returns the number of bytes read.
func (r *BytesReader) Len() int { return r.N }

// Available returns the number of bytes available for reading.
func (r *BytesReader) Available() int {
	return max(len(r.B)-r.N, 0)
}
