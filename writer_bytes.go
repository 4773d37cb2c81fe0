package nbt

import "io"

// BytesWriter is a sink over a caller-owned slice that never grows. A write
// that does not fit stores what it can and fails with io.ErrShortWrite; the
// Writer wrapping it latches that error and stops.
type BytesWriter struct {
	B []byte // destination
	N int    // bytes written so far
}

// NewBytesWriter returns a BytesWriter over the full capacity of p.
func NewBytesWriter(p []byte) *BytesWriter {
	return &BytesWriter{B: p[:cap(p)]}
}

func (w *BytesWriter) Write(p []byte) (int, error)       { return put(w, p) }
func (w *BytesWriter) WriteString(s string) (int, error) { return put(w, s) }

func put[S []byte | string](w *BytesWriter, src S) (int, error) {
	n := copy(w.B[w.N:], src)
	w.N += n
	if n < len(src) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// WriteByte implements the io.ByteWriter interface.
func (w *BytesWriter) WriteByte(c byte) error {
	if w.N == len(w.B) {
		return io.ErrShortWrite
	}
	w.B[w.N] = c
	w.N++
	return nil
}

// Reset discards what was written and keeps the slice.
func (w *BytesWriter) Reset() { w.N = 0 }

// Len returns the number of bytes written.
func (w *BytesWriter) Len() int { return w.N }

// Available returns the room left in the slice.
func (w *BytesWriter) Available() int { return len(w.B) - w.N }

// Bytes returns the written prefix of the slice.
func (w *BytesWriter) Bytes() []byte { return w.B[:w.N] }
