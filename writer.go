package nbt

import (
	"bufio"
	"io"
)

type sink interface {
	io.Writer
	io.ByteWriter
	io.StringWriter
}

// Writer is the byte-level sink the encoder and the format descriptors write
// to. It tracks the first error that occurs; after an error, all subsequent
// writes become no-ops.
type Writer struct {
	w     sink
	buf   *bufio.Writer // set when the Writer owns a buffer it must flush
	count int64         // total bytes written
	err   error         // first error encountered
}

// NewWriterSize creates a new Writer. Sinks that already accept single bytes
// cheaply (*bufio.Writer, *bytes.Buffer, *BytesWriter, *Writer) are written to
// directly and flushing them stays the caller's job; anything else is wrapped
// in a bufio.Writer of the given size that Result flushes.
func NewWriterSize(w io.Writer, size int) (*Writer, error) {
	if w == nil {
		return nil, ErrNilIO
	}
	switch bw := w.(type) {
	case *Writer:
		return &Writer{w: bw.w}, nil
	case sink:
		return &Writer{w: bw}, nil
	}
	buf := bufio.NewWriterSize(w, size)
	return &Writer{w: buf, buf: buf}, nil
}

// NewWriter creates a new Writer with the default buffer size.
func NewWriter(w io.Writer) (*Writer, error) {
	return NewWriterSize(w, BUFFER_SIZE)
}

// Write implements the io.Writer interface.
func (w *Writer) Write(p []byte) (int, error) {
	if len(p) == 0 || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(p)
	w.count += int64(n)
	w.SetError(err)
	return n, w.err
}

// WriteString implements the io.StringWriter interface.
func (w *Writer) WriteString(s string) (int, error) {
	if s == "" || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.WriteString(s)
	w.count += int64(n)
	w.SetError(err)
	return n, w.err
}

// WriteByte implements the io.ByteWriter interface.
func (w *Writer) WriteByte(v byte) error {
	if w.err != nil {
		return w.err
	}
	if err := w.w.WriteByte(v); err != nil {
		w.SetError(err)
		return err
	}
	w.count++
	return nil
}

func (w *Writer) Count() int64 { return w.count }
func (w *Writer) Err() error   { return w.err }

// SetError records err if no error has been recorded yet.
// This preserves the root cause of a failure chain instead of a later,
// less relevant error.
func (w *Writer) SetError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Flush writes any buffered data to the underlying io.Writer. It only flushes
// a buffer the Writer created itself.
func (w *Writer) Flush() error {
	if w.buf == nil || w.err != nil {
		return w.err
	}
	w.SetError(w.buf.Flush())
	return w.err
}

// Result flushes the buffer and returns the final count and error state.
func (w *Writer) Result() (int64, error) {
	w.Flush()
	return w.count, w.err
}

// discard counts bytes without storing them. Document.Size encodes into it.
type discard struct{}

func (discard) Write(p []byte) (int, error)       { return len(p), nil }
func (discard) WriteString(s string) (int, error) { return len(s), nil }
func (discard) WriteByte(byte) error              { return nil }
