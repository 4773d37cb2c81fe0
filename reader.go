package nbt

import (
	"bufio"
	"fmt"
	"io"
)

// chunkSize bounds a single allocation when reading a length-prefixed byte
// run, so a forged length cannot force a large allocation before the stream
// proves it actually holds that many bytes.
const chunkSize = 64 * 1024

type byteReader interface {
	io.Reader
	io.ByteReader
}

// Reader is the byte-level source the decoder and the format descriptors
// read from. It tracks the first error: once an operation fails, subsequent
// reads become no-ops returning zero values, and Err reports the failure.
//
// An end of stream inside a value is reported as ErrUnexpectedEOF.
type Reader struct {
	r     byteReader
	count int64 // total bytes read
	limit int64 // read budget, 0 when unlimited
	err   error // first error encountered
	eof   bool  // err came from a clean end of stream
	tmp   [8]byte
}

// NewReaderSize returns a Reader over r. Sources that already read bytewise
// (*bufio.Reader, *bytes.Reader, *bytes.Buffer, *BytesReader, *Reader) are used
// directly; anything else is wrapped in a bufio.Reader of the given size,
// which may read ahead of the decoded value.
func NewReaderSize(r io.Reader, size int) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}
	switch reader := r.(type) {
	case *Reader:
		return &Reader{r: reader.r}, nil
	case byteReader:
		return &Reader{r: reader}, nil
	}
	return &Reader{r: bufio.NewReaderSize(r, size)}, nil
}

// NewReader returns a Reader with the default buffer size.
func NewReader(r io.Reader) (*Reader, error) {
	return NewReaderSize(r, BUFFER_SIZE)
}

func (r *Reader) Count() int64 { return r.count }
func (r *Reader) Err() error   { return r.err }

// SetError records err if no error has been recorded yet. Format
// descriptors use it to report malformed input.
func (r *Reader) SetError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Result returns the total bytes read and the final error state.
func (r *Reader) Result() (int64, error) {
	return r.count, r.err
}

// budget limits the reader to n more bytes. n <= 0 removes the limit.
func (r *Reader) budget(n int64) {
	if n <= 0 {
		r.limit = 0
		return
	}
	r.limit = r.count + n
}

// charge reserves n bytes against the read budget.
func (r *Reader) charge(n int) bool {
	if r.err != nil {
		return false
	}
	if r.limit > 0 && r.count+int64(n) > r.limit {
		r.err = fmt.Errorf("%w: limit %d bytes", ErrReadSizeExceeded, r.limit)
		return false
	}
	return true
}

func (r *Reader) fail(err error) {
	if err == io.EOF {
		r.eof = true
		err = ErrUnexpectedEOF
	}
	r.SetError(err)
}

// Read implements the io.Reader interface.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := r.r.Read(p)
	r.count += int64(n)
	if err != nil && err != io.EOF {
		r.SetError(err)
	}
	return n, err
}

// ReadByte implements the io.ByteReader interface.
func (r *Reader) ReadByte() (byte, error) {
	if !r.charge(1) {
		return 0, r.err
	}
	b, err := r.r.ReadByte()
	if err != nil {
		r.fail(err)
		return 0, r.err
	}
	r.count++
	return b, nil
}

// ReadFull fills p entirely.
func (r *Reader) ReadFull(p []byte) {
	if len(p) == 0 || !r.charge(len(p)) {
		return
	}
	n, err := io.ReadFull(r.r, p)
	r.count += int64(n)
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		r.fail(err)
	}
}

// ReadFixed reads n <= 8 bytes into a scratch buffer owned by the reader.
// The returned slice is only valid until the next call.
func (r *Reader) ReadFixed(n int) []byte {
	b := r.tmp[:n]
	r.ReadFull(b)
	if r.err != nil {
		clear(b)
	}
	return b
}

// ReadBytes reads n bytes into a new slice, growing it in bounded chunks.
func (r *Reader) ReadBytes(n int) []byte {
	if n <= 0 || r.err != nil {
		return nil
	}
	buf := make([]byte, 0, min(n, chunkSize))
	for len(buf) < n && r.err == nil {
		step := min(n-len(buf), chunkSize)
		buf = append(buf, make([]byte, step)...)
		r.ReadFull(buf[len(buf)-step:])
	}
	if r.err != nil {
		return nil
	}
	return buf
}

// atEOF reports whether the reader stopped on a clean end of stream with
// no byte consumed since start.
func (r *Reader) atEOF(start int64) bool {
	return r.eof && r.count == start
}
