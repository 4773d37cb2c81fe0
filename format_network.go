package nbt

import (
	"fmt"
	"math"
)

// networkFormat keeps the little-endian fixed encoding for Short, Float and
// Double and switches Int, Long and every length to varints.
type networkFormat struct {
	fixedFormat
}

func (networkFormat) NamedRoot() bool { return false }

func (networkFormat) ReadInt(r *Reader) int32 {
	return unzigzag32(uint32(readUvarint(r, maxVarintLen32)))
}

func (networkFormat) ReadLong(r *Reader) int64 {
	return unzigzag64(readUvarint(r, maxVarintLen64))
}

func (networkFormat) ReadLength(r *Reader) int {
	n := uint32(readUvarint(r, maxVarintLen32))
	if n > math.MaxInt32 {
		r.SetError(fmt.Errorf("%w: length %d", ErrSizeLimitExceeded, n))
		return 0
	}
	return int(n)
}

func (f networkFormat) ReadString(r *Reader, max int) string {
	n := f.ReadLength(r)
	if r.Err() != nil {
		return ""
	}
	if n > max {
		r.SetError(fmt.Errorf("%w: string of %d bytes, limit %d", ErrSizeLimitExceeded, n, max))
		return ""
	}
	return string(r.ReadBytes(n))
}

func (networkFormat) WriteInt(w *Writer, v int32)  { writeUvarint(w, zigzag32(v)) }
func (networkFormat) WriteLong(w *Writer, v int64) { writeUvarint(w, zigzag64(v)) }

func (networkFormat) WriteLength(w *Writer, n int) {
	if n > math.MaxInt32 {
		w.SetError(fmt.Errorf("%w: length %d", ErrSizeLimitExceeded, n))
		return
	}
	writeUvarint(w, uint32(n))
}

func (f networkFormat) WriteString(w *Writer, s string, max int) {
	if len(s) > max {
		w.SetError(fmt.Errorf("%w: string of %d bytes, limit %d", ErrSizeLimitExceeded, len(s), max))
		return
	}
	f.WriteLength(w, len(s))
	w.WriteString(s)
}
