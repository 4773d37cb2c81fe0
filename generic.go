package nbt

import "io"

// UnmarshalBinaryGeneric decodes data with v's ReadFrom and requires any
// bytes the decoder left behind to be zero padding.
func UnmarshalBinaryGeneric[T io.ReaderFrom](v T, data []byte) error {
	r := NewBytesReader(data)
	if _, err := v.ReadFrom(r); err != nil {
		return err
	}
	return CheckBufferNotZeros(r.Remaining())
}

// MarshalToGeneric encodes v straight into p in a single pass. When the
// encoding does not fit, p holds a truncated prefix and the error is
// io.ErrShortWrite.
func MarshalToGeneric[T io.WriterTo](v T, p []byte) (int, error) {
	w := &BytesWriter{B: p}
	n, err := v.WriteTo(w)
	return int(n), err
}
