package nbt

import "fmt"

// BUFFER_SIZE is the default bufio size used when a Reader or Writer has to
// add its own buffering layer.
const BUFFER_SIZE = 4096

// MAX_PADDING defines the maximum number of trailing bytes to check.
// Anything larger after the root tag is considered a protocol error.
const MAX_PADDING = 1024 // 1KB

// Ptr returns a pointer to a copy of v, for filling optional pointer fields.
func Ptr[T any](v T) *T { return &v }

// CheckBufferNotZeros verifies that the bytes left after a decoded value are
// all zero padding. Producers that write into fixed-size buffers pad with
// zeros; anything else indicates a truncated parse or a malicious payload.
func CheckBufferNotZeros(trailing []byte) error {
	if len(trailing) > MAX_PADDING {
		return fmt.Errorf("%w: %d bytes exceeds maximum expected padding of %d bytes", ErrTrailingData, len(trailing), MAX_PADDING)
	}
	for i, b := range trailing {
		if b != 0 {
			return fmt.Errorf("%w: found non-zero byte 0x%02x at offset %d", ErrTrailingData, b, i)
		}
	}
	return nil
}
