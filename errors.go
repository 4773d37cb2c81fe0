package nbt

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNilIO indicates that NewDecoder/NewEncoder was called with a nil io.Reader/io.Writer.
	ErrNilIO = errors.New("nbt: NewDecoder/NewEncoder called with a nil io.Reader/io.Writer")

	// ErrUnknownTagType indicates a type byte outside the range 0..12.
	ErrUnknownTagType = errors.New("nbt: unknown tag type")

	// ErrMalformedVarInt indicates a variable-length integer with more
	// continuation groups than its width allows.
	ErrMalformedVarInt = errors.New("nbt: malformed varint")

	// ErrMalformedString indicates string bytes that are not valid for the
	// format's text encoding.
	ErrMalformedString = errors.New("nbt: malformed string")

	// ErrDepthExceeded indicates a tree nested deeper than the configured maximum.
	ErrDepthExceeded = errors.New("nbt: maximum nesting depth exceeded")

	// ErrSizeLimitExceeded indicates a list, array or string length over the
	// configured bound, or a negative length on the wire.
	ErrSizeLimitExceeded = errors.New("nbt: size limit exceeded")

	// ErrReadSizeExceeded indicates that a single decode consumed more bytes
	// than Options.MaxReadSize. It matches ErrSizeLimitExceeded under errors.Is.
	ErrReadSizeExceeded = fmt.Errorf("%w: total read size", ErrSizeLimitExceeded)

	// ErrUnexpectedEOF indicates the stream ended in the middle of a tag.
	// It is io.ErrUnexpectedEOF so that callers testing for the standard
	// library value keep working.
	ErrUnexpectedEOF = io.ErrUnexpectedEOF

	// ErrTypeMismatch indicates a list element or mapped field whose tag type
	// disagrees with the declared or expected one.
	ErrTypeMismatch = errors.New("nbt: type mismatch")

	// ErrMissingField indicates a required field absent from a compound.
	ErrMissingField = errors.New("nbt: missing field")

	// ErrUnknownField indicates, in strict mode, a compound entry with no
	// declared field.
	ErrUnknownField = errors.New("nbt: unknown field")

	// ErrNoAdapter indicates that no adapter could be resolved for a Go type.
	ErrNoAdapter = errors.New("nbt: no adapter")

	// ErrTrailingData is returned by Unmarshal when non-zero bytes are found
	// after the root tag.
	ErrTrailingData = errors.New("nbt: non-zero trailing data found after decoding")
)

// mismatch builds an ErrTypeMismatch with both types named.
func mismatch(want, got Type) error {
	return fmt.Errorf("%w: want %s, got %s", ErrTypeMismatch, want, got)
}

// ErrNilFormat indicates that a Decoder, Encoder or Document was given no
// wire format.
var ErrNilFormat = errors.New("nbt: nil format")
