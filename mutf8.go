package nbt

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// Modified UTF-8 differs from UTF-8 in two ways: U+0000 is written as the
// overlong pair C0 80, and characters outside the Basic Multilingual Plane
// are written as a UTF-16 surrogate pair, each half in three bytes.

// modifiedLen returns the encoded length of s in modified UTF-8.
func modifiedLen(s string) int {
	n := 0
	for _, c := range s {
		switch {
		case c == 0:
			n += 2
		case c < 0x80:
			n++
		case c < 0x800:
			n += 2
		case c < 0x10000:
			n += 3
		default:
			n += 6
		}
	}
	return n
}

// appendModifiedUTF8 encodes s. Invalid UTF-8 in s is encoded as U+FFFD.
func appendModifiedUTF8(dst []byte, s string) []byte {
	for _, c := range s {
		switch {
		case c == 0:
			dst = append(dst, 0xC0, 0x80)
		case c < 0x80:
			dst = append(dst, byte(c))
		case c < 0x800:
			dst = append(dst, 0xC0|byte(c>>6), 0x80|byte(c&0x3F))
		case c < 0x10000:
			dst = appendUnit(dst, uint16(c))
		default:
			hi, lo := utf16.EncodeRune(c)
			dst = appendUnit(appendUnit(dst, uint16(hi)), uint16(lo))
		}
	}
	return dst
}

func appendUnit(dst []byte, u uint16) []byte {
	return append(dst, 0xE0|byte(u>>12), 0x80|byte((u>>6)&0x3F), 0x80|byte(u&0x3F))
}

// decodeModifiedUTF8 decodes b. A raw zero byte is accepted as U+0000; an
// unpaired surrogate becomes U+FFFD. Truncated or invalid sequences fail with
// ErrMalformedString.
func decodeModifiedUTF8(b []byte) (string, error) {
	ascii := true
	for _, c := range b {
		if c >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b), nil
	}

	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c < 0x80:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return "", fmt.Errorf("%w: bad 2-byte sequence at offset %d", ErrMalformedString, i)
			}
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return "", fmt.Errorf("%w: bad 3-byte sequence at offset %d", ErrMalformedString, i)
			}
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			return "", fmt.Errorf("%w: invalid byte 0x%02x at offset %d", ErrMalformedString, c, i)
		}
	}

	out := make([]byte, 0, len(b))
	for _, r := range utf16.Decode(units) {
		out = utf8.AppendRune(out, r)
	}
	return string(out), nil
}
