package nbt

import (
	"math"
	"strconv"
)

// SNBT is the text notation used by Minecraft commands. Numbers carry a type
// suffix and arrays a type prefix; compound keys are quoted only when they
// contain characters outside [0-9A-Za-z_.+-].

func (End) String() string         { return "END" }
func (v Byte) String() string      { return string(appendSNBT(nil, v)) }
func (v Short) String() string     { return string(appendSNBT(nil, v)) }
func (v Int) String() string       { return string(appendSNBT(nil, v)) }
func (v Long) String() string      { return string(appendSNBT(nil, v)) }
func (v Float) String() string     { return string(appendSNBT(nil, v)) }
func (v Double) String() string    { return string(appendSNBT(nil, v)) }
func (v String) String() string    { return string(appendSNBT(nil, v)) }
func (a ByteArray) String() string { return string(appendSNBT(nil, a)) }
func (a IntArray) String() string  { return string(appendSNBT(nil, a)) }
func (a LongArray) String() string { return string(appendSNBT(nil, a)) }
func (l List) String() string      { return string(appendSNBT(nil, l)) }
func (c Compound) String() string  { return string(appendSNBT(nil, c)) }

// AppendSNBT appends the SNBT rendering of t to dst.
func AppendSNBT(dst []byte, t Tag) []byte {
	if t == nil {
		return append(dst, "null"...)
	}
	return appendSNBT(dst, t)
}

func appendSNBT(dst []byte, t Tag) []byte {
	switch v := t.(type) {
	case End:
		return append(dst, "END"...)
	case Byte:
		return append(strconv.AppendInt(dst, int64(v), 10), 'b')
	case Short:
		return append(strconv.AppendInt(dst, int64(v), 10), 's')
	case Int:
		return strconv.AppendInt(dst, int64(v), 10)
	case Long:
		return append(strconv.AppendInt(dst, int64(v), 10), 'L')
	case Float:
		return append(appendFloat(dst, float64(v), 32), 'f')
	case Double:
		return append(appendFloat(dst, float64(v), 64), 'd')
	case String:
		return appendQuoted(dst, string(v))
	case ByteArray:
		dst = append(dst, "[B;"...)
		for i, x := range v.v {
			dst = appendSep(dst, i)
			dst = append(strconv.AppendInt(dst, int64(int8(x)), 10), 'b')
		}
		return append(dst, ']')
	case IntArray:
		dst = append(dst, "[I;"...)
		for i, x := range v.v {
			dst = appendSep(dst, i)
			dst = strconv.AppendInt(dst, int64(x), 10)
		}
		return append(dst, ']')
	case LongArray:
		dst = append(dst, "[L;"...)
		for i, x := range v.v {
			dst = appendSep(dst, i)
			dst = append(strconv.AppendInt(dst, x, 10), 'L')
		}
		return append(dst, ']')
	case List:
		dst = append(dst, '[')
		for i, item := range v.items {
			if i > 0 {
				dst = append(dst, ", "...)
			}
			dst = appendSNBT(dst, item)
		}
		return append(dst, ']')
	case Compound:
		dst = append(dst, '{')
		for i, key := range v.keys {
			if i > 0 {
				dst = append(dst, ", "...)
			}
			if bareKey(key) {
				dst = append(dst, key...)
			} else {
				dst = appendQuoted(dst, key)
			}
			dst = append(dst, ": "...)
			dst = appendSNBT(dst, v.values[i])
		}
		return append(dst, '}')
	}
	return dst
}

// appendSep writes the separator before array element i; the first element
// follows the type prefix after a single space.
func appendSep(dst []byte, i int) []byte {
	if i > 0 {
		dst = append(dst, ',')
	}
	return append(dst, ' ')
}

func appendFloat(dst []byte, f float64, bits int) []byte {
	switch {
	case math.IsNaN(f):
		return append(dst, "NaN"...)
	case math.IsInf(f, 1):
		return append(dst, "Infinity"...)
	case math.IsInf(f, -1):
		return append(dst, "-Infinity"...)
	}
	return strconv.AppendFloat(dst, f, 'g', -1, bits)
}

const hexDigits = "0123456789abcdef"

// appendQuoted keeps the output on one line: control bytes are escaped as
// \n, \r, \t or \uXXXX.
func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			dst = append(dst, '\\', c)
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			if c < 0x20 || c == 0x7f {
				dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
				continue
			}
			dst = append(dst, c)
		}
	}
	return append(dst, '"')
}

func bareKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c == '_', c == '.', c == '+', c == '-':
		default:
			return false
		}
	}
	return true
}
