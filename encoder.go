package nbt

import (
	"fmt"
	"io"
)

// Encoder writes tag trees to a stream in one wire format. The limits in
// Options apply on the write side too, so an Encoder never produces a
// document its Decoder counterpart would reject.
type Encoder struct {
	w      *Writer
	format Format
	opts   Options
}

// NewEncoder returns an Encoder writing to w. A nil opts uses
// DefaultOptions.
func NewEncoder(w io.Writer, f Format, opts *Options) (*Encoder, error) {
	if f == nil {
		return nil, ErrNilFormat
	}
	writer, err := NewWriter(w)
	if err != nil {
		return nil, err
	}
	return &Encoder{w: writer, format: f, opts: optionsOrDefault(opts)}, nil
}

// Count returns the number of bytes written so far.
func (e *Encoder) Count() int64 { return e.w.Count() }

// Encode writes t as a root tag. The name is written only in formats with
// named roots and is ignored otherwise. An End root is written as its type
// byte alone.
func (e *Encoder) Encode(name string, t Tag) error {
	if err := e.w.Err(); err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("%w: nil root tag", ErrTypeMismatch)
	}
	e.w.WriteByte(byte(t.Type()))
	if t.Type() != TypeEnd && e.format.NamedRoot() {
		e.format.WriteString(e.w, name, e.opts.MaxStringLength)
	}
	e.writePayload(t, 0)
	return e.w.Flush()
}

// EncodeValue writes the bare payload of t, with neither type byte nor
// name.
func (e *Encoder) EncodeValue(t Tag) error {
	if err := e.w.Err(); err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("%w: nil tag", ErrTypeMismatch)
	}
	e.writePayload(t, 0)
	return e.w.Flush()
}

func (e *Encoder) writePayload(t Tag, depth int) {
	w, f := e.w, e.format
	switch v := t.(type) {
	case End:
	case Byte:
		w.WriteByte(byte(v))
	case Short:
		f.WriteShort(w, int16(v))
	case Int:
		f.WriteInt(w, int32(v))
	case Long:
		f.WriteLong(w, int64(v))
	case Float:
		f.WriteFloat(w, float32(v))
	case Double:
		f.WriteDouble(w, float64(v))
	case String:
		f.WriteString(w, string(v), e.opts.MaxStringLength)
	case ByteArray:
		if e.writeLength(len(v.v)) {
			w.Write(v.v)
		}
	case IntArray:
		if e.writeLength(len(v.v)) {
			for _, x := range v.v {
				f.WriteInt(w, x)
			}
		}
	case LongArray:
		if e.writeLength(len(v.v)) {
			for _, x := range v.v {
				f.WriteLong(w, x)
			}
		}
	case List:
		if !e.enter(depth) {
			return
		}
		w.WriteByte(byte(v.elem))
		if !e.writeLength(len(v.items)) {
			return
		}
		for _, item := range v.items {
			if w.Err() != nil {
				return
			}
			e.writePayload(item, depth+1)
		}
	case Compound:
		if !e.enter(depth) {
			return
		}
		if len(v.keys) > e.opts.MaxElements {
			w.SetError(fmt.Errorf("%w: compound of %d entries, limit %d", ErrSizeLimitExceeded, len(v.keys), e.opts.MaxElements))
			return
		}
		for i, key := range v.keys {
			if w.Err() != nil {
				return
			}
			value := v.values[i]
			if value.Type() == TypeEnd {
				w.SetError(fmt.Errorf("%w: End stored under key %q", ErrTypeMismatch, key))
				return
			}
			w.WriteByte(byte(value.Type()))
			f.WriteString(w, key, e.opts.MaxStringLength)
			e.writePayload(value, depth+1)
		}
		w.WriteByte(byte(TypeEnd))
	default:
		w.SetError(fmt.Errorf("%w: %T", ErrUnknownTagType, t))
	}
}

func (e *Encoder) enter(depth int) bool {
	if depth >= e.opts.MaxDepth {
		e.w.SetError(fmt.Errorf("%w: limit %d", ErrDepthExceeded, e.opts.MaxDepth))
		return false
	}
	return e.w.Err() == nil
}

func (e *Encoder) writeLength(n int) bool {
	if n > e.opts.MaxElements {
		e.w.SetError(fmt.Errorf("%w: %d elements, limit %d", ErrSizeLimitExceeded, n, e.opts.MaxElements))
		return false
	}
	e.format.WriteLength(e.w, n)
	return e.w.Err() == nil
}
