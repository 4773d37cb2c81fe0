package nbt

import (
	"fmt"
	"io"
)

// Decoder reads tag trees from a stream in one wire format.
//
// A Decoder may read past the end of a value when the source does not
// support single-byte reads; pass a *bufio.Reader or *bytes.Reader to keep
// the stream position exact. After an error the Decoder is unusable and
// every later call returns the same error.
type Decoder struct {
	r      *Reader
	format Format
	opts   Options
}

// NewDecoder returns a Decoder reading from r. A nil opts uses
// DefaultOptions.
func NewDecoder(r io.Reader, f Format, opts *Options) (*Decoder, error) {
	if f == nil {
		return nil, ErrNilFormat
	}
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	return &Decoder{r: reader, format: f, opts: optionsOrDefault(opts)}, nil
}

// Count returns the number of bytes consumed so far.
func (d *Decoder) Count() int64 { return d.r.Count() }

// Decode reads one root tag and its name. In a format without root names the
// name is always empty. A root End byte is returned as End without a name.
//
// Decode returns io.EOF only when the stream ends cleanly before the type
// byte; an end of stream anywhere later is ErrUnexpectedEOF. No partial tree
// is returned on failure.
func (d *Decoder) Decode() (string, Tag, error) {
	if err := d.r.Err(); err != nil {
		return "", nil, err
	}
	start := d.r.Count()
	d.r.budget(d.opts.MaxReadSize)

	b, err := d.r.ReadByte()
	if err != nil {
		if d.r.atEOF(start) {
			d.r.err = io.EOF
		}
		return "", nil, d.r.Err()
	}
	t, err := ParseType(b)
	if err != nil {
		d.r.SetError(err)
		return "", nil, err
	}
	if t == TypeEnd {
		return "", End{}, nil
	}

	var name string
	if d.format.NamedRoot() {
		name = d.format.ReadString(d.r, d.opts.MaxStringLength)
	}
	tag := d.readPayload(t, 0)
	if err := d.r.Err(); err != nil {
		return "", nil, err
	}
	return name, tag, nil
}

// DecodeValue reads a bare payload of type t, with neither type byte nor
// name.
func (d *Decoder) DecodeValue(t Type) (Tag, error) {
	if err := d.r.Err(); err != nil {
		return nil, err
	}
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTagType, t)
	}
	d.r.budget(d.opts.MaxReadSize)
	tag := d.readPayload(t, 0)
	if err := d.r.Err(); err != nil {
		return nil, err
	}
	return tag, nil
}

// readPayload reads the payload of a tag of type t nested inside depth
// containers. On error it returns nil and the error is latched in d.r.
func (d *Decoder) readPayload(t Type, depth int) Tag {
	r, f := d.r, d.format
	switch t {
	case TypeEnd:
		return End{}
	case TypeByte:
		b, _ := r.ReadByte()
		return Byte(int8(b))
	case TypeShort:
		return Short(f.ReadShort(r))
	case TypeInt:
		return Int(f.ReadInt(r))
	case TypeLong:
		return Long(f.ReadLong(r))
	case TypeFloat:
		return Float(f.ReadFloat(r))
	case TypeDouble:
		return Double(f.ReadDouble(r))
	case TypeString:
		s := f.ReadString(r, d.opts.MaxStringLength)
		if d.opts.InternStrings {
			s = d.opts.Intern.Intern(s)
		}
		return String(s)
	case TypeByteArray:
		n := d.readLength()
		return ByteArray{array[byte]{r.ReadBytes(n)}}
	case TypeIntArray:
		return IntArray{array[int32]{readElems(d, d.readLength(), f.ReadInt)}}
	case TypeLongArray:
		return LongArray{array[int64]{readElems(d, d.readLength(), f.ReadLong)}}
	case TypeList:
		if !d.enter(depth) {
			return nil
		}
		return d.readList(depth + 1)
	case TypeCompound:
		if !d.enter(depth) {
			return nil
		}
		return d.readCompound(depth + 1)
	}
	r.SetError(fmt.Errorf("%w: %s", ErrUnknownTagType, t))
	return nil
}

// enter checks, before consuming anything, that one more container fits
// within MaxDepth.
func (d *Decoder) enter(depth int) bool {
	if depth >= d.opts.MaxDepth {
		d.r.SetError(fmt.Errorf("%w: limit %d", ErrDepthExceeded, d.opts.MaxDepth))
		return false
	}
	return d.r.Err() == nil
}

// readLength reads a list or array length and checks it against
// MaxElements.
func (d *Decoder) readLength() int {
	n := d.format.ReadLength(d.r)
	if n > d.opts.MaxElements {
		d.r.SetError(fmt.Errorf("%w: %d elements, limit %d", ErrSizeLimitExceeded, n, d.opts.MaxElements))
		return 0
	}
	return n
}

func (d *Decoder) readType() (Type, bool) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, false
	}
	t, err := ParseType(b)
	if err != nil {
		d.r.SetError(err)
		return 0, false
	}
	return t, true
}

func (d *Decoder) readList(depth int) Tag {
	elem, ok := d.readType()
	if !ok {
		return nil
	}
	n := d.readLength()
	if d.r.Err() != nil {
		return nil
	}
	if elem == TypeEnd && n > 0 {
		d.r.SetError(fmt.Errorf("%w: list of End with %d elements", ErrTypeMismatch, n))
		return nil
	}
	items := make([]Tag, 0, min(n, chunkSize))
	for range n {
		item := d.readPayload(elem, depth)
		if d.r.Err() != nil {
			return nil
		}
		items = append(items, item)
	}
	return List{elem: elem, items: items}
}

func (d *Decoder) readCompound(depth int) Tag {
	b := NewCompoundBuilder()
	for {
		t, ok := d.readType()
		if !ok {
			return nil
		}
		if t == TypeEnd {
			return b.Build()
		}
		if b.Len() >= d.opts.MaxElements {
			d.r.SetError(fmt.Errorf("%w: compound over %d entries", ErrSizeLimitExceeded, d.opts.MaxElements))
			return nil
		}
		key := d.format.ReadString(d.r, d.opts.MaxStringLength)
		if d.opts.InternKeys {
			key = d.opts.Intern.Intern(key)
		}
		value := d.readPayload(t, depth)
		if d.r.Err() != nil {
			return nil
		}
		// A key repeated on the wire keeps its first position; the later
		// value wins.
		b.Put(key, value)
	}
}

// readElems reads n numbers, growing the result as the input proves it
// holds them.
func readElems[T int32 | int64](d *Decoder, n int, read func(*Reader) T) []T {
	if n == 0 || d.r.Err() != nil {
		return nil
	}
	out := make([]T, 0, min(n, chunkSize))
	for range n {
		v := read(d.r)
		if d.r.Err() != nil {
			return nil
		}
		out = append(out, v)
	}
	return out
}
