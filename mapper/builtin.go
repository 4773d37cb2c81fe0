package mapper

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"

	"github.com/oy3o/nbt"
)

// Booleans are stored as Byte 0 or 1; any non-zero Byte decodes as true.
type boolCodec struct{}

func (boolCodec) tagType() nbt.Type { return nbt.TypeByte }

func (boolCodec) toTag(_ *Mapper, v reflect.Value) (nbt.Tag, error) {
	return nbt.Bool(v.Bool()), nil
}

func (boolCodec) fromTag(_ *Mapper, t nbt.Tag, dst reflect.Value) error {
	if err := expect(nbt.TypeByte, t); err != nil {
		return err
	}
	dst.SetBool(t.(nbt.Byte) != 0)
	return nil
}

// intCodec maps a signed Go integer to the integer tag of the same width.
// Go int is always stored as Long.
type intCodec struct{ tt nbt.Type }

func (c intCodec) tagType() nbt.Type { return c.tt }

func (c intCodec) toTag(_ *Mapper, v reflect.Value) (nbt.Tag, error) {
	return intTag(c.tt, v.Int()), nil
}

func (c intCodec) fromTag(_ *Mapper, t nbt.Tag, dst reflect.Value) error {
	if err := expect(c.tt, t); err != nil {
		return err
	}
	x := tagInt(t)
	if dst.OverflowInt(x) {
		return fmt.Errorf("%w: %d overflows %s", ErrInvalidValue, x, dst.Type())
	}
	dst.SetInt(x)
	return nil
}

// uintCodec stores an unsigned Go integer in the signed tag of the same
// width by reinterpreting its bits, so 255 as uint8 becomes Byte -1.
type uintCodec struct{ tt nbt.Type }

func (c uintCodec) tagType() nbt.Type { return c.tt }

func (c uintCodec) toTag(_ *Mapper, v reflect.Value) (nbt.Tag, error) {
	return intTag(c.tt, int64(v.Uint())), nil
}

func (c uintCodec) fromTag(_ *Mapper, t nbt.Tag, dst reflect.Value) error {
	if err := expect(c.tt, t); err != nil {
		return err
	}
	var x uint64
	switch v := t.(type) {
	case nbt.Byte:
		x = uint64(uint8(v))
	case nbt.Short:
		x = uint64(uint16(v))
	case nbt.Int:
		x = uint64(uint32(v))
	case nbt.Long:
		x = uint64(v)
	}
	if dst.OverflowUint(x) {
		return fmt.Errorf("%w: %d overflows %s", ErrInvalidValue, x, dst.Type())
	}
	dst.SetUint(x)
	return nil
}

// intTag truncates x to the width of tt.
func intTag(tt nbt.Type, x int64) nbt.Tag {
	switch tt {
	case nbt.TypeByte:
		return nbt.Byte(int8(x))
	case nbt.TypeShort:
		return nbt.Short(int16(x))
	case nbt.TypeInt:
		return nbt.Int(int32(x))
	}
	return nbt.Long(x)
}

func tagInt(t nbt.Tag) int64 {
	switch v := t.(type) {
	case nbt.Byte:
		return int64(v)
	case nbt.Short:
		return int64(v)
	case nbt.Int:
		return int64(v)
	case nbt.Long:
		return int64(v)
	}
	return 0
}

type floatCodec struct{ tt nbt.Type }

func (c floatCodec) tagType() nbt.Type { return c.tt }

func (c floatCodec) toTag(_ *Mapper, v reflect.Value) (nbt.Tag, error) {
	if c.tt == nbt.TypeFloat {
		return nbt.Float(float32(v.Float())), nil
	}
	return nbt.Double(v.Float()), nil
}

func (c floatCodec) fromTag(_ *Mapper, t nbt.Tag, dst reflect.Value) error {
	if err := expect(c.tt, t); err != nil {
		return err
	}
	switch v := t.(type) {
	case nbt.Float:
		dst.SetFloat(float64(v))
	case nbt.Double:
		dst.SetFloat(float64(v))
	}
	return nil
}

type stringCodec struct{}

func (stringCodec) tagType() nbt.Type { return nbt.TypeString }

func (stringCodec) toTag(_ *Mapper, v reflect.Value) (nbt.Tag, error) {
	return nbt.String(v.String()), nil
}

func (stringCodec) fromTag(_ *Mapper, t nbt.Tag, dst reflect.Value) error {
	if err := expect(nbt.TypeString, t); err != nil {
		return err
	}
	dst.SetString(string(t.(nbt.String)))
	return nil
}

// numericArray reports which array tag stores a sequence of elem.
func numericArray(elem reflect.Kind) (nbt.Type, bool) {
	switch elem {
	case reflect.Uint8, reflect.Int8:
		return nbt.TypeByteArray, true
	case reflect.Int32, reflect.Uint32:
		return nbt.TypeIntArray, true
	case reflect.Int64, reflect.Uint64:
		return nbt.TypeLongArray, true
	}
	return 0, false
}

// arrayCodec maps slices and Go arrays of 8, 32 and 64-bit integers to the
// matching array tag. An empty tag decodes to a nil slice.
type arrayCodec struct {
	tt  nbt.Type
	typ reflect.Type
}

func (c arrayCodec) tagType() nbt.Type { return c.tt }

func (c arrayCodec) toTag(_ *Mapper, v reflect.Value) (nbt.Tag, error) {
	n := v.Len()
	switch c.tt {
	case nbt.TypeByteArray:
		if c.typ == reflect.TypeFor[[]byte]() {
			return nbt.NewByteArray(v.Bytes()), nil
		}
		out := make([]byte, n)
		for i := range n {
			out[i] = byte(elemBits(v.Index(i)))
		}
		return nbt.NewByteArray(out), nil
	case nbt.TypeIntArray:
		out := make([]int32, n)
		for i := range n {
			out[i] = int32(elemBits(v.Index(i)))
		}
		return nbt.NewIntArray(out), nil
	default:
		out := make([]int64, n)
		for i := range n {
			out[i] = elemBits(v.Index(i))
		}
		return nbt.NewLongArray(out), nil
	}
}

func (c arrayCodec) fromTag(_ *Mapper, t nbt.Tag, dst reflect.Value) error {
	if err := expect(c.tt, t); err != nil {
		return err
	}
	var n int
	var at func(i int) int64
	switch v := t.(type) {
	case nbt.ByteArray:
		if c.typ == reflect.TypeFor[[]byte]() {
			if v.Len() == 0 {
				dst.SetZero()
			} else {
				dst.SetBytes(v.Bytes())
			}
			return nil
		}
		n, at = v.Len(), func(i int) int64 { return int64(int8(v.At(i))) }
	case nbt.IntArray:
		n, at = v.Len(), func(i int) int64 { return int64(v.At(i)) }
	case nbt.LongArray:
		n, at = v.Len(), func(i int) int64 { return v.At(i) }
	}
	seq, err := sized(dst, c.typ, n)
	if err != nil || n == 0 {
		return err
	}
	for i := range n {
		setBits(seq.Index(i), at(i))
	}
	return nil
}

// elemBits returns the bits of an integer element sign-extended to 64.
func elemBits(v reflect.Value) int64 {
	if v.CanInt() {
		return v.Int()
	}
	return int64(v.Uint())
}

// setBits stores x, truncated to the element width.
func setBits(dst reflect.Value, x int64) {
	if dst.CanInt() {
		dst.SetInt(x)
		return
	}
	dst.SetUint(uint64(x))
}

// sized prepares dst to receive n elements. Slices are replaced by a new
// slice, nil when n is zero; Go arrays are zeroed and must be long enough.
func sized(dst reflect.Value, typ reflect.Type, n int) (reflect.Value, error) {
	if typ.Kind() == reflect.Array {
		if n > typ.Len() {
			return dst, fmt.Errorf("%w: %d elements do not fit %s", ErrInvalidValue, n, typ)
		}
		dst.SetZero()
		return dst, nil
	}
	if n == 0 {
		dst.SetZero()
		return dst, nil
	}
	dst.Set(reflect.MakeSlice(typ, n, n))
	return dst, nil
}

// listCodec maps any other slice or Go array to a List.
type listCodec struct {
	elem codec
	typ  reflect.Type
}

func (c listCodec) tagType() nbt.Type { return nbt.TypeList }

func (c listCodec) toTag(m *Mapper, v reflect.Value) (nbt.Tag, error) {
	n := v.Len()
	items := make([]nbt.Tag, n)
	for i := range n {
		t, err := c.elem.toTag(m, v.Index(i))
		if err != nil {
			return nil, atIndex(i, err)
		}
		items[i] = t
	}
	l, err := nbt.NewList(c.elem.tagType(), items...)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (c listCodec) fromTag(m *Mapper, t nbt.Tag, dst reflect.Value) error {
	if err := expect(nbt.TypeList, t); err != nil {
		return err
	}
	l := t.(nbt.List)
	if want := c.elem.tagType(); l.Len() > 0 && want != nbt.TypeEnd && l.Elem() != want {
		return fmt.Errorf("%w: want list of %s, got list of %s", nbt.ErrTypeMismatch, want, l.Elem())
	}
	seq, err := sized(dst, c.typ, l.Len())
	if err != nil {
		return err
	}
	for i, item := range l.All() {
		if err := c.elem.fromTag(m, item, seq.Index(i)); err != nil {
			return atIndex(i, err)
		}
	}
	return nil
}

// mapCodec maps string-keyed maps to compounds. Entries are written in key
// order so that encoding is deterministic.
type mapCodec struct {
	elem codec
	typ  reflect.Type
}

func (c mapCodec) tagType() nbt.Type { return nbt.TypeCompound }

func (c mapCodec) toTag(m *Mapper, v reflect.Value) (nbt.Tag, error) {
	keys := v.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) })
	b := nbt.NewCompoundBuilder()
	for _, k := range keys {
		t, err := c.elem.toTag(m, v.MapIndex(k))
		if err != nil {
			return nil, atField(k.String(), err)
		}
		b.Put(k.String(), t)
	}
	return b.Build(), nil
}

func (c mapCodec) fromTag(m *Mapper, t nbt.Tag, dst reflect.Value) error {
	if err := expect(nbt.TypeCompound, t); err != nil {
		return err
	}
	comp := t.(nbt.Compound)
	out := reflect.MakeMapWithSize(c.typ, comp.Len())
	for key, item := range comp.All() {
		ev := reflect.New(c.typ.Elem()).Elem()
		if err := c.elem.fromTag(m, item, ev); err != nil {
			return atField(key, err)
		}
		out.SetMapIndex(reflect.ValueOf(key).Convert(c.typ.Key()), ev)
	}
	dst.Set(out)
	return nil
}

// ptrCodec encodes the pointee. A nil pointer cannot be encoded on its own;
// inside a struct it is left out instead.
type ptrCodec struct {
	elem codec
	typ  reflect.Type
}

func (c ptrCodec) tagType() nbt.Type { return c.elem.tagType() }

func (c ptrCodec) toTag(m *Mapper, v reflect.Value) (nbt.Tag, error) {
	if v.IsNil() {
		return nil, fmt.Errorf("%w: nil %s", ErrNilValue, c.typ)
	}
	return c.elem.toTag(m, v.Elem())
}

func (c ptrCodec) fromTag(m *Mapper, t nbt.Tag, dst reflect.Value) error {
	if dst.IsNil() {
		dst.Set(reflect.New(c.typ.Elem()))
	}
	return c.elem.fromTag(m, t, dst.Elem())
}
