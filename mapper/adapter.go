package mapper

import (
	"fmt"
	"reflect"

	"github.com/oy3o/nbt"
)

// Adapter converts between values of one Go type and tags of one tag type.
// Adapters receive the calling Mapper so that composite adapters can
// convert their members through it.
type Adapter[T any] interface {
	// TagType is the tag type ToTag produces. It types empty lists of T.
	TagType() nbt.Type
	ToTag(m *Mapper, v T) (nbt.Tag, error)
	FromTag(m *Mapper, t nbt.Tag) (T, error)
}

// codec is the type-erased form every adapter is stored as.
type codec interface {
	tagType() nbt.Type
	toTag(m *Mapper, v reflect.Value) (nbt.Tag, error)
	// fromTag stores the converted tag into dst, which is settable.
	fromTag(m *Mapper, t nbt.Tag, dst reflect.Value) error
}

// adapterCodec erases a typed Adapter.
type adapterCodec[T any] struct{ a Adapter[T] }

func (c adapterCodec[T]) tagType() nbt.Type { return c.a.TagType() }

func (c adapterCodec[T]) toTag(m *Mapper, v reflect.Value) (nbt.Tag, error) {
	return c.a.ToTag(m, v.Interface().(T))
}

func (c adapterCodec[T]) fromTag(m *Mapper, t nbt.Tag, dst reflect.Value) error {
	v, err := c.a.FromTag(m, t)
	if err != nil {
		return err
	}
	dst.Set(reflect.ValueOf(&v).Elem())
	return nil
}

type funcAdapter[T any] struct {
	typ  nbt.Type
	to   func(T) (nbt.Tag, error)
	from func(nbt.Tag) (T, error)
}

func (a funcAdapter[T]) TagType() nbt.Type                       { return a.typ }
func (a funcAdapter[T]) ToTag(_ *Mapper, v T) (nbt.Tag, error)   { return a.to(v) }
func (a funcAdapter[T]) FromTag(_ *Mapper, t nbt.Tag) (T, error) { return a.from(t) }

// Func builds an adapter from two conversion functions. FromTag is only
// called with tags of type typ; any other tag fails with ErrTypeMismatch
// before from runs.
func Func[T any](typ nbt.Type, to func(T) (nbt.Tag, error), from func(nbt.Tag) (T, error)) Adapter[T] {
	return funcAdapter[T]{
		typ: typ,
		to:  to,
		from: func(t nbt.Tag) (T, error) {
			if err := expect(typ, t); err != nil {
				var zero T
				return zero, err
			}
			return from(t)
		},
	}
}

// Enum maps the values of T to fixed names stored as String tags. Encoding
// or decoding a value outside names fails with ErrInvalidValue.
func Enum[T comparable](names map[T]string) Adapter[T] {
	values := make(map[string]T, len(names))
	for v, name := range names {
		if _, dup := values[name]; dup {
			panic(fmt.Sprintf("mapper: duplicate enum name %q", name))
		}
		values[name] = v
	}
	return Func(nbt.TypeString,
		func(v T) (nbt.Tag, error) {
			name, ok := names[v]
			if !ok {
				return nil, fmt.Errorf("%w: %v has no enum name", ErrInvalidValue, v)
			}
			return nbt.String(name), nil
		},
		func(t nbt.Tag) (T, error) {
			v, ok := values[string(t.(nbt.String))]
			if !ok {
				return v, fmt.Errorf("%w: unknown enum name %q", ErrInvalidValue, string(t.(nbt.String)))
			}
			return v, nil
		})
}

// tagCodec passes tags through unchanged. It serves every concrete tag type
// and any interface a tag can be stored in, such as nbt.Tag or any.
type tagCodec struct{ typ reflect.Type }

var tagInterface = reflect.TypeFor[nbt.Tag]()

func (c tagCodec) tagType() nbt.Type {
	if c.typ.Kind() == reflect.Interface {
		return nbt.TypeEnd
	}
	return reflect.Zero(c.typ).Interface().(nbt.Tag).Type()
}

func (c tagCodec) toTag(m *Mapper, v reflect.Value) (nbt.Tag, error) {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, ErrNilValue
		}
		v = v.Elem()
	}
	if t, ok := v.Interface().(nbt.Tag); ok {
		return t, nil
	}
	// A non-tag value stored in an interface such as any.
	inner, err := m.reg.lookup(v.Type())
	if err != nil {
		return nil, err
	}
	return inner.toTag(m, v)
}

func (c tagCodec) fromTag(_ *Mapper, t nbt.Tag, dst reflect.Value) error {
	if t == nil {
		return fmt.Errorf("%w: want %s, got nil", nbt.ErrTypeMismatch, c.typ)
	}
	tv := reflect.ValueOf(t)
	if !tv.Type().AssignableTo(c.typ) {
		return fmt.Errorf("%w: want %s, got %s", nbt.ErrTypeMismatch, c.describe(), t.Type())
	}
	dst.Set(tv)
	return nil
}

func (c tagCodec) describe() string {
	if c.typ.Kind() == reflect.Interface {
		return c.typ.String()
	}
	return c.tagType().String()
}
