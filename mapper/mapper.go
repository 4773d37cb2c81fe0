// Package mapper converts between tag trees and statically typed Go values.
//
// Conversions go through adapters registered per Go type. A type without a
// registered adapter is handled by the built-in adapters for its kind
// (numbers, strings, slices, arrays, maps and pointers) and, for structs, by
// a reflection adapter driven by `nbt` struct tags. Types with hand-written
// layouts register an adapter built with Object.
package mapper

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/oy3o/nbt"
)

var (
	// ErrNilValue indicates a nil value passed to Marshal.
	ErrNilValue = errors.New("nbt: cannot map nil value")

	// ErrInvalidTarget indicates an Unmarshal target that is not a non-nil
	// pointer.
	ErrInvalidTarget = errors.New("nbt: unmarshal target must be a non-nil pointer")

	// ErrInvalidValue indicates a tag of the right type holding a value the
	// adapter cannot represent, such as an unknown enum name.
	ErrInvalidValue = errors.New("nbt: invalid value")
)

// FieldError locates a mapping failure inside a composite value. Path joins
// field names with dots and list positions with brackets, e.g.
// "inventory[2].count". Err matches the nbt sentinel errors under errors.Is.
type FieldError struct {
	Path string
	Err  error
}

func (e *FieldError) Error() string { return fmt.Sprintf("field %q: %v", e.Path, e.Err) }
func (e *FieldError) Unwrap() error { return e.Err }

// atField prefixes the path of err with a field name.
func atField(name string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		sep := "."
		if strings.HasPrefix(fe.Path, "[") {
			sep = ""
		}
		return &FieldError{Path: name + sep + fe.Path, Err: fe.Err}
	}
	return &FieldError{Path: name, Err: err}
}

// atIndex prefixes the path of err with a list position.
func atIndex(i int, err error) error {
	if err == nil {
		return nil
	}
	idx := fmt.Sprintf("[%d]", i)
	var fe *FieldError
	if errors.As(err, &fe) {
		if !strings.HasPrefix(fe.Path, "[") {
			idx += "."
		}
		return &FieldError{Path: idx + fe.Path, Err: fe.Err}
	}
	return &FieldError{Path: idx, Err: err}
}

// expect fails with ErrTypeMismatch unless t has type want.
func expect(want nbt.Type, t nbt.Tag) error {
	if t == nil {
		return fmt.Errorf("%w: want %s, got nil", nbt.ErrTypeMismatch, want)
	}
	if t.Type() != want {
		return fmt.Errorf("%w: want %s, got %s", nbt.ErrTypeMismatch, want, t.Type())
	}
	return nil
}

// OmitMode selects when fields holding their default value are left out of
// the encoded compound.
type OmitMode int

const (
	// OmitPerField omits only fields declared with OmitDefault or the
	// omitempty struct tag option.
	OmitPerField OmitMode = iota
	// OmitNever writes every field.
	OmitNever
	// OmitAlways omits every field equal to its default.
	OmitAlways
)

func (o OmitMode) String() string {
	switch o {
	case OmitPerField:
		return "per-field"
	case OmitNever:
		return "never"
	case OmitAlways:
		return "always"
	}
	return fmt.Sprintf("OmitMode(%d)", int(o))
}

// UnmarshalText parses the names returned by String, so OmitMode can be set
// from YAML or flags.
func (o *OmitMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "per-field", "":
		*o = OmitPerField
	case "never":
		*o = OmitNever
	case "always":
		*o = OmitAlways
	default:
		return fmt.Errorf("nbt: unknown omit mode %q", text)
	}
	return nil
}

// Options configures a Mapper.
type Options struct {
	// Strict rejects compound entries that match no declared field.
	Strict bool `yaml:"strict"`
	// Omit controls default omission on encode.
	Omit OmitMode `yaml:"omit"`
}

// Mapper converts values using the adapters of a Registry. A Mapper is
// immutable and safe for concurrent use.
type Mapper struct {
	reg  *Registry
	opts Options
}

var defaultMapper = New(nil, Options{})

// New returns a Mapper over reg. A nil reg uses the shared default
// registry.
func New(reg *Registry, opts Options) *Mapper {
	if reg == nil {
		reg = defaultRegistry
	}
	return &Mapper{reg: reg, opts: opts}
}

// DefaultMapper returns the mapper over the default registry with default
// options.
func DefaultMapper() *Mapper { return defaultMapper }

func (m *Mapper) Registry() *Registry { return m.reg }
func (m *Mapper) Options() Options    { return m.opts }

func (m *Mapper) omit(field bool) bool {
	switch m.opts.Omit {
	case OmitNever:
		return false
	case OmitAlways:
		return true
	}
	return field
}

// Marshal converts v to a tag.
func (m *Mapper) Marshal(v any) (nbt.Tag, error) {
	if v == nil {
		return nil, ErrNilValue
	}
	rv := reflect.ValueOf(v)
	c, err := m.reg.lookup(rv.Type())
	if err != nil {
		return nil, err
	}
	return c.toTag(m, rv)
}

// Unmarshal converts t into the value v points to.
func (m *Mapper) Unmarshal(t nbt.Tag, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w, got %T", ErrInvalidTarget, v)
	}
	c, err := m.reg.lookup(rv.Type().Elem())
	if err != nil {
		return err
	}
	return c.fromTag(m, t, rv.Elem())
}

// Serialize converts v to a tag with the adapter resolved for T. A nil m
// uses DefaultMapper.
func Serialize[T any](m *Mapper, v T) (nbt.Tag, error) {
	if m == nil {
		m = defaultMapper
	}
	rv := reflect.ValueOf(&v).Elem()
	c, err := m.reg.lookup(rv.Type())
	if err != nil {
		return nil, err
	}
	return c.toTag(m, rv)
}

// Deserialize converts t to a new T. A nil m uses DefaultMapper.
func Deserialize[T any](m *Mapper, t nbt.Tag) (T, error) {
	if m == nil {
		m = defaultMapper
	}
	var v T
	rv := reflect.ValueOf(&v).Elem()
	c, err := m.reg.lookup(rv.Type())
	if err != nil {
		return v, err
	}
	if err := c.fromTag(m, t, rv); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Marshal converts v with the default mapper.
func Marshal(v any) (nbt.Tag, error) { return defaultMapper.Marshal(v) }

// Unmarshal converts t into v with the default mapper.
func Unmarshal(t nbt.Tag, v any) error { return defaultMapper.Unmarshal(t, v) }
