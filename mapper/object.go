package mapper

import (
	"fmt"
	"reflect"

	"github.com/oy3o/nbt"
)

// member is one declared field of a composite. V is the handle the field
// accessors work on: *T for typed objects, reflect.Value for structs
// mapped by reflection.
type member[V any] struct {
	name     string
	required bool
	omit     bool

	// encode returns the field tag and whether the field holds its default.
	// absent reports a field with nothing to write, such as a nil pointer.
	encode func(m *Mapper, v V) (t nbt.Tag, isDefault, absent bool, err error)
	decode func(m *Mapper, t nbt.Tag, v V) error
	// reset applies the declared default when the field is missing. Nil
	// leaves the field untouched.
	reset func(v V)
}

// object maps a composite to a Compound with one entry per member, in
// declaration order.
type object[V any] struct {
	members []member[V]
	index   map[string]int
}

func newObject[V any](members []member[V]) object[V] {
	index := make(map[string]int, len(members))
	for i, f := range members {
		index[f.name] = i
	}
	return object[V]{members: members, index: index}
}

func (o *object[V]) encode(m *Mapper, v V) (nbt.Tag, error) {
	b := nbt.NewCompoundBuilder()
	for _, f := range o.members {
		t, isDefault, absent, err := f.encode(m, v)
		if err != nil {
			return nil, atField(f.name, err)
		}
		// A required field is always written, or decoding would reject the
		// result.
		if absent || (isDefault && !f.required && m.omit(f.omit)) {
			continue
		}
		b.Put(f.name, t)
	}
	return b.Build(), nil
}

func (o *object[V]) decode(m *Mapper, t nbt.Tag, v V) error {
	if err := expect(nbt.TypeCompound, t); err != nil {
		return err
	}
	c := t.(nbt.Compound)
	if m.opts.Strict {
		for key := range c.Keys() {
			if _, ok := o.index[key]; !ok {
				return atField(key, nbt.ErrUnknownField)
			}
		}
	}
	for _, f := range o.members {
		ft, ok := c.Get(f.name)
		if !ok {
			if f.required {
				return atField(f.name, nbt.ErrMissingField)
			}
			if f.reset != nil {
				f.reset(v)
			}
			continue
		}
		if err := f.decode(m, ft, v); err != nil {
			return atField(f.name, err)
		}
	}
	return nil
}

// ObjectBuilder declares the compound layout of T field by field. Fields
// are written in declaration order.
//
//	adapter := mapper.Object[Player]().
//		Field(mapper.Field("name", func(p *Player) *string { return &p.Name })).
//		Field(mapper.Field("level", func(p *Player) *int32 { return &p.Level }, mapper.Default(int32(1)))).
//		Build()
//	mapper.Register(reg, adapter)
type ObjectBuilder[T any] struct {
	members []member[*T]
	names   map[string]bool
}

// Object starts a layout for T.
func Object[T any]() *ObjectBuilder[T] {
	return &ObjectBuilder[T]{names: make(map[string]bool)}
}

// Field appends a field. It panics if the name is already declared.
func (b *ObjectBuilder[T]) Field(f FieldDef[T]) *ObjectBuilder[T] {
	if b.names[f.m.name] {
		panic(fmt.Sprintf("mapper: field %q declared twice on %s", f.m.name, reflect.TypeFor[T]()))
	}
	b.names[f.m.name] = true
	b.members = append(b.members, f.m)
	return b
}

// Build returns the adapter. The builder may keep being used; later fields
// do not affect adapters already built.
func (b *ObjectBuilder[T]) Build() Adapter[T] {
	return objectAdapter[T]{obj: newObject(append([]member[*T](nil), b.members...))}
}

type objectAdapter[T any] struct{ obj object[*T] }

func (a objectAdapter[T]) TagType() nbt.Type { return nbt.TypeCompound }

func (a objectAdapter[T]) ToTag(m *Mapper, v T) (nbt.Tag, error) {
	return a.obj.encode(m, &v)
}

func (a objectAdapter[T]) FromTag(m *Mapper, t nbt.Tag) (T, error) {
	var v T
	if err := a.obj.decode(m, t, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// FieldDef is one declared field of T, created by Field.
type FieldDef[T any] struct{ m member[*T] }

// FieldOption configures a field.
type FieldOption func(*fieldConfig)

type fieldConfig struct {
	optional    bool
	forced      bool // Required was given
	def         any
	hasDefault  bool
	omit        bool
	adapter     codec
	adapterType reflect.Type
}

// Required makes a missing field an nbt.ErrMissingField error. Fields are
// required unless Optional, Default or OmitDefault says otherwise, or their
// type is a pointer or interface.
func Required() FieldOption {
	return func(c *fieldConfig) { c.forced = true }
}

// Optional lets the field be missing; it then keeps its zero value.
func Optional() FieldOption {
	return func(c *fieldConfig) { c.optional = true }
}

// Default makes the field optional and supplies v when it is missing. v
// must have the field's exact type; Field panics otherwise. The value is
// assigned as is, so slices and maps are shared between decoded values.
func Default(v any) FieldOption {
	return func(c *fieldConfig) {
		c.def, c.hasDefault, c.optional = v, true, true
	}
}

// OmitDefault makes the field optional and leaves it out of the compound
// when it equals its default, or its zero value without one.
func OmitDefault() FieldOption {
	return func(c *fieldConfig) { c.omit, c.optional = true, true }
}

// Using converts the field with a rather than the adapter registered for
// its type.
func Using[F any](a Adapter[F]) FieldOption {
	return func(c *fieldConfig) {
		c.adapter, c.adapterType = adapterCodec[F]{a}, reflect.TypeFor[F]()
	}
}

// Field declares a field stored under name. ref returns the address of the
// field inside a T.
func Field[T, F any](name string, ref func(*T) *F, opts ...FieldOption) FieldDef[T] {
	var cfg fieldConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	ftype := reflect.TypeFor[F]()
	var def F
	if cfg.hasDefault {
		d, ok := cfg.def.(F)
		if !ok {
			panic(fmt.Sprintf("mapper: default for field %q is %T, want %s", name, cfg.def, ftype))
		}
		def = d
	}
	if cfg.adapter != nil && cfg.adapterType != ftype {
		panic(fmt.Sprintf("mapper: adapter for field %q converts %s, want %s", name, cfg.adapterType, ftype))
	}
	resolve := func(m *Mapper) (codec, error) {
		if cfg.adapter != nil {
			return cfg.adapter, nil
		}
		return m.reg.lookup(ftype)
	}

	f := member[*T]{
		name:     name,
		required: cfg.forced || (!cfg.optional && !nilableType(ftype)),
		omit:     cfg.omit,
		encode: func(m *Mapper, v *T) (nbt.Tag, bool, bool, error) {
			p := ref(v)
			rv := reflect.ValueOf(p).Elem()
			if nilable(rv) && rv.IsNil() {
				return nil, true, true, nil
			}
			c, err := resolve(m)
			if err != nil {
				return nil, false, false, err
			}
			t, err := c.toTag(m, rv)
			return t, reflect.DeepEqual(*p, def), false, err
		},
		decode: func(m *Mapper, t nbt.Tag, v *T) error {
			c, err := resolve(m)
			if err != nil {
				return err
			}
			return c.fromTag(m, t, reflect.ValueOf(ref(v)).Elem())
		},
	}
	if cfg.hasDefault {
		f.reset = func(v *T) { *ref(v) = def }
	}
	return FieldDef[T]{m: f}
}

func nilable(v reflect.Value) bool { return nilableType(v.Type()) }

// nilableType reports whether a field of type t can be nil and is then left
// out. Such fields are optional unless Required is given.
func nilableType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		return true
	}
	return false
}
