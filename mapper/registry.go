package mapper

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/oy3o/nbt"
	"github.com/puzpuzpuz/xsync/v4"
)

// Registry holds the adapters a Mapper resolves Go types to. Registration is
// meant to happen once at startup; lookups afterwards are lock-free.
//
// Resolution order for a type is: an adapter registered for exactly that
// type, then the built-in adapter for its kind (numbers, strings, slices,
// arrays, maps, pointers), then the reflection adapter for structs. Any
// other type fails with nbt.ErrNoAdapter.
type Registry struct {
	exact *xsync.Map[reflect.Type, codec]
	cache *xsync.Map[reflect.Type, codec] // derived codecs, rebuilt after Register
	mu    sync.Mutex                      // serializes Register and codec derivation
}

var defaultRegistry = NewRegistry()

var tagTypes = []reflect.Type{
	reflect.TypeFor[nbt.Tag](),
	reflect.TypeFor[nbt.End](),
	reflect.TypeFor[nbt.Byte](),
	reflect.TypeFor[nbt.Short](),
	reflect.TypeFor[nbt.Int](),
	reflect.TypeFor[nbt.Long](),
	reflect.TypeFor[nbt.Float](),
	reflect.TypeFor[nbt.Double](),
	reflect.TypeFor[nbt.String](),
	reflect.TypeFor[nbt.ByteArray](),
	reflect.TypeFor[nbt.IntArray](),
	reflect.TypeFor[nbt.LongArray](),
	reflect.TypeFor[nbt.List](),
	reflect.TypeFor[nbt.Compound](),
}

// NewRegistry returns a registry that already maps every tag type, and the
// nbt.Tag interface, to itself.
func NewRegistry() *Registry {
	r := &Registry{
		exact: xsync.NewMap[reflect.Type, codec](),
		cache: xsync.NewMap[reflect.Type, codec](),
	}
	for _, t := range tagTypes {
		r.exact.Store(t, tagCodec{typ: t})
	}
	return r
}

// DefaultRegistry returns the registry used by DefaultMapper and by New(nil, ...).
func DefaultRegistry() *Registry { return defaultRegistry }

// Register installs a for values of type T, replacing any earlier adapter
// for T. A nil r registers into the default registry.
func Register[T any](r *Registry, a Adapter[T]) {
	if r == nil {
		r = defaultRegistry
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exact.Store(reflect.TypeFor[T](), adapterCodec[T]{a})
	// Derived codecs may have captured the previous resolution of T.
	r.cache.Clear()
}

// Resolvable reports whether a codec can be resolved for t.
func (r *Registry) Resolvable(t reflect.Type) bool {
	_, err := r.lookup(t)
	return err == nil
}

func (r *Registry) lookup(t reflect.Type) (codec, error) {
	if c, ok := r.exact.Load(t); ok {
		return c, nil
	}
	if c, ok := r.cache.Load(t); ok {
		return c, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	b := &deriver{
		reg:      r,
		building: make(map[reflect.Type]*structCodec),
		built:    make(map[reflect.Type]codec),
	}
	c, err := b.resolve(t)
	if err != nil {
		return nil, err
	}
	for typ, derived := range b.built {
		r.cache.Store(typ, derived)
	}
	return c, nil
}

// deriver builds the codecs for one type and everything it contains. Codecs
// are published to the cache only once the whole graph resolved.
type deriver struct {
	reg      *Registry
	building map[reflect.Type]*structCodec // structs under construction, for recursive types
	built    map[reflect.Type]codec
}

func (b *deriver) resolve(t reflect.Type) (codec, error) {
	if c, ok := b.reg.exact.Load(t); ok {
		return c, nil
	}
	if c, ok := b.reg.cache.Load(t); ok {
		return c, nil
	}
	if c, ok := b.built[t]; ok {
		return c, nil
	}
	if sc, ok := b.building[t]; ok {
		return sc, nil
	}
	c, err := b.derive(t)
	if err != nil {
		return nil, err
	}
	b.built[t] = c
	return c, nil
}

func (b *deriver) derive(t reflect.Type) (codec, error) {
	switch t.Kind() {
	case reflect.Bool:
		return boolCodec{}, nil
	case reflect.Int8:
		return intCodec{nbt.TypeByte}, nil
	case reflect.Int16:
		return intCodec{nbt.TypeShort}, nil
	case reflect.Int32:
		return intCodec{nbt.TypeInt}, nil
	case reflect.Int64, reflect.Int:
		return intCodec{nbt.TypeLong}, nil
	case reflect.Uint8:
		return uintCodec{nbt.TypeByte}, nil
	case reflect.Uint16:
		return uintCodec{nbt.TypeShort}, nil
	case reflect.Uint32:
		return uintCodec{nbt.TypeInt}, nil
	case reflect.Uint64, reflect.Uint, reflect.Uintptr:
		return uintCodec{nbt.TypeLong}, nil
	case reflect.Float32:
		return floatCodec{nbt.TypeFloat}, nil
	case reflect.Float64:
		return floatCodec{nbt.TypeDouble}, nil
	case reflect.String:
		return stringCodec{}, nil
	case reflect.Slice, reflect.Array:
		elem, err := b.resolve(t.Elem())
		if err != nil {
			return nil, err
		}
		// Only elements left to the built-in integer codecs pack into an
		// array tag; a registered element adapter keeps the list layout.
		switch elem.(type) {
		case intCodec, uintCodec:
			if tt, ok := numericArray(t.Elem().Kind()); ok {
				return arrayCodec{tt: tt, typ: t}, nil
			}
		}
		return listCodec{elem: elem, typ: t}, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w for %s: map keys must be strings", nbt.ErrNoAdapter, t)
		}
		elem, err := b.resolve(t.Elem())
		if err != nil {
			return nil, err
		}
		return mapCodec{elem: elem, typ: t}, nil
	case reflect.Pointer:
		elem, err := b.resolve(t.Elem())
		if err != nil {
			return nil, err
		}
		return ptrCodec{elem: elem, typ: t}, nil
	case reflect.Interface:
		// Decoding stores the tag itself, so the interface must accept every
		// tag type.
		if reflect.TypeFor[nbt.Compound]().Implements(t) && reflect.TypeFor[nbt.Int]().Implements(t) {
			return tagCodec{typ: t}, nil
		}
	case reflect.Struct:
		return b.structCodec(t)
	}
	return nil, fmt.Errorf("%w for %s", nbt.ErrNoAdapter, t)
}
