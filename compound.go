package nbt

import (
	"iter"
	"maps"
	"slices"
)

// Compound is an ordered mapping from unique string keys to tags.
//
// Insertion order is preserved for deterministic re-serialization, lookup is
// by key. A Compound is immutable: With and Without return a new Compound
// that shares every unchanged child with the receiver. The zero value is an
// empty compound ready to use.
type Compound struct {
	keys   []string
	values []Tag
	index  map[string]int
}

// EmptyCompound returns a compound with no entries.
func EmptyCompound() Compound { return Compound{} }

func (Compound) Type() Type { return TypeCompound }
func (Compound) tag()       {}

// Len returns the number of entries.
func (c Compound) Len() int { return len(c.keys) }

// Get returns the tag stored under key.
func (c Compound) Get(key string) (Tag, bool) {
	i, ok := c.index[key]
	if !ok {
		return nil, false
	}
	return c.values[i], true
}

// Has reports whether key is present.
func (c Compound) Has(key string) bool {
	_, ok := c.index[key]
	return ok
}

// Keys iterates over the keys in insertion order.
func (c Compound) Keys() iter.Seq[string] { return slices.Values(c.keys) }

// All iterates over the entries in insertion order.
func (c Compound) All() iter.Seq2[string, Tag] {
	return func(yield func(string, Tag) bool) {
		for i, k := range c.keys {
			if !yield(k, c.values[i]) {
				return
			}
		}
	}
}

// With returns a compound with key set to value. An existing key keeps its
// position. It panics if value is nil or End, which cannot be stored in a
// compound.
func (c Compound) With(key string, value Tag) Compound {
	mustEntry(key, value)
	if i, ok := c.index[key]; ok {
		values := slices.Clone(c.values)
		values[i] = value
		return Compound{keys: c.keys, values: values, index: c.index}
	}
	index := maps.Clone(c.index)
	if index == nil {
		index = make(map[string]int, 1)
	}
	index[key] = len(c.keys)
	return Compound{
		keys:   append(slices.Clip(c.keys), key),
		values: append(slices.Clip(c.values), value),
		index:  index,
	}
}

// Without returns a compound with key removed.
func (c Compound) Without(key string) Compound {
	i, ok := c.index[key]
	if !ok {
		return c
	}
	b := c.ToBuilder()
	b.Remove(c.keys[i])
	return b.Build()
}

// ToBuilder returns a builder seeded with the entries of c. The builder owns
// its own copy; changes to it never affect c.
func (c Compound) ToBuilder() *CompoundBuilder {
	return &CompoundBuilder{
		keys:   slices.Clone(c.keys),
		values: slices.Clone(c.values),
		index:  maps.Clone(c.index),
	}
}

// Typed getters. Each returns false when the key is missing or holds a
// different tag type.

func (c Compound) GetByte(key string) (int8, bool) {
	v, ok := get[Byte](c, key)
	return int8(v), ok
}

func (c Compound) GetShort(key string) (int16, bool) {
	v, ok := get[Short](c, key)
	return int16(v), ok
}

func (c Compound) GetInt(key string) (int32, bool) {
	v, ok := get[Int](c, key)
	return int32(v), ok
}

func (c Compound) GetLong(key string) (int64, bool) {
	v, ok := get[Long](c, key)
	return int64(v), ok
}

func (c Compound) GetFloat(key string) (float32, bool) {
	v, ok := get[Float](c, key)
	return float32(v), ok
}

func (c Compound) GetDouble(key string) (float64, bool) {
	v, ok := get[Double](c, key)
	return float64(v), ok
}

func (c Compound) GetString(key string) (string, bool) {
	v, ok := get[String](c, key)
	return string(v), ok
}

func (c Compound) GetBool(key string) (bool, bool) {
	v, ok := get[Byte](c, key)
	return v != 0, ok
}

func (c Compound) GetList(key string) (List, bool)           { return get[List](c, key) }
func (c Compound) GetCompound(key string) (Compound, bool)   { return get[Compound](c, key) }
func (c Compound) GetByteArray(key string) (ByteArray, bool) { return get[ByteArray](c, key) }
func (c Compound) GetIntArray(key string) (IntArray, bool)   { return get[IntArray](c, key) }
func (c Compound) GetLongArray(key string) (LongArray, bool) { return get[LongArray](c, key) }

func get[T Tag](c Compound, key string) (T, bool) {
	var zero T
	t, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	v, ok := t.(T)
	return v, ok
}

func mustEntry(key string, value Tag) {
	if value == nil {
		panic("nbt: nil tag stored under key " + key)
	}
	if value.Type() == TypeEnd {
		panic("nbt: End tag stored under key " + key)
	}
}

// CompoundBuilder constructs a Compound. A builder is not safe for concurrent
// use; it exclusively owns the entries until Build publishes them.
type CompoundBuilder struct {
	keys   []string
	values []Tag
	index  map[string]int
}

// NewCompoundBuilder returns an empty builder.
func NewCompoundBuilder() *CompoundBuilder {
	return &CompoundBuilder{index: make(map[string]int)}
}

// Len returns the number of entries added so far.
func (b *CompoundBuilder) Len() int { return len(b.keys) }

// Put stores value under key. Re-putting a key replaces the value and keeps
// the original position. It panics if value is nil or End.
func (b *CompoundBuilder) Put(key string, value Tag) *CompoundBuilder {
	mustEntry(key, value)
	if b.index == nil {
		b.index = make(map[string]int)
	}
	if i, ok := b.index[key]; ok {
		b.values[i] = value
		return b
	}
	b.index[key] = len(b.keys)
	b.keys = append(b.keys, key)
	b.values = append(b.values, value)
	return b
}

// Remove deletes key if present.
func (b *CompoundBuilder) Remove(key string) *CompoundBuilder {
	i, ok := b.index[key]
	if !ok {
		return b
	}
	b.keys = slices.Delete(b.keys, i, i+1)
	b.values = slices.Delete(b.values, i, i+1)
	delete(b.index, key)
	for j := i; j < len(b.keys); j++ {
		b.index[b.keys[j]] = j
	}
	return b
}

func (b *CompoundBuilder) PutBool(key string, v bool) *CompoundBuilder { return b.Put(key, Bool(v)) }
func (b *CompoundBuilder) PutByte(key string, v int8) *CompoundBuilder { return b.Put(key, Byte(v)) }
func (b *CompoundBuilder) PutShort(key string, v int16) *CompoundBuilder {
	return b.Put(key, Short(v))
}
func (b *CompoundBuilder) PutInt(key string, v int32) *CompoundBuilder  { return b.Put(key, Int(v)) }
func (b *CompoundBuilder) PutLong(key string, v int64) *CompoundBuilder { return b.Put(key, Long(v)) }
func (b *CompoundBuilder) PutFloat(key string, v float32) *CompoundBuilder {
	return b.Put(key, Float(v))
}
func (b *CompoundBuilder) PutDouble(key string, v float64) *CompoundBuilder {
	return b.Put(key, Double(v))
}
func (b *CompoundBuilder) PutString(key string, v string) *CompoundBuilder {
	return b.Put(key, String(v))
}
func (b *CompoundBuilder) PutByteArray(key string, v []byte) *CompoundBuilder {
	return b.Put(key, NewByteArray(v))
}
func (b *CompoundBuilder) PutIntArray(key string, v []int32) *CompoundBuilder {
	return b.Put(key, NewIntArray(v))
}
func (b *CompoundBuilder) PutLongArray(key string, v []int64) *CompoundBuilder {
	return b.Put(key, NewLongArray(v))
}
func (b *CompoundBuilder) PutCompound(key string, v Compound) *CompoundBuilder {
	return b.Put(key, v)
}
func (b *CompoundBuilder) PutList(key string, v List) *CompoundBuilder { return b.Put(key, v) }

// Build publishes the entries as a Compound and resets the builder, so that
// later Puts can never alias the published value.
func (b *CompoundBuilder) Build() Compound {
	c := Compound{keys: b.keys, values: b.values, index: b.index}
	if len(c.keys) == 0 {
		c = Compound{}
	}
	*b = CompoundBuilder{}
	return c
}
