package nbt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestType(t *testing.T) {
	assert.Equal(t, "Compound", TypeCompound.String())
	assert.Equal(t, "Type(13)", Type(13).String())
	assert.True(t, TypeLongArray.Valid())
	assert.False(t, Type(13).Valid())

	typ, err := ParseType(9)
	require.NoError(t, err)
	assert.Equal(t, TypeList, typ)

	_, err = ParseType(0x20)
	assert.ErrorIs(t, err, ErrUnknownTagType)
}

func TestScalarTypes(t *testing.T) {
	tests := []struct {
		tag  Tag
		want Type
	}{
		{End{}, TypeEnd},
		{Byte(1), TypeByte},
		{Short(1), TypeShort},
		{Int(1), TypeInt},
		{Long(1), TypeLong},
		{Float(1), TypeFloat},
		{Double(1), TypeDouble},
		{String("s"), TypeString},
		{NewByteArray(nil), TypeByteArray},
		{NewIntArray(nil), TypeIntArray},
		{NewLongArray(nil), TypeLongArray},
		{EmptyList(TypeInt), TypeList},
		{EmptyCompound(), TypeCompound},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tag.Type())
		})
	}
	assert.Equal(t, Byte(1), Bool(true))
	assert.Equal(t, Byte(0), Bool(false))
}

func TestArraysCopyOnConstruct(t *testing.T) {
	src := []int32{1, 2, 3}
	a := NewIntArray(src)
	src[0] = 99
	assert.Equal(t, int32(1), a.At(0))

	values := a.Values()
	values[1] = 99
	assert.Equal(t, int32(2), a.At(1), "Values returns a copy")

	b := NewByteArray([]byte{1, 2})
	out := b.Bytes()
	out[0] = 9
	assert.Equal(t, byte(1), b.At(0))

	var sum int64
	for _, v := range NewLongArray([]int64{1, 2, 3}).All() {
		sum += v
	}
	assert.Equal(t, int64(6), sum)
}

func TestList(t *testing.T) {
	t.Run("AdoptsFirstType", func(t *testing.T) {
		l, err := NewList(TypeEnd, Int(1), Int(2))
		require.NoError(t, err)
		assert.Equal(t, TypeInt, l.Elem())
		assert.Equal(t, 2, l.Len())
	})

	t.Run("RejectsMixedTypes", func(t *testing.T) {
		_, err := NewList(TypeInt, Int(1), String("x"))
		assert.ErrorIs(t, err, ErrTypeMismatch)
		assert.ErrorContains(t, err, "index 1")
	})

	t.Run("RejectsInvalidElem", func(t *testing.T) {
		_, err := NewList(Type(42))
		assert.ErrorIs(t, err, ErrUnknownTagType)
	})

	t.Run("EmptyListKeepsType", func(t *testing.T) {
		l := EmptyList(TypeString)
		assert.Equal(t, TypeString, l.Elem())
		_, err := l.Append(Int(1))
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("AppendIsPersistent", func(t *testing.T) {
		l1, err := EmptyList(TypeEnd).Append(Short(1))
		require.NoError(t, err)
		l2, err := l1.Append(Short(2))
		require.NoError(t, err)
		l3, err := l1.Append(Short(3))
		require.NoError(t, err)

		assert.Equal(t, 1, l1.Len())
		assert.Equal(t, Short(2), l2.At(1))
		assert.Equal(t, Short(3), l3.At(1), "appending to the same list twice must not alias")
	})

	t.Run("BuilderLatchesError", func(t *testing.T) {
		b := NewListBuilder(TypeEnd).Add(String("a")).Add(Int(1)).Add(String("b"))
		assert.ErrorIs(t, b.Err(), ErrTypeMismatch)
		_, err := b.Build()
		assert.ErrorIs(t, err, ErrTypeMismatch)

		l, err := NewListBuilder(TypeString).Add(String("a")).Add(String("b")).Build()
		require.NoError(t, err)
		assert.Equal(t, 2, l.Len())
	})

	t.Run("EndIsNotAnElement", func(t *testing.T) {
		_, err := NewList(TypeEnd, End{})
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})
}

func TestCompound(t *testing.T) {
	c := NewCompoundBuilder().
		PutInt("b", 2).
		PutString("a", "x").
		PutBool("flag", true).
		Build()

	assert.Equal(t, 3, c.Len())
	var keys []string
	for k := range c.Keys() {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"b", "a", "flag"}, keys, "insertion order is preserved")

	t.Run("TypedGetters", func(t *testing.T) {
		v, ok := c.GetInt("b")
		assert.True(t, ok)
		assert.Equal(t, int32(2), v)

		_, ok = c.GetLong("b")
		assert.False(t, ok, "wrong tag type")

		s, ok := c.GetString("a")
		assert.True(t, ok)
		assert.Equal(t, "x", s)

		flag, ok := c.GetBool("flag")
		assert.True(t, ok)
		assert.True(t, flag)

		_, ok = c.GetCompound("missing")
		assert.False(t, ok)
	})

	t.Run("WithIsCopyOnWrite", func(t *testing.T) {
		c2 := c.With("a", String("y")).With("c", Long(3))
		s, _ := c.GetString("a")
		assert.Equal(t, "x", s)
		s, _ = c2.GetString("a")
		assert.Equal(t, "y", s)
		assert.False(t, c.Has("c"))
		assert.True(t, c2.Has("c"))

		var keys []string
		for k := range c2.Keys() {
			keys = append(keys, k)
		}
		assert.Equal(t, []string{"b", "a", "flag", "c"}, keys, "replaced keys keep their position")
	})

	t.Run("Without", func(t *testing.T) {
		c2 := c.Without("b")
		assert.False(t, c2.Has("b"))
		assert.True(t, c.Has("b"))
		assert.Equal(t, c, c.Without("missing"))
		v, ok := c2.Get("flag")
		require.True(t, ok)
		assert.Equal(t, Byte(1), v)
	})

	t.Run("ZeroValueIsEmpty", func(t *testing.T) {
		var zero Compound
		assert.Zero(t, zero.Len())
		_, ok := zero.Get("x")
		assert.False(t, ok)
		assert.Equal(t, 1, zero.With("x", Int(1)).Len())
	})

	t.Run("RejectsEndValues", func(t *testing.T) {
		assert.Panics(t, func() { c.With("e", End{}) })
		assert.Panics(t, func() { NewCompoundBuilder().Put("n", nil) })
	})

	t.Run("BuilderResetsOnBuild", func(t *testing.T) {
		b := NewCompoundBuilder().PutInt("x", 1)
		first := b.Build()
		b.PutInt("y", 2)
		assert.False(t, first.Has("y"))
		assert.Equal(t, 1, b.Build().Len())
	})

	t.Run("ToBuilder", func(t *testing.T) {
		b := c.ToBuilder()
		b.Remove("a").PutShort("s", 1)
		c2 := b.Build()
		assert.True(t, c.Has("a"))
		assert.False(t, c2.Has("a"))
		assert.True(t, c2.Has("s"))
	})
}
