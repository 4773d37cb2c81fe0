package nbt

import "fmt"

// Type is the one-byte tag type identifier used on the wire.
// These values are protocol constants and must never change.
type Type byte

const (
	TypeEnd       Type = 0
	TypeByte      Type = 1
	TypeShort     Type = 2
	TypeInt       Type = 3
	TypeLong      Type = 4
	TypeFloat     Type = 5
	TypeDouble    Type = 6
	TypeByteArray Type = 7
	TypeString    Type = 8
	TypeList      Type = 9
	TypeCompound  Type = 10
	TypeIntArray  Type = 11
	TypeLongArray Type = 12
)

var typeNames = [...]string{
	TypeEnd:       "End",
	TypeByte:      "Byte",
	TypeShort:     "Short",
	TypeInt:       "Int",
	TypeLong:      "Long",
	TypeFloat:     "Float",
	TypeDouble:    "Double",
	TypeByteArray: "ByteArray",
	TypeString:    "String",
	TypeList:      "List",
	TypeCompound:  "Compound",
	TypeIntArray:  "IntArray",
	TypeLongArray: "LongArray",
}

// Valid reports whether t is one of the thirteen defined tag types.
func (t Type) Valid() bool { return t <= TypeLongArray }

func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", byte(t))
}

// ParseType converts a wire byte into a Type.
func ParseType(b byte) (Type, error) {
	t := Type(b)
	if !t.Valid() {
		return 0, fmt.Errorf("%w: 0x%02x", ErrUnknownTagType, b)
	}
	return t, nil
}

// Tag is one node of a tag tree. The set of implementations is closed: End,
// Byte, Short, Int, Long, Float, Double, ByteArray, String, List, Compound,
// IntArray and LongArray. Tags are immutable once constructed and may be
// shared freely between goroutines.
type Tag interface {
	// Type returns the wire type of the tag.
	Type() Type
	// String renders the tag in SNBT notation.
	String() string

	tag()
}

type (
	// End terminates a compound on the wire. As a value it carries nothing and
	// is the element type of an untyped empty list.
	End struct{}
	// Byte is a signed 8-bit integer.
	Byte int8
	// Short is a signed 16-bit integer.
	Short int16
	// Int is a signed 32-bit integer.
	Int int32
	// Long is a signed 64-bit integer.
	Long int64
	// Float is a 32-bit IEEE-754 number.
	Float float32
	// Double is a 64-bit IEEE-754 number.
	Double float64
	// String is a text value.
	String string
)

func (End) Type() Type    { return TypeEnd }
func (Byte) Type() Type   { return TypeByte }
func (Short) Type() Type  { return TypeShort }
func (Int) Type() Type    { return TypeInt }
func (Long) Type() Type   { return TypeLong }
func (Float) Type() Type  { return TypeFloat }
func (Double) Type() Type { return TypeDouble }
func (String) Type() Type { return TypeString }

func (End) tag()    {}
func (Byte) tag()   {}
func (Short) tag()  {}
func (Int) tag()    {}
func (Long) tag()   {}
func (Float) tag()  {}
func (Double) tag() {}
func (String) tag() {}

// Bool returns Byte(1) for true and Byte(0) for false, the usual NBT
// representation of a boolean.
func Bool(v bool) Byte {
	if v {
		return 1
	}
	return 0
}
