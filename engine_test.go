package nbt

import (
	"bytes"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// sampleTree exercises every tag type.
func sampleTree(t testing.TB) Compound {
	t.Helper()
	pos, err := NewList(TypeDouble, Double(1.5), Double(-64), Double(math.Inf(1)))
	require.NoError(t, err)
	inventory, err := NewListBuilder(TypeCompound).
		Add(NewCompoundBuilder().PutString("id", "minecraft:stone").PutByte("Count", 64).Build()).
		Add(NewCompoundBuilder().PutString("id", "minecraft:dirt").PutByte("Count", 1).PutShort("Damage", 3).Build()).
		Build()
	require.NoError(t, err)
	nested, err := NewList(TypeList, EmptyList(TypeEnd), pos)
	require.NoError(t, err)

	return NewCompoundBuilder().
		PutByte("byte", -1).
		PutShort("short", math.MinInt16).
		PutInt("int", 300).
		PutLong("long", math.MaxInt64).
		PutFloat("float", 0.25).
		PutDouble("double", math.Pi).
		PutString("string", "héllo \x00 \U0001F600").
		PutByteArray("bytes", []byte{0, 1, 255}).
		PutIntArray("ints", []int32{-1, 0, math.MaxInt32}).
		PutLongArray("longs", []int64{math.MinInt64, 7}).
		PutList("Pos", pos).
		PutList("Inventory", inventory).
		PutList("nested", nested).
		PutList("empty", EmptyList(TypeString)).
		PutCompound("sub", NewCompoundBuilder().PutCompound("deeper", EmptyCompound()).Build()).
		Build()
}

type EngineTestSuite struct {
	suite.Suite
}

func TestEngine(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) TestRoundTripEveryFormat() {
	tree := sampleTree(s.T())
	for _, f := range []Format{Java, Bedrock, Network} {
		s.Run(f.Name(), func() {
			data, err := Marshal(f, "level", tree)
			s.Require().NoError(err)

			name, got, err := Unmarshal(f, data)
			s.Require().NoError(err)
			if f.NamedRoot() {
				s.Equal("level", name)
			} else {
				s.Empty(name)
			}
			s.True(Equal(tree, got), "decoded tree differs:\n%s\n%s", tree, got)

			again, err := Marshal(f, name, got)
			s.Require().NoError(err)
			if f.NamedRoot() {
				s.Equal(data, again, "re-encoding is byte-identical")
			}
		})
	}
}

func (s *EngineTestSuite) TestJavaEndToEndBytes() {
	tags, err := NewList(TypeString, String("a"), String("b"))
	s.Require().NoError(err)
	root := NewCompoundBuilder().PutInt("level", 5).PutList("tags", tags).Build()

	data, err := MarshalJava("root", root)
	s.Require().NoError(err)

	want := []byte{
		0x0A, 0x00, 0x04, 'r', 'o', 'o', 't',
		0x03, 0x00, 0x05, 'l', 'e', 'v', 'e', 'l', 0x00, 0x00, 0x00, 0x05,
		0x09, 0x00, 0x04, 't', 'a', 'g', 's', 0x08, 0x00, 0x00, 0x00, 0x02,
		0x00, 0x01, 'a',
		0x00, 0x01, 'b',
		0x00,
	}
	s.Equal(want, data)

	name, got, err := UnmarshalJava(data)
	s.Require().NoError(err)
	s.Equal("root", name)
	s.True(Equal(root, got))
}

func (s *EngineTestSuite) TestBedrockBytes() {
	root := NewCompoundBuilder().PutShort("s", 1).Build()
	data, err := MarshalBedrock("", root)
	s.Require().NoError(err)
	s.Equal([]byte{0x0A, 0x00, 0x00, 0x02, 0x01, 0x00, 's', 0x01, 0x00, 0x00}, data)
}

func (s *EngineTestSuite) TestNetworkRootIsUnnamed() {
	root := NewCompoundBuilder().PutInt("v", -1).Build()
	data, err := MarshalNetwork(root)
	s.Require().NoError(err)
	s.Equal([]byte{0x0A, 0x03, 0x01, 'v', 0x01, 0x00}, data)

	got, err := UnmarshalNetwork(data)
	s.Require().NoError(err)
	s.True(Equal(root, got))

	// Any tag type may be a root.
	data, err = MarshalNetwork(Int(300))
	s.Require().NoError(err)
	s.Equal([]byte{0x03, 0xD8, 0x04}, data)
	got, err = UnmarshalNetwork(data)
	s.Require().NoError(err)
	s.Equal(Int(300), got)
}

func (s *EngineTestSuite) TestUnknownTagType() {
	_, _, err := UnmarshalJava([]byte{0x0D, 0x00, 0x00})
	s.ErrorIs(err, ErrUnknownTagType)

	// Inside a compound.
	_, _, err = UnmarshalJava([]byte{0x0A, 0x00, 0x00, 0x42, 0x00, 0x00})
	s.ErrorIs(err, ErrUnknownTagType)

	// As a list element type.
	_, _, err = UnmarshalJava([]byte{0x09, 0x00, 0x00, 0x63, 0x00, 0x00, 0x00, 0x00})
	s.ErrorIs(err, ErrUnknownTagType)
}

func (s *EngineTestSuite) TestTruncatedInput() {
	data, err := MarshalJava("root", sampleTree(s.T()))
	s.Require().NoError(err)
	for _, n := range []int{1, 3, 10, len(data) / 2, len(data) - 1} {
		_, tag, err := UnmarshalJava(data[:n])
		s.ErrorIs(err, ErrUnexpectedEOF, "truncated at %d", n)
		s.Nil(tag, "no partial tree")
	}

	_, _, err = UnmarshalJava(nil)
	s.ErrorIs(err, ErrUnexpectedEOF)
}

func (s *EngineTestSuite) TestTrailingData() {
	data, err := MarshalJava("", Int(1))
	s.Require().NoError(err)

	_, _, err = UnmarshalJava(append(bytes.Clone(data), 0, 0, 0))
	s.NoError(err, "zero padding is accepted")

	_, _, err = UnmarshalJava(append(bytes.Clone(data), 0, 1))
	s.ErrorIs(err, ErrTrailingData)
}

func (s *EngineTestSuite) TestDepthLimit() {
	deep := Tag(EmptyCompound())
	for range 10 {
		deep = EmptyCompound().With("c", deep)
	}
	data, err := MarshalJava("", deep)
	s.Require().NoError(err)

	_, _, err = UnmarshalOptions(Java, data, &Options{MaxDepth: 11})
	s.NoError(err)

	_, tag, err := UnmarshalOptions(Java, data, &Options{MaxDepth: 10})
	s.ErrorIs(err, ErrDepthExceeded)
	s.Nil(tag)

	// The encoder enforces the same bound.
	doc := Document{Root: deep, Options: &Options{MaxDepth: 5}}
	_, err = doc.MarshalBinary()
	s.ErrorIs(err, ErrDepthExceeded)
}

func (s *EngineTestSuite) TestDepthLimitStopsBeforeReading() {
	// 600 nested lists of lists, then the stream ends. The depth check must
	// fire before the missing bytes are noticed.
	var buf bytes.Buffer
	buf.Write([]byte{0x09, 0x00, 0x00})
	for range 600 {
		buf.Write([]byte{0x09, 0x00, 0x00, 0x00, 0x01})
	}
	_, _, err := UnmarshalJava(buf.Bytes())
	s.ErrorIs(err, ErrDepthExceeded)
}

func (s *EngineTestSuite) TestSizeLimits() {
	s.Run("ListLength", func() {
		data := []byte{0x09, 0x00, 0x00, 0x01, 0x7F, 0xFF, 0xFF, 0xFF}
		_, _, err := UnmarshalOptions(Java, data, &Options{MaxElements: 1000})
		s.ErrorIs(err, ErrSizeLimitExceeded)
	})

	s.Run("ArrayLength", func() {
		data := []byte{0x0B, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00}
		_, _, err := UnmarshalOptions(Java, data, &Options{MaxElements: 100})
		s.ErrorIs(err, ErrSizeLimitExceeded)
	})

	s.Run("NegativeLength", func() {
		data := []byte{0x07, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFE}
		_, _, err := UnmarshalJava(data)
		s.ErrorIs(err, ErrSizeLimitExceeded)
	})

	s.Run("StringLength", func() {
		data, err := MarshalJava("", String(strings.Repeat("x", 100)))
		s.Require().NoError(err)
		_, _, err = UnmarshalOptions(Java, data, &Options{MaxStringLength: 50})
		s.ErrorIs(err, ErrSizeLimitExceeded)
	})

	s.Run("EncoderElements", func() {
		doc := Document{Root: NewIntArray(make([]int32, 10)), Options: &Options{MaxElements: 5}}
		_, err := doc.MarshalBinary()
		s.ErrorIs(err, ErrSizeLimitExceeded)
	})

	s.Run("ReadBudget", func() {
		data, err := MarshalJava("", NewByteArray(make([]byte, 4096)))
		s.Require().NoError(err)
		_, _, err = UnmarshalOptions(Java, data, &Options{MaxReadSize: 1024})
		s.ErrorIs(err, ErrReadSizeExceeded)
		s.ErrorIs(err, ErrSizeLimitExceeded)

		_, _, err = UnmarshalOptions(Java, data, &Options{MaxReadSize: int64(len(data))})
		s.NoError(err)
	})
}

func (s *EngineTestSuite) TestListOfEndWithElements() {
	_, _, err := UnmarshalJava([]byte{0x09, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02})
	s.ErrorIs(err, ErrTypeMismatch)
}

func (s *EngineTestSuite) TestDuplicateKeysLaterWins() {
	data := []byte{
		0x0A, 0x00, 0x00,
		0x01, 0x00, 0x01, 'a', 0x01,
		0x01, 0x00, 0x01, 'b', 0x02,
		0x01, 0x00, 0x01, 'a', 0x03,
		0x00,
	}
	_, tag, err := UnmarshalJava(data)
	s.Require().NoError(err)
	c := tag.(Compound)
	s.Equal(2, c.Len())
	v, _ := c.GetByte("a")
	s.Equal(int8(3), v)
	var keys []string
	for k := range c.Keys() {
		keys = append(keys, k)
	}
	s.Equal([]string{"a", "b"}, keys)
}

func (s *EngineTestSuite) TestStreamOfRoots() {
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, Network, nil)
	s.Require().NoError(err)
	for i := range 3 {
		s.Require().NoError(enc.Encode("", Int(int32(i))))
	}

	dec, err := NewDecoder(&buf, Network, nil)
	s.Require().NoError(err)
	for i := range 3 {
		_, tag, err := dec.Decode()
		s.Require().NoError(err)
		s.Equal(Int(int32(i)), tag)
	}
	_, _, err = dec.Decode()
	s.ErrorIs(err, io.EOF)
	s.NotErrorIs(err, ErrUnexpectedEOF)
}

func (s *EngineTestSuite) TestBareValues() {
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, Java, nil)
	s.Require().NoError(err)
	s.Require().NoError(enc.EncodeValue(String("hi")))
	s.Equal([]byte{0x00, 0x02, 'h', 'i'}, buf.Bytes())

	dec, err := NewDecoder(&buf, Java, nil)
	s.Require().NoError(err)
	tag, err := dec.DecodeValue(TypeString)
	s.Require().NoError(err)
	s.Equal(String("hi"), tag)

	_, err = dec.DecodeValue(Type(99))
	s.ErrorIs(err, ErrUnknownTagType)
}

func (s *EngineTestSuite) TestEndRoot() {
	data, err := MarshalJava("ignored", End{})
	s.Require().NoError(err)
	s.Equal([]byte{0x00}, data)

	name, tag, err := UnmarshalJava(data)
	s.Require().NoError(err)
	s.Empty(name)
	s.Equal(End{}, tag)
}

func (s *EngineTestSuite) TestConstructorErrors() {
	_, err := NewDecoder(nil, Java, nil)
	s.ErrorIs(err, ErrNilIO)
	_, err = NewDecoder(&bytes.Buffer{}, nil, nil)
	s.ErrorIs(err, ErrNilFormat)
	_, err = NewEncoder(nil, Java, nil)
	s.ErrorIs(err, ErrNilIO)
	_, err = Marshal(nil, "", Int(1))
	s.ErrorIs(err, ErrNilFormat)

	enc, err := NewEncoder(&bytes.Buffer{}, Java, nil)
	s.Require().NoError(err)
	s.ErrorIs(enc.Encode("", nil), ErrTypeMismatch)
}

func (s *EngineTestSuite) TestInterning() {
	pool := NewInternPool(0)
	opts := &Options{InternKeys: true, InternStrings: true, Intern: pool}
	inner := NewCompoundBuilder().PutString("id", "minecraft:stone").Build()
	items, err := NewList(TypeCompound, inner, inner, inner)
	s.Require().NoError(err)
	data, err := MarshalBedrock("", NewCompoundBuilder().PutList("items", items).Build())
	s.Require().NoError(err)

	_, tag, err := UnmarshalOptions(Bedrock, data, opts)
	s.Require().NoError(err)
	s.True(Equal(tag, NewCompoundBuilder().PutList("items", items).Build()))
	s.Equal(3, pool.Len(), `"items", "id" and "minecraft:stone"`)
}
