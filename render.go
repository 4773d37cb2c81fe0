package nbt

import (
	"bytes"
	"encoding/base64"
	"math"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// MarshalJSON renders t as plain JSON for inspection. Compounds become
// objects in entry order, lists and int/long arrays become arrays, byte
// arrays become base64 strings, and non-finite floats become the strings
// "NaN", "Infinity" and "-Infinity". The rendering drops tag types, so it
// cannot be decoded back into the same tree.
func MarshalJSON(t Tag) ([]byte, error) {
	return appendJSON(nil, t)
}

// MarshalJSONIndent is MarshalJSON with indentation applied.
func MarshalJSONIndent(t Tag, prefix, indent string) ([]byte, error) {
	raw, err := appendJSON(nil, t)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, prefix, indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func appendJSON(dst []byte, t Tag) ([]byte, error) {
	switch v := t.(type) {
	case nil, End:
		return append(dst, "null"...), nil
	case Byte:
		return strconv.AppendInt(dst, int64(v), 10), nil
	case Short:
		return strconv.AppendInt(dst, int64(v), 10), nil
	case Int:
		return strconv.AppendInt(dst, int64(v), 10), nil
	case Long:
		return strconv.AppendInt(dst, int64(v), 10), nil
	case Float:
		return appendJSONFloat(dst, float64(v), 32), nil
	case Double:
		return appendJSONFloat(dst, float64(v), 64), nil
	case String:
		return appendJSONString(dst, string(v))
	case ByteArray:
		return appendJSONString(dst, base64.StdEncoding.EncodeToString(v.v))
	case IntArray:
		dst = append(dst, '[')
		for i, x := range v.v {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = strconv.AppendInt(dst, int64(x), 10)
		}
		return append(dst, ']'), nil
	case LongArray:
		dst = append(dst, '[')
		for i, x := range v.v {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = strconv.AppendInt(dst, x, 10)
		}
		return append(dst, ']'), nil
	case List:
		var err error
		dst = append(dst, '[')
		for i, item := range v.items {
			if i > 0 {
				dst = append(dst, ',')
			}
			if dst, err = appendJSON(dst, item); err != nil {
				return nil, err
			}
		}
		return append(dst, ']'), nil
	case Compound:
		var err error
		dst = append(dst, '{')
		for i, key := range v.keys {
			if i > 0 {
				dst = append(dst, ',')
			}
			if dst, err = appendJSONString(dst, key); err != nil {
				return nil, err
			}
			dst = append(dst, ':')
			if dst, err = appendJSON(dst, v.values[i]); err != nil {
				return nil, err
			}
		}
		return append(dst, '}'), nil
	}
	return append(dst, "null"...), nil
}

func appendJSONString(dst []byte, s string) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return append(dst, b...), nil
}

func appendJSONFloat(dst []byte, f float64, bits int) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		dst = append(dst, '"')
		return append(appendFloat(dst, f, bits), '"')
	}
	return strconv.AppendFloat(dst, f, 'g', -1, bits)
}

// YAMLNode renders t as a YAML node tree that keeps compound entry order.
// Scalars are tagged with their YAML kind; byte arrays use !!binary.
func YAMLNode(t Tag) *yaml.Node {
	switch v := t.(type) {
	case nil, End:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case Byte:
		return intNode(int64(v))
	case Short:
		return intNode(int64(v))
	case Int:
		return intNode(int64(v))
	case Long:
		return intNode(int64(v))
	case Float:
		return floatNode(float64(v), 32)
	case Double:
		return floatNode(float64(v), 64)
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(v)}
	case ByteArray:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!binary", Value: base64.StdEncoding.EncodeToString(v.v)}
	case IntArray:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, x := range v.v {
			seq.Content = append(seq.Content, intNode(int64(x)))
		}
		return seq
	case LongArray:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, x := range v.v {
			seq.Content = append(seq.Content, intNode(x))
		}
		return seq
	case List:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range v.items {
			seq.Content = append(seq.Content, YAMLNode(item))
		}
		return seq
	case Compound:
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, key := range v.keys {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				YAMLNode(v.values[i]))
		}
		return m
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func intNode(v int64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v, 10)}
}

func floatNode(f float64, bits int) *yaml.Node {
	var value string
	switch {
	case math.IsNaN(f):
		value = ".nan"
	case math.IsInf(f, 1):
		value = ".inf"
	case math.IsInf(f, -1):
		value = "-.inf"
	default:
		value = strconv.FormatFloat(f, 'g', -1, bits)
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: value}
}
