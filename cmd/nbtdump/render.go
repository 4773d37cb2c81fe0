package main

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/oy3o/nbt"
	"github.com/oy3o/nbt/compress"
)

// renderFunc writes one decoded root.
type renderFunc func(w io.Writer, name string, root nbt.Tag) error

func renderer(cfg config) (renderFunc, error) {
	switch cfg.output {
	case "snbt":
		return renderSNBT, nil
	case "json":
		return renderJSON, nil
	case "yaml":
		return renderYAML, nil
	case "cbor":
		return renderCBOR()
	case "nbt":
		return reencoder(cfg)
	}
	return nil, fmt.Errorf("unknown output %q", cfg.output)
}

func renderSNBT(w io.Writer, name string, root nbt.Tag) error {
	line := nbt.AppendSNBT(nil, root)
	if name != "" {
		line = append([]byte(fmt.Sprintf("%q: ", name)), line...)
	}
	_, err := w.Write(append(line, '\n'))
	return err
}

func renderJSON(w io.Writer, name string, root nbt.Tag) error {
	if name != "" {
		root = nbt.EmptyCompound().With(name, root)
	}
	data, err := nbt.MarshalJSONIndent(root, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func renderYAML(w io.Writer, name string, root nbt.Tag) error {
	node := nbt.YAMLNode(root)
	if name != "" {
		node = &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			node,
		}}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return err
	}
	return enc.Close()
}

func renderCBOR() (renderFunc, error) {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor encoder: %w", err)
	}
	return func(w io.Writer, name string, root nbt.Tag) error {
		value := plain(root)
		if name != "" {
			value = map[string]any{name: value}
		}
		data, err := mode.Marshal(value)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}, nil
}

// reencoder writes each root back as NBT in the target format and
// compression.
func reencoder(cfg config) (renderFunc, error) {
	name := cfg.toFormat
	if name == "" {
		name = cfg.format
	}
	format, err := nbt.FormatByName(name)
	if err != nil {
		return nil, err
	}
	c, err := compress.ParseCompression(cfg.toCompression)
	if err != nil {
		return nil, err
	}
	return func(w io.Writer, rootName string, root nbt.Tag) error {
		sink, err := compress.NewWriter(w, c)
		if err != nil {
			return err
		}
		enc, err := nbt.NewEncoder(sink, format, nil)
		if err != nil {
			return err
		}
		if err := enc.Encode(rootName, root); err != nil {
			sink.Close()
			return err
		}
		return sink.Close()
	}, nil
}

// plain converts a tag tree into maps, slices and scalars for encoders
// that work on Go values. Compound entry order is lost.
func plain(t nbt.Tag) any {
	switch v := t.(type) {
	case nbt.Byte:
		return int8(v)
	case nbt.Short:
		return int16(v)
	case nbt.Int:
		return int32(v)
	case nbt.Long:
		return int64(v)
	case nbt.Float:
		return float32(v)
	case nbt.Double:
		return float64(v)
	case nbt.String:
		return string(v)
	case nbt.ByteArray:
		return v.Bytes()
	case nbt.IntArray:
		return v.Values()
	case nbt.LongArray:
		return v.Values()
	case nbt.List:
		out := make([]any, 0, v.Len())
		for _, item := range v.All() {
			out = append(out, plain(item))
		}
		return out
	case nbt.Compound:
		out := make(map[string]any, v.Len())
		for key, item := range v.All() {
			out[key] = plain(item)
		}
		return out
	}
	return nil
}
