package nbt

import (
	"io"
)

// Document is a named root tag bound to a wire format. It implements Codec,
// so it can be used anywhere a binary marshaler is expected.
type Document struct {
	// Name is the root name. Formats without root names ignore it on write
	// and leave it empty on read.
	Name string
	// Root is the root tag.
	Root Tag
	// Format selects the wire variant; nil means Java.
	Format Format
	// Options bounds decoding and encoding; nil means DefaultOptions.
	Options *Options
}

func (d *Document) format() Format {
	if d.Format == nil {
		return Java
	}
	return d.Format
}

// Size returns the encoded length of the document, or 0 if it cannot be
// encoded.
func (d *Document) Size() int {
	n, err := d.WriteTo(discard{})
	if err != nil {
		return 0
	}
	return int(n)
}

// WriteTo encodes the document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	enc, err := NewEncoder(w, d.format(), d.Options)
	if err != nil {
		return 0, err
	}
	err = enc.Encode(d.Name, d.Root)
	return enc.Count(), err
}

// MarshalBinary encodes the document into a new slice.
func (d *Document) MarshalBinary() ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)
	if _, err := d.WriteTo(buf); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.Bytes()...), nil
}

// MarshalTo encodes the document into p.
func (d *Document) MarshalTo(p []byte) (int, error) {
	return MarshalToGeneric(d, p)
}

// ReadFrom decodes one root tag from r, replacing Name and Root. On failure
// the document is left unchanged.
func (d *Document) ReadFrom(r io.Reader) (int64, error) {
	dec, err := NewDecoder(r, d.format(), d.Options)
	if err != nil {
		return 0, err
	}
	name, root, err := dec.Decode()
	if err == io.EOF {
		err = ErrUnexpectedEOF
	}
	if err != nil {
		return dec.Count(), err
	}
	d.Name, d.Root = name, root
	return dec.Count(), nil
}

// UnmarshalBinary decodes data, which must hold exactly one root tag
// optionally followed by zero padding.
func (d *Document) UnmarshalBinary(data []byte) error {
	return UnmarshalBinaryGeneric(d, data)
}

// Marshal encodes t as a root tag named name in format f.
func Marshal(f Format, name string, t Tag) ([]byte, error) {
	if f == nil {
		return nil, ErrNilFormat
	}
	doc := Document{Name: name, Root: t, Format: f}
	return doc.MarshalBinary()
}

// Unmarshal decodes a single root tag from data in format f.
func Unmarshal(f Format, data []byte) (string, Tag, error) {
	return UnmarshalOptions(f, data, nil)
}

// UnmarshalOptions is Unmarshal with explicit limits.
func UnmarshalOptions(f Format, data []byte, opts *Options) (string, Tag, error) {
	if f == nil {
		return "", nil, ErrNilFormat
	}
	doc := Document{Format: f, Options: opts}
	if err := doc.UnmarshalBinary(data); err != nil {
		return "", nil, err
	}
	return doc.Name, doc.Root, nil
}

// MarshalJava encodes a named root tag in the Java format.
func MarshalJava(name string, t Tag) ([]byte, error) { return Marshal(Java, name, t) }

// UnmarshalJava decodes a named root tag in the Java format.
func UnmarshalJava(data []byte) (string, Tag, error) { return Unmarshal(Java, data) }

// MarshalBedrock encodes a named root tag in the Bedrock format.
func MarshalBedrock(name string, t Tag) ([]byte, error) { return Marshal(Bedrock, name, t) }

// UnmarshalBedrock decodes a named root tag in the Bedrock format.
func UnmarshalBedrock(data []byte) (string, Tag, error) { return Unmarshal(Bedrock, data) }

// MarshalNetwork encodes an unnamed root tag in the network format.
func MarshalNetwork(t Tag) ([]byte, error) { return Marshal(Network, "", t) }

// UnmarshalNetwork decodes an unnamed root tag in the network format.
func UnmarshalNetwork(data []byte) (Tag, error) {
	_, t, err := Unmarshal(Network, data)
	return t, err
}
