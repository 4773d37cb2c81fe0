package mapper

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/oy3o/nbt"
)

// structCodec maps a struct by reflection, one compound entry per exported
// field. Fields are configured with the `nbt` struct tag:
//
//	Name   string  `nbt:"name"`              // stored as "name", required
//	Health float32 `nbt:"health,omitempty"`  // optional, left out when zero
//	Nick   string  `nbt:",optional"`         // stored as "Nick", optional
//	Owner  *UUID   `nbt:"owner"`             // pointers are optional
//	Cache  []byte  `nbt:"-"`                 // ignored
//
// Exported embedded structs without a tag name have their fields promoted;
// a field declared directly wins over a promoted one of the same name.
type structCodec struct {
	typ reflect.Type
	obj object[reflect.Value]
}

func (c *structCodec) tagType() nbt.Type { return nbt.TypeCompound }

func (c *structCodec) toTag(m *Mapper, v reflect.Value) (nbt.Tag, error) {
	return c.obj.encode(m, v)
}

func (c *structCodec) fromTag(m *Mapper, t nbt.Tag, dst reflect.Value) error {
	return c.obj.decode(m, t, dst)
}

type fieldTag struct {
	name      string
	omitEmpty bool
	optional  bool
	required  bool
}

func parseFieldTag(sf reflect.StructField) (fieldTag, bool) {
	raw, ok := sf.Tag.Lookup("nbt")
	if raw == "-" {
		return fieldTag{}, false
	}
	name, rest, _ := strings.Cut(raw, ",")
	ft := fieldTag{name: name}
	if !ok || ft.name == "" {
		ft.name = sf.Name
	}
	for opt := range strings.SplitSeq(rest, ",") {
		switch opt {
		case "omitempty":
			ft.omitEmpty = true
		case "optional":
			ft.optional = true
		case "required":
			ft.required = true
		}
	}
	return ft, true
}

func (b *deriver) structCodec(t reflect.Type) (codec, error) {
	sc := &structCodec{typ: t}
	b.building[t] = sc
	defer delete(b.building, t)

	seen := make(map[string]bool)
	members, err := b.structMembers(t, nil, seen)
	if err != nil {
		return nil, err
	}
	sc.obj = newObject(members)
	return sc, nil
}

// structMembers collects the fields of t, direct fields first and then the
// promoted fields of embedded structs, skipping names already taken.
func (b *deriver) structMembers(t reflect.Type, prefix []int, seen map[string]bool) ([]member[reflect.Value], error) {
	var members []member[reflect.Value]
	var embedded []reflect.StructField

	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		ft, ok := parseFieldTag(sf)
		if !ok {
			continue
		}
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && sf.Tag.Get("nbt") == "" {
			embedded = append(embedded, sf)
			continue
		}
		if seen[ft.name] {
			continue
		}
		seen[ft.name] = true
		c, err := b.resolve(sf.Type)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t, sf.Name, err)
		}
		index := append(append([]int(nil), prefix...), sf.Index...)
		members = append(members, structMember(ft, sf.Type, index, c))
	}

	for _, sf := range embedded {
		index := append(append([]int(nil), prefix...), sf.Index...)
		promoted, err := b.structMembers(sf.Type, index, seen)
		if err != nil {
			return nil, err
		}
		members = append(members, promoted...)
	}
	return members, nil
}

func structMember(ft fieldTag, typ reflect.Type, index []int, c codec) member[reflect.Value] {
	optional := ft.optional || ft.omitEmpty || nilableType(typ)
	return member[reflect.Value]{
		name:     ft.name,
		required: ft.required || !optional,
		omit:     ft.omitEmpty,
		encode: func(m *Mapper, v reflect.Value) (nbt.Tag, bool, bool, error) {
			fv := v.FieldByIndex(index)
			if nilable(fv) && fv.IsNil() {
				return nil, true, true, nil
			}
			t, err := c.toTag(m, fv)
			return t, fv.IsZero(), false, err
		},
		decode: func(m *Mapper, t nbt.Tag, v reflect.Value) error {
			return c.fromTag(m, t, v.FieldByIndex(index))
		},
		reset: func(v reflect.Value) {
			v.FieldByIndex(index).SetZero()
		},
	}
}
