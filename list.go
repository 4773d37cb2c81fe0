package nbt

import (
	"fmt"
	"iter"
	"slices"
)

// List is an ordered, homogeneous sequence of tags. The element type is
// recorded once and every member matches it; an empty list still carries an
// element type, End when nothing else is known.
//
// A List is immutable: Append returns a new List sharing the existing
// members. The zero value is an empty list of End.
type List struct {
	elem  Type
	items []Tag
}

// EmptyList returns an empty list with the given element type.
func EmptyList(elem Type) List { return List{elem: elem} }

// NewList builds a list of elem from items. When elem is End and items are
// given, the list adopts the type of the first item. Every item must match
// the element type, otherwise ErrTypeMismatch is returned.
func NewList(elem Type, items ...Tag) (List, error) {
	if !elem.Valid() {
		return List{}, fmt.Errorf("%w: list element %s", ErrUnknownTagType, elem)
	}
	if elem == TypeEnd && len(items) > 0 && items[0] != nil {
		elem = items[0].Type()
	}
	for i, item := range items {
		if err := checkElem(elem, item); err != nil {
			return List{}, fmt.Errorf("list index %d: %w", i, err)
		}
	}
	return List{elem: elem, items: slices.Clone(items)}, nil
}

func checkElem(elem Type, item Tag) error {
	if item == nil {
		return fmt.Errorf("%w: nil list element", ErrTypeMismatch)
	}
	if item.Type() == TypeEnd {
		return fmt.Errorf("%w: End cannot be a list element", ErrTypeMismatch)
	}
	if item.Type() != elem {
		return mismatch(elem, item.Type())
	}
	return nil
}

func (List) Type() Type { return TypeList }
func (List) tag()       {}

// Elem returns the element type.
func (l List) Elem() Type { return l.elem }

// Len returns the number of members.
func (l List) Len() int { return len(l.items) }

// At returns the i-th member. It panics if i is out of range.
func (l List) At(i int) Tag { return l.items[i] }

// All iterates over the members in order.
func (l List) All() iter.Seq2[int, Tag] {
	return func(yield func(int, Tag) bool) {
		for i, t := range l.items {
			if !yield(i, t) {
				return
			}
		}
	}
}

// Append returns a list with v added at the end. An empty End list adopts the
// type of v; any other mismatch fails with ErrTypeMismatch.
func (l List) Append(v Tag) (List, error) {
	elem := l.elem
	if elem == TypeEnd && len(l.items) == 0 && v != nil {
		elem = v.Type()
	}
	if err := checkElem(elem, v); err != nil {
		return l, err
	}
	return List{elem: elem, items: append(slices.Clip(l.items), v)}, nil
}

// ListBuilder accumulates members for a List. Like the package's Writer it
// latches the first error: after a failed Add, further Adds are no-ops and
// Build reports the error.
type ListBuilder struct {
	elem  Type
	items []Tag
	err   error
}

// NewListBuilder returns a builder for a list of elem. Passing End lets the
// first added member decide the type.
func NewListBuilder(elem Type) *ListBuilder {
	b := &ListBuilder{elem: elem}
	if !elem.Valid() {
		b.err = fmt.Errorf("%w: list element %s", ErrUnknownTagType, elem)
	}
	return b
}

// Add appends v.
func (b *ListBuilder) Add(v Tag) *ListBuilder {
	if b.err != nil {
		return b
	}
	if b.elem == TypeEnd && len(b.items) == 0 && v != nil {
		b.elem = v.Type()
	}
	if err := checkElem(b.elem, v); err != nil {
		b.err = fmt.Errorf("list index %d: %w", len(b.items), err)
		return b
	}
	b.items = append(b.items, v)
	return b
}

// Err returns the first error recorded by Add.
func (b *ListBuilder) Err() error { return b.err }

// Build publishes the list and resets the builder.
func (b *ListBuilder) Build() (List, error) {
	l, err := List{elem: b.elem, items: b.items}, b.err
	*b = ListBuilder{elem: b.elem}
	if err != nil {
		return List{}, err
	}
	return l, nil
}
