package nbt

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultMaxDepth bounds list and compound nesting.
	DefaultMaxDepth = 512
	// DefaultMaxElements bounds the element count of a single list or array.
	DefaultMaxElements = 1 << 24
	// DefaultMaxStringLength bounds the encoded byte length of one string.
	DefaultMaxStringLength = 1 << 20
)

// Options carries the resource limits and decoding switches shared by the
// Decoder and the Encoder. Limits are always enforced: a zero limit means
// the default, not "unlimited". Only MaxReadSize is off when zero.
type Options struct {
	// MaxDepth is the deepest list or compound nesting accepted.
	MaxDepth int `yaml:"max_depth"`
	// MaxElements is the largest list or array accepted.
	MaxElements int `yaml:"max_elements"`
	// MaxStringLength is the largest encoded string, in bytes.
	MaxStringLength int `yaml:"max_string_length"`
	// MaxReadSize bounds the total bytes one Decode may consume.
	MaxReadSize int64 `yaml:"max_read_size"`

	// InternKeys routes decoded compound keys through Intern.
	InternKeys bool `yaml:"intern_keys"`
	// InternStrings routes decoded String values through Intern.
	InternStrings bool `yaml:"intern_strings"`
	// Intern is the pool used when interning is on. Nil means the shared
	// package pool.
	Intern *InternPool `yaml:"-"`
}

// DefaultOptions returns the default limits.
func DefaultOptions() Options {
	return Options{
		MaxDepth:        DefaultMaxDepth,
		MaxElements:     DefaultMaxElements,
		MaxStringLength: DefaultMaxStringLength,
	}
}

// normalize fills zero limits with defaults.
func (o Options) normalize() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxElements <= 0 {
		o.MaxElements = DefaultMaxElements
	}
	if o.MaxStringLength <= 0 {
		o.MaxStringLength = DefaultMaxStringLength
	}
	if o.Intern == nil && (o.InternKeys || o.InternStrings) {
		o.Intern = sharedInternPool
	}
	return o
}

func optionsOrDefault(o *Options) Options {
	if o == nil {
		return DefaultOptions().normalize()
	}
	return o.normalize()
}

// Validate rejects negative limits.
func (o Options) Validate() error {
	switch {
	case o.MaxDepth < 0:
		return fmt.Errorf("nbt: max_depth must not be negative, got %d", o.MaxDepth)
	case o.MaxElements < 0:
		return fmt.Errorf("nbt: max_elements must not be negative, got %d", o.MaxElements)
	case o.MaxStringLength < 0:
		return fmt.Errorf("nbt: max_string_length must not be negative, got %d", o.MaxStringLength)
	case o.MaxReadSize < 0:
		return fmt.Errorf("nbt: max_read_size must not be negative, got %d", o.MaxReadSize)
	}
	return nil
}

// LoadOptions reads limits from a YAML document. Keys that are omitted keep
// their defaults; unknown keys are rejected so that a typo cannot silently
// disable a limit. An empty document yields DefaultOptions.
func LoadOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("nbt: parsing options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
