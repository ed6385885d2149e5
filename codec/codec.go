package codec

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hupe1980/arraybench/buffer"
)

// Names of the built-in codecs.
const (
	NameText           = "text"
	NameRaw            = "raw"
	NameSelfDescribing = "self-describing"
)

// Descriptor is the static description of a codec variant.
type Descriptor struct {
	Name           string
	ElementWidth   int
	SelfDescribing bool
	Fidelity       buffer.Fidelity
}

// Outcome reports the bytes moved to or from storage by one operation.
type Outcome struct {
	Bytes int64
}

// Codec writes and reads a flat float64 array.
//
// Read receives the element count n out of band. Codecs whose descriptor is
// SelfDescribing ignore it and callers may pass -1. Errors are *Error values.
type Codec interface {
	Descriptor() Descriptor
	// Extension is the file name extension used for this codec's output, without dot.
	Extension() string
	Write(buf *buffer.Buffer, dst string) (Outcome, error)
	Read(src string, n int) (*buffer.Buffer, Outcome, error)
}

var (
	// ErrDuplicateCodec is returned when registering a name twice.
	ErrDuplicateCodec = errors.New("codec already registered")
	// ErrUnknownCodec is returned when looking up an unregistered name.
	ErrUnknownCodec = errors.New("unknown codec")
)

// Registry maps codec names to codecs in registration order.
// It is populated by the caller at program start and is not safe for
// concurrent registration.
type Registry struct {
	byName map[string]Codec
	order  []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Codec)}
}

// Register adds c under its descriptor name.
func (r *Registry) Register(c Codec) error {
	name := c.Descriptor().Name
	if name == "" {
		return errors.New("codec has empty name")
	}
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCodec, name)
	}
	r.byName[name] = c
	r.order = append(r.order, name)
	return nil
}

// Lookup returns the codec registered under name.
func (r *Registry) Lookup(name string) (Codec, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Codecs returns registered codecs in registration order.
func (r *Registry) Codecs() []Codec {
	out := make([]Codec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Select returns the named codecs in the given order.
// An empty list selects every registered codec.
func (r *Registry) Select(names []string) ([]Codec, error) {
	if len(names) == 0 {
		return r.Codecs(), nil
	}
	out := make([]Codec, 0, len(names))
	for _, name := range names {
		c, ok := r.byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownCodec, name, r.order)
		}
		out = append(out, c)
	}
	return out, nil
}

// Config carries per-variant options for Defaults.
type Config struct {
	Text           []TextOption
	Raw            []RawOption
	SelfDescribing []SelfDescribingOption
}

// Defaults returns a registry holding text, raw and self-describing codecs,
// in that order.
func Defaults(cfg Config) *Registry {
	r := NewRegistry()
	for _, c := range []Codec{
		NewText(cfg.Text...),
		NewRaw(cfg.Raw...),
		NewSelfDescribing(cfg.SelfDescribing...),
	} {
		// Names are distinct constants.
		_ = r.Register(c)
	}
	return r
}
