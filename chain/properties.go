package chain

import (
	"iter"

	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/metadata"
)

// Properties is the merged property set of an object. Later segments
// overwrite values by name; names keep the position of their first definition.
type Properties struct {
	names  []string
	values map[string]encoding.Value
}

func newProperties() *Properties {
	return &Properties{values: make(map[string]encoding.Value)}
}

func (p *Properties) merge(props []metadata.Property) {
	for _, prop := range props {
		if _, ok := p.values[prop.Name]; !ok {
			p.names = append(p.names, prop.Name)
		}
		p.values[prop.Name] = prop.Value
	}
}

// Get returns the value of the named property.
func (p *Properties) Get(name string) (encoding.Value, bool) {
	v, ok := p.values[name]
	return v, ok
}

// String returns the named property if it exists and is a string.
func (p *Properties) String(name string) (string, bool) {
	v, ok := p.values[name]
	if !ok {
		return "", false
	}

	return v.Str()
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	return len(p.names)
}

// Names returns the property names in definition order.
func (p *Properties) Names() []string {
	return append([]string(nil), p.names...)
}

// All iterates over name and value pairs in definition order.
func (p *Properties) All() iter.Seq2[string, encoding.Value] {
	return func(yield func(string, encoding.Value) bool) {
		for _, name := range p.names {
			if !yield(name, p.values[name]) {
				return
			}
		}
	}
}
