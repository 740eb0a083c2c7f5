package masterdata

import (
	"fmt"
	"os"
	"strings"

	"sigs.k8s.io/yaml"
)

// DefaultAttribute is queried for any master data type the map does not know.
const DefaultAttribute = "ZMDMPLATFORMNAME"

// Entry pairs a logical master data type with its IBP attribute.
type Entry struct {
	Type      string `json:"type"`
	Attribute string `json:"attribute"`
}

var builtinEntries = []Entry{
	{Type: "PFAM", Attribute: "ZMDMPLATFORMNAME"},
	{Type: "Resource", Attribute: "ZMDMRESOURCENAME"},
	{Type: "Supplier", Attribute: "ZMDMSUPPLIERNAME"},
}

// AttributeMap resolves logical master data types to IBP attributes. It is
// built once and never mutated afterwards.
type AttributeMap struct {
	entries  []Entry
	lookup   map[string]string
	fallback string
}

// DefaultAttributeMap returns the built-in PFAM/Resource/Supplier map.
func DefaultAttributeMap() *AttributeMap {
	m, err := NewAttributeMap(builtinEntries, DefaultAttribute)
	if err != nil {
		panic(err)
	}
	return m
}

// NewAttributeMap validates entries and builds an immutable map.
func NewAttributeMap(entries []Entry, fallback string) (*AttributeMap, error) {
	if strings.TrimSpace(fallback) == "" {
		return nil, fmt.Errorf("default attribute is required")
	}
	m := &AttributeMap{
		entries:  make([]Entry, 0, len(entries)),
		lookup:   make(map[string]string, len(entries)),
		fallback: fallback,
	}
	for i, e := range entries {
		if e.Type == "" || e.Attribute == "" {
			return nil, fmt.Errorf("entry %d: type and attribute are required", i)
		}
		if _, dup := m.lookup[e.Type]; dup {
			return nil, fmt.Errorf("entry %d: duplicate type %q", i, e.Type)
		}
		m.lookup[e.Type] = e.Attribute
		m.entries = append(m.entries, e)
	}
	return m, nil
}

// Resolve returns the attribute for typ, or the default attribute.
func (m *AttributeMap) Resolve(typ string) string {
	if attr, ok := m.lookup[typ]; ok {
		return attr
	}
	return m.fallback
}

// ResolveAll resolves every type in order, keeping duplicates.
func (m *AttributeMap) ResolveAll(types []string) []string {
	attrs := make([]string, len(types))
	for i, typ := range types {
		attrs[i] = m.Resolve(typ)
	}
	return attrs
}

// Default returns the fallback attribute.
func (m *AttributeMap) Default() string {
	return m.fallback
}

// Entries returns a copy of the configured entries; the default is not included.
func (m *AttributeMap) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

type attributeMapFile struct {
	Default string  `json:"default"`
	Types   []Entry `json:"types"`
}

// LoadAttributeMap reads a YAML attribute map. An empty path yields the
// built-in map.
func LoadAttributeMap(path string) (*AttributeMap, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultAttributeMap(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attribute map %s: %w", path, err)
	}
	return ParseAttributeMap(data)
}

// ParseAttributeMap decodes the YAML attribute map format.
func ParseAttributeMap(data []byte) (*AttributeMap, error) {
	var raw attributeMapFile
	if err := yaml.UnmarshalStrict(data, &raw); err != nil {
		return nil, fmt.Errorf("parse attribute map: %w", err)
	}
	if len(raw.Types) == 0 {
		return nil, fmt.Errorf("attribute map has no types")
	}
	return NewAttributeMap(raw.Types, raw.Default)
}
