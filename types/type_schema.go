package types

import (
	"sort"

	"github.com/goccy/go-json"
)

const schemaPropertiesKey = "properties"

// TypeSchema is a stream's JSON schema. Top-level properties are addressable for field
// selection; every other keyword is carried through untouched.
type TypeSchema struct {
	Properties map[string]json.RawMessage
	keywords   map[string]json.RawMessage
	// properties was present in the decoded document
	declared bool
}

func NewTypeSchema(properties map[string]json.RawMessage) *TypeSchema {
	if properties == nil {
		properties = map[string]json.RawMessage{}
	}
	return &TypeSchema{
		Properties: properties,
		keywords:   map[string]json.RawMessage{"type": json.RawMessage(`"object"`)},
		declared:   true,
	}
}

// MarshalJSON merges properties back with the remaining schema keywords
func (t *TypeSchema) MarshalJSON() ([]byte, error) {
	doc := make(map[string]json.RawMessage, len(t.keywords)+1)
	for key, value := range t.keywords {
		doc[key] = value
	}

	if t.declared || len(t.Properties) > 0 {
		props, err := json.Marshal(t.Properties)
		if err != nil {
			return nil, err
		}
		doc[schemaPropertiesKey] = props
	}

	return json.Marshal(doc)
}

// UnmarshalJSON splits the properties map out of the schema document
func (t *TypeSchema) UnmarshalJSON(data []byte) error {
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	t.Properties = map[string]json.RawMessage{}
	raw, found := doc[schemaPropertiesKey]
	t.declared = found
	if found {
		if err := json.Unmarshal(raw, &t.Properties); err != nil {
			return err
		}
		delete(doc, schemaPropertiesKey)
	}
	t.keywords = doc

	return nil
}

func (t *TypeSchema) HasProperty(name string) bool {
	if t == nil {
		return false
	}
	_, found := t.Properties[name]
	return found
}

// PropertyNames returns the top-level property names sorted
func (t *TypeSchema) PropertyNames() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.Properties))
	for name := range t.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Retain returns a copy holding only the named top-level properties
func (t *TypeSchema) Retain(names *Set[string]) *TypeSchema {
	trimmed := t.Clone()
	for name := range trimmed.Properties {
		if !names.Exists(name) {
			delete(trimmed.Properties, name)
		}
	}
	return trimmed
}

func (t *TypeSchema) Clone() *TypeSchema {
	if t == nil {
		return nil
	}
	clone := &TypeSchema{
		Properties: make(map[string]json.RawMessage, len(t.Properties)),
		keywords:   make(map[string]json.RawMessage, len(t.keywords)),
		declared:   t.declared,
	}
	for key, value := range t.Properties {
		clone.Properties[key] = value
	}
	for key, value := range t.keywords {
		clone.keywords[key] = value
	}
	return clone
}
