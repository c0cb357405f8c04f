package types

import (
	"strings"
)

// FieldPath addresses a property by its ordered names from the schema root
type FieldPath []string

func (p FieldPath) TopLevel() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

func (p FieldPath) String() string {
	return strings.Join(p, ".")
}

// Stream is the source-side description of a stream
type Stream struct {
	Name       string      `json:"name"`
	Namespace  string      `json:"namespace,omitempty"`
	JSONSchema *TypeSchema `json:"json_schema,omitempty"`
}

func NewStream(name, namespace string, schema *TypeSchema) *Stream {
	if schema == nil {
		schema = NewTypeSchema(nil)
	}
	return &Stream{Name: name, Namespace: namespace, JSONSchema: schema}
}

// Wrap configures the stream with the given modes
func (s *Stream) Wrap(syncMode SyncMode, destinationSyncMode DestinationSyncMode) *ConfiguredStream {
	return &ConfiguredStream{
		Stream:              s,
		SyncMode:            syncMode,
		DestinationSyncMode: destinationSyncMode,
	}
}

// ConfiguredStream is a stream together with how it should be replicated
type ConfiguredStream struct {
	Stream              *Stream             `json:"stream"`
	SyncMode            SyncMode            `json:"sync_mode"`
	DestinationSyncMode DestinationSyncMode `json:"destination_sync_mode"`

	// Column that's being used as cursor for incremental reads; MUST NOT BE mutated
	CursorField FieldPath   `json:"cursor_field,omitempty"`
	PrimaryKey  []FieldPath `json:"primary_key,omitempty"`

	SelectedFields        []FieldPath `json:"selected_fields,omitempty"`
	FieldSelectionEnabled bool        `json:"field_selection_enabled,omitempty"`
}

func (s *ConfiguredStream) ID() string {
	return s.Descriptor().ID()
}

func (s *ConfiguredStream) Name() string {
	return s.Stream.Name
}

func (s *ConfiguredStream) Namespace() string {
	return s.Stream.Namespace
}

func (s *ConfiguredStream) Descriptor() StreamDescriptor {
	return StreamDescriptor{Name: s.Stream.Name, Namespace: s.Stream.Namespace}
}

func (s *ConfiguredStream) Schema() *TypeSchema {
	return s.Stream.JSONSchema
}

func (s *ConfiguredStream) GetSyncMode() SyncMode {
	return s.SyncMode
}

func (s *ConfiguredStream) Cursor() FieldPath {
	return s.CursorField
}

// Clone deep-copies the configuration; the schema is copied as well
func (s *ConfiguredStream) Clone() *ConfiguredStream {
	clone := *s
	if s.Stream != nil {
		stream := *s.Stream
		stream.JSONSchema = s.Stream.JSONSchema.Clone()
		clone.Stream = &stream
	}
	clone.CursorField = clonePath(s.CursorField)
	clone.PrimaryKey = clonePaths(s.PrimaryKey)
	clone.SelectedFields = clonePaths(s.SelectedFields)
	return &clone
}

func clonePath(p FieldPath) FieldPath {
	if p == nil {
		return nil
	}
	return append(FieldPath{}, p...)
}

func clonePaths(paths []FieldPath) []FieldPath {
	if paths == nil {
		return nil
	}
	out := make([]FieldPath, len(paths))
	for i, p := range paths {
		out[i] = clonePath(p)
	}
	return out
}
