package types

// StreamTransformType describes a stream-level schema change
type StreamTransformType string

const (
	AddStream    StreamTransformType = "add_stream"
	RemoveStream StreamTransformType = "remove_stream"
	UpdateStream StreamTransformType = "update_stream"
)

// FieldTransformType describes a field-level schema change inside an updated stream
type FieldTransformType string

const (
	AddField          FieldTransformType = "add_field"
	RemoveField       FieldTransformType = "remove_field"
	UpdateFieldSchema FieldTransformType = "update_field_schema"
)

type FieldTransform struct {
	TransformType FieldTransformType `json:"transform_type"`
	FieldName     FieldPath          `json:"field_name,omitempty"`
	Breaking      bool               `json:"breaking,omitempty"`
}

type StreamTransform struct {
	TransformType    StreamTransformType `json:"transform_type"`
	StreamDescriptor StreamDescriptor    `json:"stream_descriptor"`
	FieldTransforms  []FieldTransform    `json:"update_stream,omitempty"`
}

// AddsField reports whether the transform introduces at least one new field
func (t StreamTransform) AddsField() bool {
	for _, field := range t.FieldTransforms {
		if field.TransformType == AddField {
			return true
		}
	}
	return false
}

// CatalogDiff lists schema changes detected between two syncs; at most one transform per stream
type CatalogDiff struct {
	Transforms []StreamTransform `json:"transforms"`
}
