// Package catalog validates and rewrites configured catalogs before they reach the workers.
// Everything here is pure: inputs are never mutated and results share no state.
package catalog

import (
	"github.com/datazip-inc/olake-hydrator/types"
)

// ApplyFieldSelection validates a stream's field selection against its cursor, primary key
// and schema, and returns a copy whose schema keeps only the selected top-level properties.
// Streams without field selection are returned unchanged.
func ApplyFieldSelection(stream *types.ConfiguredStream) (*types.ConfiguredStream, error) {
	if !stream.FieldSelectionEnabled {
		return stream, nil
	}

	if len(stream.SelectedFields) == 0 {
		return nil, types.NewValidationError("stream [%s] has field selection enabled but no selected fields", stream.ID())
	}

	selected := types.NewSet[string]()
	for _, path := range stream.SelectedFields {
		switch {
		case len(path) == 0:
			return nil, types.NewValidationError("stream [%s] selects an empty field path", stream.ID())
		case len(path) > 1:
			return nil, types.NewNotSupportedError("stream [%s] selects nested field [%s]; only top-level fields can be selected", stream.ID(), path)
		}
		selected.Insert(path[0])
	}

	if stream.SyncMode == types.INCREMENTAL && len(stream.CursorField) > 0 && !selected.Exists(stream.CursorField.TopLevel()) {
		return nil, types.NewValidationError("stream [%s] cursor de-selected: cursor field [%s] is not in selected fields %s", stream.ID(), stream.CursorField, selected)
	}

	if stream.DestinationSyncMode == types.APPENDDEDUP {
		for _, key := range stream.PrimaryKey {
			if len(key) > 0 && !selected.Exists(key.TopLevel()) {
				return nil, types.NewValidationError("stream [%s] primary key de-selected: key [%s] is not in selected fields %s", stream.ID(), key, selected)
			}
		}
	}

	schema := stream.Schema()
	for _, name := range selected.Array() {
		if !schema.HasProperty(name) {
			return nil, types.NewValidationError("stream [%s] selects unknown field [%s]; available fields are %v", stream.ID(), name, schema.PropertyNames())
		}
	}

	trimmed := stream.Clone()
	trimmed.Stream.JSONSchema = schema.Retain(selected)
	return trimmed, nil
}
