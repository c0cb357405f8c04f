package catalog

import (
	"github.com/goccy/go-json"

	"github.com/datazip-inc/olake-hydrator/types"
)

func schemaWith(fields ...string) *types.TypeSchema {
	properties := map[string]json.RawMessage{}
	for _, field := range fields {
		properties[field] = json.RawMessage(`{"type":["null","string"]}`)
	}
	return types.NewTypeSchema(properties)
}

func newStream(name string, syncMode types.SyncMode, destMode types.DestinationSyncMode, fields ...string) *types.ConfiguredStream {
	return types.NewStream(name, "public", schemaWith(fields...)).Wrap(syncMode, destMode)
}

func paths(names ...string) []types.FieldPath {
	out := make([]types.FieldPath, 0, len(names))
	for _, name := range names {
		out = append(out, types.FieldPath{name})
	}
	return out
}

func descriptor(name string) types.StreamDescriptor {
	return types.NewStreamDescriptor("public", name)
}
