package catalog

import (
	"github.com/datazip-inc/olake-hydrator/types"
)

// StreamsToBackfill lists, in diff order, the incremental streams that gained a field.
// Full refresh streams re-read everything each sync and streams gone from the catalog
// have nothing to rewind, so both are skipped.
func StreamsToBackfill(diff *types.CatalogDiff, catalog *types.Catalog) []types.StreamDescriptor {
	backfill := []types.StreamDescriptor{}
	if diff == nil || catalog == nil {
		return backfill
	}

	syncModes := make(map[types.StreamDescriptor]types.SyncMode, len(catalog.Streams))
	for _, stream := range catalog.Streams {
		syncModes[stream.Descriptor()] = stream.SyncMode
	}

	for _, transform := range diff.Transforms {
		if !transform.AddsField() {
			continue
		}
		mode, found := syncModes[transform.StreamDescriptor]
		if found && mode == types.INCREMENTAL {
			backfill = append(backfill, transform.StreamDescriptor)
		}
	}

	return backfill
}
