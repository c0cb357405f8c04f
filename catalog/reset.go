package catalog

import (
	"github.com/datazip-inc/olake-hydrator/types"
)

// TransformForReset keeps only the streams being reset, rewritten to full refresh | overwrite.
// The reset source emits no records, so streams outside the reset set must not reach the
// destination at all. Reset targets missing from the catalog are ignored.
func TransformForReset(catalog *types.Catalog, streamsToReset []types.StreamDescriptor) *types.Catalog {
	resetSet := types.DescriptorSet(streamsToReset...)

	reset := types.NewCatalog()
	for _, stream := range catalog.Streams {
		if !resetSet.Exists(stream.Descriptor()) {
			continue
		}
		rewritten := stream.Clone()
		rewritten.SyncMode = types.FULLREFRESH
		rewritten.DestinationSyncMode = types.OVERWRITE
		reset.Streams = append(reset.Streams, rewritten)
	}

	return reset
}
