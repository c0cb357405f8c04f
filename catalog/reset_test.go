package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datazip-inc/olake-hydrator/types"
)

func TestTransformForReset(t *testing.T) {
	catalog := types.NewCatalog(
		newStream("A", types.INCREMENTAL, types.APPEND, "id"),
		newStream("B", types.FULLREFRESH, types.APPEND, "id"),
		newStream("C", types.INCREMENTAL, types.APPENDDEDUP, "id"),
	)

	t.Run("keeps only reset targets rewritten to full refresh overwrite", func(t *testing.T) {
		reset := TransformForReset(catalog, []types.StreamDescriptor{descriptor("A")})

		require.Len(t, reset.Streams, 1)
		assert.Equal(t, descriptor("A"), reset.Streams[0].Descriptor())
		assert.Equal(t, types.FULLREFRESH, reset.Streams[0].SyncMode)
		assert.Equal(t, types.OVERWRITE, reset.Streams[0].DestinationSyncMode)
	})

	t.Run("preserves catalog order", func(t *testing.T) {
		reset := TransformForReset(catalog, []types.StreamDescriptor{descriptor("C"), descriptor("A")})

		assert.Equal(t, []types.StreamDescriptor{descriptor("A"), descriptor("C")}, reset.Descriptors())
		for _, stream := range reset.Streams {
			assert.Equal(t, types.FULLREFRESH, stream.SyncMode)
			assert.Equal(t, types.OVERWRITE, stream.DestinationSyncMode)
		}
	})

	t.Run("targets missing from catalog are ignored", func(t *testing.T) {
		reset := TransformForReset(catalog, []types.StreamDescriptor{descriptor("Z"), descriptor("B")})
		assert.Equal(t, []types.StreamDescriptor{descriptor("B")}, reset.Descriptors())
	})

	t.Run("empty reset set yields empty catalog", func(t *testing.T) {
		reset := TransformForReset(catalog, nil)
		assert.NotNil(t, reset.Streams)
		assert.Empty(t, reset.Streams)
	})

	t.Run("namespace is part of identity", func(t *testing.T) {
		reset := TransformForReset(catalog, []types.StreamDescriptor{types.NewStreamDescriptor("other", "A")})
		assert.Empty(t, reset.Streams)
	})

	t.Run("input catalog is not mutated", func(t *testing.T) {
		_ = TransformForReset(catalog, catalog.Descriptors())
		assert.Equal(t, types.INCREMENTAL, catalog.Streams[0].SyncMode)
		assert.Equal(t, types.APPEND, catalog.Streams[0].DestinationSyncMode)
		assert.Equal(t, types.APPENDDEDUP, catalog.Streams[2].DestinationSyncMode)
	})

	t.Run("idempotent", func(t *testing.T) {
		targets := []types.StreamDescriptor{descriptor("A"), descriptor("C")}
		once := TransformForReset(catalog, targets)
		twice := TransformForReset(once, targets)
		assert.Equal(t, once, twice)
	})
}
