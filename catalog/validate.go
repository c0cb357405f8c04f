package catalog

import (
	"context"
	"runtime"

	"github.com/datazip-inc/olake-hydrator/types"
	"github.com/datazip-inc/olake-hydrator/utils"
)

// Prepare checks descriptor uniqueness and applies field selection to every stream
// concurrently. All stream failures are reported together; on failure no catalog is returned.
func Prepare(ctx context.Context, catalog *types.Catalog) (*types.Catalog, error) {
	if err := catalog.Validate(); err != nil {
		return nil, types.NewValidationError("%s", err)
	}

	prepared := make([]*types.ConfiguredStream, len(catalog.Streams))
	err := utils.ConcurrentCollect(ctx, catalog.Streams, runtime.GOMAXPROCS(0), func(_ context.Context, idx int, stream *types.ConfiguredStream) error {
		trimmed, err := ApplyFieldSelection(stream)
		if err != nil {
			return err
		}
		prepared[idx] = trimmed
		return nil
	})
	if err != nil {
		return nil, err
	}

	return types.NewCatalog(prepared...), nil
}
