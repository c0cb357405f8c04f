package hydrator

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/datazip-inc/olake-hydrator/featureflag"
	"github.com/datazip-inc/olake-hydrator/types"
)

// CatalogStore returns the configured catalog of a connection, nil when none is saved
type CatalogStore interface {
	GetCatalog(ctx context.Context, connectionID uuid.UUID) (*types.Catalog, error)
}

// StateStore reads and writes connection checkpoint state; a nil state means none is saved
type StateStore interface {
	GetState(ctx context.Context, connectionID uuid.UUID) (types.StateWrapper, error)
	PutState(ctx context.Context, connectionID uuid.UUID, state types.StateWrapper) error
}

type JobHistory interface {
	// GetLastReplicationJob returns nil when the connection never ran
	GetLastReplicationJob(ctx context.Context, connectionID uuid.UUID) (*types.Job, error)
	SaveStreamMetadata(ctx context.Context, jobID, attemptNumber int64, metadata []types.StreamAttemptMetadata) error
}

// SecretHydrator replaces secret coordinates in a connector configuration with their values
type SecretHydrator interface {
	Hydrate(ctx context.Context, config json.RawMessage) (json.RawMessage, error)
}

type FeatureFlags interface {
	IsEnabled(flag string, scope featureflag.Scope) bool
}
