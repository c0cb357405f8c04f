package hydrator

import (
	"context"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/datazip-inc/olake-hydrator/featureflag"
	"github.com/datazip-inc/olake-hydrator/types"
)

// MockStore serves catalog, state and job history from function fields and counts calls
type MockStore struct {
	getCatalogFunc            func(ctx context.Context, connectionID uuid.UUID) (*types.Catalog, error)
	getStateFunc              func(ctx context.Context, connectionID uuid.UUID) (types.StateWrapper, error)
	putStateFunc              func(ctx context.Context, connectionID uuid.UUID, state types.StateWrapper) error
	getLastReplicationJobFunc func(ctx context.Context, connectionID uuid.UUID) (*types.Job, error)
	saveStreamMetadataFunc    func(ctx context.Context, jobID, attemptNumber int64, metadata []types.StreamAttemptMetadata) error

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[name]++
}

func (m *MockStore) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *MockStore) GetCatalog(ctx context.Context, connectionID uuid.UUID) (*types.Catalog, error) {
	m.record("GetCatalog")
	if m.getCatalogFunc != nil {
		return m.getCatalogFunc(ctx, connectionID)
	}
	return nil, nil
}

func (m *MockStore) GetState(ctx context.Context, connectionID uuid.UUID) (types.StateWrapper, error) {
	m.record("GetState")
	if m.getStateFunc != nil {
		return m.getStateFunc(ctx, connectionID)
	}
	return nil, nil
}

func (m *MockStore) PutState(ctx context.Context, connectionID uuid.UUID, state types.StateWrapper) error {
	m.record("PutState")
	if m.putStateFunc != nil {
		return m.putStateFunc(ctx, connectionID, state)
	}
	return nil
}

func (m *MockStore) GetLastReplicationJob(ctx context.Context, connectionID uuid.UUID) (*types.Job, error) {
	m.record("GetLastReplicationJob")
	if m.getLastReplicationJobFunc != nil {
		return m.getLastReplicationJobFunc(ctx, connectionID)
	}
	return nil, nil
}

func (m *MockStore) SaveStreamMetadata(ctx context.Context, jobID, attemptNumber int64, metadata []types.StreamAttemptMetadata) error {
	m.record("SaveStreamMetadata")
	if m.saveStreamMetadataFunc != nil {
		return m.saveStreamMetadataFunc(ctx, jobID, attemptNumber, metadata)
	}
	return nil
}

type MockSecretHydrator struct {
	hydrateFunc func(ctx context.Context, config json.RawMessage) (json.RawMessage, error)
	calls       int
}

func (m *MockSecretHydrator) Hydrate(ctx context.Context, config json.RawMessage) (json.RawMessage, error) {
	m.calls++
	if m.hydrateFunc != nil {
		return m.hydrateFunc(ctx, config)
	}
	return config, nil
}

// MockFlags enables the listed flags for every scope
type MockFlags struct {
	enabled map[string]bool
	scopes  []featureflag.Scope
}

func (m *MockFlags) IsEnabled(flag string, scope featureflag.Scope) bool {
	m.scopes = append(m.scopes, scope)
	return m.enabled[flag]
}
