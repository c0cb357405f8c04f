package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/datazip-inc/olake-hydrator/types"
)

// GetCatalog returns the saved catalog, nil when the connection has none
func (s *Store) GetCatalog(ctx context.Context, connectionID uuid.UUID) (*types.Catalog, error) {
	var raw string
	err := s.db.GetContext(ctx, &raw, s.rebind(`SELECT catalog FROM connection_catalog WHERE connection_id = ?`), connectionID.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapf(err, "failed to read catalog of connection[%s]", connectionID)
	}

	catalog := &types.Catalog{}
	if err := json.Unmarshal([]byte(raw), catalog); err != nil {
		return nil, types.NewValidationError("stored catalog of connection[%s] is malformed: %s", connectionID, err)
	}
	return catalog, nil
}

func (s *Store) PutCatalog(ctx context.Context, connectionID uuid.UUID, catalog *types.Catalog) error {
	if err := catalog.Validate(); err != nil {
		return types.NewValidationError("%s", err)
	}
	encoded, err := json.Marshal(catalog)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`INSERT INTO connection_catalog (connection_id, catalog, updated_at) VALUES (?, ?, ?)
ON CONFLICT (connection_id) DO UPDATE SET catalog = excluded.catalog, updated_at = excluded.updated_at`),
		connectionID.String(), string(encoded), nowMillis())
	return wrapf(err, "failed to write catalog of connection[%s]", connectionID)
}
