package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/datazip-inc/olake-hydrator/state"
	"github.com/datazip-inc/olake-hydrator/types"
)

// GetState returns the saved checkpoint, nil when none exists or it is not_set.
// State is stored in its API form.
func (s *Store) GetState(ctx context.Context, connectionID uuid.UUID) (types.StateWrapper, error) {
	var raw string
	err := s.db.GetContext(ctx, &raw, s.rebind(`SELECT state FROM connection_state WHERE connection_id = ?`), connectionID.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapf(err, "failed to read state of connection[%s]", connectionID)
	}

	connectionState, err := state.ParseConnectionState([]byte(raw))
	if err != nil {
		return nil, err
	}
	return state.ToInternal(connectionState), nil
}

func (s *Store) PutState(ctx context.Context, connectionID uuid.UUID, current types.StateWrapper) error {
	encoded, err := json.Marshal(state.ToAPI(connectionID, current))
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`INSERT INTO connection_state (connection_id, state, updated_at) VALUES (?, ?, ?)
ON CONFLICT (connection_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`),
		connectionID.String(), string(encoded), nowMillis())
	return wrapf(err, "failed to write state of connection[%s]", connectionID)
}
