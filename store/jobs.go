package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/datazip-inc/olake-hydrator/types"
)

type jobRow struct {
	ID           int64          `db:"id"`
	ConnectionID string         `db:"connection_id"`
	ConfigType   string         `db:"config_type"`
	ResetConfig  sql.NullString `db:"reset_config"`
	CreatedAt    int64          `db:"created_at"`
}

type streamMetadataRow struct {
	Namespace     string `db:"stream_namespace"`
	Name          string `db:"stream_name"`
	WasBackfilled bool   `db:"was_backfilled"`
	WasResumed    bool   `db:"was_resumed"`
}

func (s *Store) RecordJob(ctx context.Context, job *types.Job) error {
	var resetConfig sql.NullString
	if job.ResetConfig != nil {
		encoded, err := json.Marshal(job.ResetConfig)
		if err != nil {
			return err
		}
		resetConfig = sql.NullString{String: string(encoded), Valid: true}
	}

	createdAt := nowMillis()
	if !job.CreatedAt.IsZero() {
		createdAt = job.CreatedAt.UTC().UnixMilli()
	}

	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO jobs (id, connection_id, config_type, reset_config, created_at) VALUES (?, ?, ?, ?, ?)`),
		job.ID, job.ConnectionID.String(), string(job.ConfigType), resetConfig, createdAt)
	return wrapf(err, "failed to record job[%d]", job.ID)
}

// GetLastReplicationJob returns the most recent job of the connection, nil when it never ran
func (s *Store) GetLastReplicationJob(ctx context.Context, connectionID uuid.UUID) (*types.Job, error) {
	row := jobRow{}
	err := s.db.GetContext(ctx, &row, s.rebind(`SELECT id, connection_id, config_type, reset_config, created_at FROM jobs
WHERE connection_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`), connectionID.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapf(err, "failed to read last job of connection[%s]", connectionID)
	}

	job := &types.Job{
		ID:           row.ID,
		ConnectionID: connectionID,
		ConfigType:   types.JobConfigType(row.ConfigType),
		CreatedAt:    fromMillis(row.CreatedAt),
	}
	if row.ResetConfig.Valid {
		job.ResetConfig = &types.ResetConfig{}
		if err := json.Unmarshal([]byte(row.ResetConfig.String), job.ResetConfig); err != nil {
			return nil, types.NewValidationError("reset config of job[%d] is malformed: %s", row.ID, err)
		}
	}
	return job, nil
}

// SaveStreamMetadata upserts the metadata of every stream of an attempt in one transaction
func (s *Store) SaveStreamMetadata(ctx context.Context, jobID, attemptNumber int64, metadata []types.StreamAttemptMetadata) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrapf(err, "failed to begin stream metadata write")
	}

	query := tx.Rebind(`INSERT INTO stream_attempt_metadata (job_id, attempt_number, stream_namespace, stream_name, was_backfilled, was_resumed)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (job_id, attempt_number, stream_namespace, stream_name)
DO UPDATE SET was_backfilled = excluded.was_backfilled, was_resumed = excluded.was_resumed`)
	for _, stream := range metadata {
		if _, err := tx.ExecContext(ctx, query, jobID, attemptNumber, stream.Descriptor.Namespace, stream.Descriptor.Name, stream.WasBackfilled, stream.WasResumed); err != nil {
			_ = tx.Rollback()
			return wrapf(err, "failed to save metadata of stream[%s] job[%d] attempt[%d]", stream.Descriptor, jobID, attemptNumber)
		}
	}

	return wrapf(tx.Commit(), "failed to commit stream metadata of job[%d] attempt[%d]", jobID, attemptNumber)
}

// StreamMetadata lists the saved metadata of an attempt ordered by stream
func (s *Store) StreamMetadata(ctx context.Context, jobID, attemptNumber int64) ([]types.StreamAttemptMetadata, error) {
	var rows []streamMetadataRow
	err := s.db.SelectContext(ctx, &rows, s.rebind(`SELECT stream_namespace, stream_name, was_backfilled, was_resumed FROM stream_attempt_metadata
WHERE job_id = ? AND attempt_number = ? ORDER BY stream_namespace, stream_name`), jobID, attemptNumber)
	if err != nil {
		return nil, wrapf(err, "failed to read stream metadata of job[%d] attempt[%d]", jobID, attemptNumber)
	}

	metadata := make([]types.StreamAttemptMetadata, 0, len(rows))
	for _, row := range rows {
		metadata = append(metadata, types.StreamAttemptMetadata{
			Descriptor:    types.NewStreamDescriptor(row.Namespace, row.Name),
			WasBackfilled: row.WasBackfilled,
			WasResumed:    row.WasResumed,
		})
	}
	return metadata, nil
}
