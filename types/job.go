package types

import (
	"time"

	"github.com/google/uuid"
)

type JobConfigType string

const (
	JobSync        JobConfigType = "sync"
	JobResetStream JobConfigType = "reset_connection"
	JobRefresh     JobConfigType = "refresh"
)

// ResetConfig names the streams a reset job empties
type ResetConfig struct {
	StreamsToReset []StreamDescriptor `json:"streams_to_reset"`
}

// Job is a replication job as recorded in the job history
type Job struct {
	ID           int64         `json:"id"`
	ConnectionID uuid.UUID     `json:"connection_id"`
	ConfigType   JobConfigType `json:"config_type"`
	ResetConfig  *ResetConfig  `json:"reset_config,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// StreamsToReset returns the reset targets, nil when the job carries no reset config
func (j *Job) StreamsToReset() []StreamDescriptor {
	if j == nil || j.ResetConfig == nil {
		return nil
	}
	return j.ResetConfig.StreamsToReset
}

// StreamAttemptMetadata records how a stream starts a sync attempt
type StreamAttemptMetadata struct {
	Descriptor    StreamDescriptor `json:"stream_descriptor"`
	WasBackfilled bool             `json:"was_backfilled"`
	WasResumed    bool             `json:"was_resumed"`
}
