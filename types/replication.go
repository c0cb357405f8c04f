package types

import (
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// NamespaceDefinition decides which namespace records land in at the destination
type NamespaceDefinition string

const (
	NamespaceSource       NamespaceDefinition = "source"
	NamespaceDestination  NamespaceDefinition = "destination"
	NamespaceCustomFormat NamespaceDefinition = "customformat"
)

type JobRunConfig struct {
	JobID     int64 `json:"job_id" validate:"gte=0"`
	AttemptID int64 `json:"attempt_id" validate:"gte=0"`
}

type ResourceRequirements struct {
	CPURequest    string `json:"cpu_request,omitempty"`
	CPULimit      string `json:"cpu_limit,omitempty"`
	MemoryRequest string `json:"memory_request,omitempty"`
	MemoryLimit   string `json:"memory_limit,omitempty"`
}

type SyncResourceRequirements struct {
	Source       *ResourceRequirements `json:"source,omitempty"`
	Destination  *ResourceRequirements `json:"destination,omitempty"`
	Orchestrator *ResourceRequirements `json:"orchestrator,omitempty"`
}

// LauncherConfig tells the worker which connector image to start
type LauncherConfig struct {
	JobID             int64             `json:"job_id"`
	AttemptID         int64             `json:"attempt_id"`
	ConnectionID      uuid.UUID         `json:"connection_id"`
	WorkspaceID       uuid.UUID         `json:"workspace_id"`
	DockerImage       string            `json:"docker_image" validate:"required"`
	IsCustomConnector bool              `json:"is_custom_connector,omitempty"`
	AdditionalEnv     map[string]string `json:"additional_env,omitempty"`
}

type ConnectionContext struct {
	WorkspaceID    uuid.UUID  `json:"workspace_id"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
	SourceID       uuid.UUID  `json:"source_id"`
	DestinationID  uuid.UUID  `json:"destination_id"`
}

// SchemaRefreshOutput carries the diff applied by the schema refresh that preceded the attempt
type SchemaRefreshOutput struct {
	AppliedDiff *CatalogDiff `json:"applied_diff,omitempty"`
}

// ReplicationActivityInput is what the workflow engine hands to the replication activity.
// Connector configurations carry secret coordinates only, never plaintext.
type ReplicationActivityInput struct {
	SourceID                  uuid.UUID                 `json:"source_id" validate:"required"`
	DestinationID             uuid.UUID                 `json:"destination_id" validate:"required"`
	SourceConfiguration       json.RawMessage           `json:"source_configuration" validate:"required"`
	DestinationConfiguration  json.RawMessage           `json:"destination_configuration" validate:"required"`
	JobRunConfig              JobRunConfig              `json:"job_run_config"`
	SourceLauncherConfig      *LauncherConfig           `json:"source_launcher_config" validate:"required"`
	DestinationLauncherConfig *LauncherConfig           `json:"destination_launcher_config" validate:"required"`
	SyncResourceRequirements  *SyncResourceRequirements `json:"sync_resource_requirements,omitempty"`
	WorkspaceID               uuid.UUID                 `json:"workspace_id" validate:"required"`
	ConnectionID              uuid.UUID                 `json:"connection_id" validate:"required"`
	IsReset                   bool                      `json:"is_reset"`
	NamespaceDefinition       NamespaceDefinition       `json:"namespace_definition,omitempty"`
	NamespaceFormat           string                    `json:"namespace_format,omitempty"`
	Prefix                    string                    `json:"prefix,omitempty"`
	SchemaRefreshOutput       *SchemaRefreshOutput      `json:"schema_refresh_output,omitempty"`
	ConnectionContext         *ConnectionContext        `json:"connection_context,omitempty"`
}

// AppliedDiff returns the schema refresh diff, nil when no refresh preceded the attempt
func (in *ReplicationActivityInput) AppliedDiff() *CatalogDiff {
	if in.SchemaRefreshOutput == nil {
		return nil
	}
	return in.SchemaRefreshOutput.AppliedDiff
}

func (in *ReplicationActivityInput) OrganizationID() *uuid.UUID {
	if in.ConnectionContext == nil {
		return nil
	}
	return in.ConnectionContext.OrganizationID
}

// ReplicationInput is the fully hydrated bundle handed to the data-movement workers
type ReplicationInput struct {
	NamespaceDefinition       NamespaceDefinition       `json:"namespace_definition,omitempty"`
	NamespaceFormat           string                    `json:"namespace_format,omitempty"`
	Prefix                    string                    `json:"prefix,omitempty"`
	SourceID                  uuid.UUID                 `json:"source_id"`
	DestinationID             uuid.UUID                 `json:"destination_id"`
	SourceConfiguration       json.RawMessage           `json:"source_configuration"`
	DestinationConfiguration  json.RawMessage           `json:"destination_configuration"`
	SyncResourceRequirements  *SyncResourceRequirements `json:"sync_resource_requirements,omitempty"`
	WorkspaceID               uuid.UUID                 `json:"workspace_id"`
	ConnectionID              uuid.UUID                 `json:"connection_id"`
	IsReset                   bool                      `json:"is_reset"`
	JobRunConfig              JobRunConfig              `json:"job_run_config"`
	SourceLauncherConfig      *LauncherConfig           `json:"source_launcher_config"`
	DestinationLauncherConfig *LauncherConfig           `json:"destination_launcher_config"`
	Catalog                   *Catalog                  `json:"catalog"`
	State                     StateWrapper              `json:"-"`
	StreamsToBackfill         []StreamDescriptor        `json:"streams_to_backfill,omitempty"`
}

// MarshalJSON encodes the state union as a tagged document
func (r *ReplicationInput) MarshalJSON() ([]byte, error) {
	type Alias ReplicationInput
	return json.Marshal(&struct {
		*Alias
		State *StateDocument `json:"state,omitempty"`
	}{
		Alias: (*Alias)(r),
		State: NewStateDocument(r.State),
	})
}

func (r *ReplicationInput) UnmarshalJSON(data []byte) error {
	type Alias ReplicationInput
	aux := &struct {
		*Alias
		State *StateDocument `json:"state,omitempty"`
	}{
		Alias: (*Alias)(r),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	state, err := aux.State.Wrapper()
	if err != nil {
		return err
	}
	r.State = state
	return nil
}
