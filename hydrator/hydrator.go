// Package hydrator turns the thin input handed over by the workflow engine into the complete
// replication input a sync attempt runs with.
package hydrator

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/oklog/ulid"

	"github.com/datazip-inc/olake-hydrator/catalog"
	"github.com/datazip-inc/olake-hydrator/constants"
	"github.com/datazip-inc/olake-hydrator/featureflag"
	"github.com/datazip-inc/olake-hydrator/state"
	"github.com/datazip-inc/olake-hydrator/types"
	"github.com/datazip-inc/olake-hydrator/utils"
	"github.com/datazip-inc/olake-hydrator/utils/logger"
	"github.com/datazip-inc/olake-hydrator/utils/safego"
)

type Hydrator struct {
	catalogs CatalogStore
	states   StateStore
	jobs     JobHistory
	secrets  SecretHydrator
	flags    FeatureFlags

	runtimeSecrets SecretHydrator
	retry          utils.RetryPolicy
	tasks          *safego.TaskQueue
}

type Option func(*Hydrator)

func WithRetryPolicy(policy utils.RetryPolicy) Option {
	return func(h *Hydrator) {
		h.retry = policy
	}
}

// WithRuntimeSecretHydrator sets the hydrator used for organizations that keep secrets in
// their own store
func WithRuntimeSecretHydrator(secrets SecretHydrator) Option {
	return func(h *Hydrator) {
		h.runtimeSecrets = secrets
	}
}

// WithTaskQueue moves stream metadata tracking onto the attempt's background queue
func WithTaskQueue(queue *safego.TaskQueue) Option {
	return func(h *Hydrator) {
		h.tasks = queue
	}
}

func New(catalogs CatalogStore, states StateStore, jobs JobHistory, secrets SecretHydrator, flags FeatureFlags, opts ...Option) *Hydrator {
	h := &Hydrator{
		catalogs: catalogs,
		states:   states,
		jobs:     jobs,
		secrets:  secrets,
		flags:    flags,
		retry: utils.RetryPolicy{
			InitialInterval: constants.DefaultRetryInitialInterval,
			MaxInterval:     constants.DefaultRetryMaxInterval,
			MaxRetries:      constants.DefaultMaxRetries,
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hydrate assembles the replication input for one sync attempt. Any failing step aborts the
// whole call. The only side effect is the flag-gated write of backfill-cleared state.
func (h *Hydrator) Hydrate(ctx context.Context, input *types.ReplicationActivityInput) (*types.ReplicationInput, error) {
	if err := utils.Validate(input); err != nil {
		return nil, err
	}

	runID := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	connectionID := input.ConnectionID
	logger.Infof("run[%s] hydrating replication input for connection[%s] job[%d] attempt[%d]", runID, connectionID, input.JobRunConfig.JobID, input.JobRunConfig.AttemptID)

	configured, err := h.retrieveCatalog(ctx, input)
	if err != nil {
		return nil, err
	}

	if input.IsReset {
		configured, err = h.catalogForReset(ctx, runID, input, configured)
		if err != nil {
			return nil, err
		}
	}

	current, err := utils.RetryExec(ctx, h.retry, "get state", types.IsRetryable, func(ctx context.Context) (types.StateWrapper, error) {
		return h.states.GetState(ctx, connectionID)
	})
	if err != nil {
		return nil, err
	}

	var backfill []types.StreamDescriptor
	if diff := input.AppliedDiff(); diff != nil {
		backfill = catalog.StreamsToBackfill(diff, configured)
		current, err = h.clearForBackfill(ctx, runID, input, current, backfill)
		if err != nil {
			return nil, err
		}
	}

	h.trackBackfillAndResume(input, current, backfill)

	sourceConfig, destinationConfig, err := h.hydrateConfigs(ctx, input)
	if err != nil {
		return nil, err
	}

	logger.Infof("run[%s] hydrated %d stream(s), %d to backfill", runID, len(configured.Streams), len(backfill))
	return &types.ReplicationInput{
		NamespaceDefinition:       input.NamespaceDefinition,
		NamespaceFormat:           input.NamespaceFormat,
		Prefix:                    input.Prefix,
		SourceID:                  input.SourceID,
		DestinationID:             input.DestinationID,
		SourceConfiguration:       sourceConfig,
		DestinationConfiguration:  destinationConfig,
		SyncResourceRequirements:  input.SyncResourceRequirements,
		WorkspaceID:               input.WorkspaceID,
		ConnectionID:              connectionID,
		IsReset:                   input.IsReset,
		JobRunConfig:              input.JobRunConfig,
		SourceLauncherConfig:      input.SourceLauncherConfig,
		DestinationLauncherConfig: input.DestinationLauncherConfig,
		Catalog:                   configured,
		State:                     current,
		StreamsToBackfill:         backfill,
	}, nil
}

func (h *Hydrator) retrieveCatalog(ctx context.Context, input *types.ReplicationActivityInput) (*types.Catalog, error) {
	configured, err := utils.RetryExec(ctx, h.retry, "get catalog", types.IsRetryable, func(ctx context.Context) (*types.Catalog, error) {
		return h.catalogs.GetCatalog(ctx, input.ConnectionID)
	})
	if err != nil {
		return nil, err
	}
	if configured == nil {
		return nil, types.NewIllegalStateError("connection[%s] is missing catalog, which is required", input.ConnectionID)
	}

	return catalog.Prepare(ctx, configured)
}

// catalogForReset narrows the catalog to the last job's reset targets. Without reset targets
// the catalog is used as is.
func (h *Hydrator) catalogForReset(ctx context.Context, runID string, input *types.ReplicationActivityInput, configured *types.Catalog) (*types.Catalog, error) {
	job, err := utils.RetryExec(ctx, h.retry, "get last replication job", types.IsRetryable, func(ctx context.Context) (*types.Job, error) {
		return h.jobs.GetLastReplicationJob(ctx, input.ConnectionID)
	})
	if err != nil {
		return nil, err
	}

	if job == nil || job.ResetConfig == nil || job.ResetConfig.StreamsToReset == nil {
		logger.Warnf("run[%s] reset requested but last job has no streams to reset, catalog left unchanged", runID)
		return configured, nil
	}

	logger.Infof("run[%s] resetting %d stream(s)", runID, len(job.ResetConfig.StreamsToReset))
	return catalog.TransformForReset(configured, job.StreamsToReset()), nil
}

// clearForBackfill nulls the checkpoints of streams to backfill. The cleared state is written
// back before returning only when the workspace flag is on, so a failed attempt resumes the
// backfill instead of replaying the stale cursor.
func (h *Hydrator) clearForBackfill(ctx context.Context, runID string, input *types.ReplicationActivityInput, current types.StateWrapper, backfill []types.StreamDescriptor) (types.StateWrapper, error) {
	if len(backfill) > 0 {
		logger.Infof("run[%s] backfilling streams %v", runID, backfill)
	}

	cleared := state.ClearStreams(current, backfill)
	if cleared == nil || !h.flags.IsEnabled(constants.PersistBackfillState, featureflag.Workspace(input.WorkspaceID)) {
		return cleared, nil
	}

	changed, err := state.Changed(current, cleared)
	if err != nil {
		return nil, err
	}
	if !changed {
		logger.Debugf("run[%s] no stream state to clear, skipping state write", runID)
		return cleared, nil
	}

	logger.Infof("run[%s] persisting backfill-cleared state for connection[%s]", runID, input.ConnectionID)
	_, err = utils.RetryExec(ctx, h.retry, "put state", types.IsRetryable, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, h.states.PutState(ctx, input.ConnectionID, cleared)
	})
	if err != nil {
		return nil, err
	}
	return cleared, nil
}

// trackBackfillAndResume records which streams resume from a checkpoint and which are being
// backfilled. Failures are logged and never fail hydration.
func (h *Hydrator) trackBackfillAndResume(input *types.ReplicationActivityInput, current types.StateWrapper, backfill []types.StreamDescriptor) {
	metadata := StreamMetadata(types.StreamsWithState(current), backfill)
	jobID, attempt := input.JobRunConfig.JobID, input.JobRunConfig.AttemptID
	connectionID := input.ConnectionID

	save := func(ctx context.Context) {
		if err := h.jobs.SaveStreamMetadata(ctx, jobID, attempt, metadata); err != nil {
			logger.Errorf("failed to track stream metadata for connection[%s] attempt[%d]: %s", connectionID, attempt, err)
		}
	}

	if h.tasks != nil && h.tasks.Submit(save) {
		return
	}
	save(context.Background())
}

// StreamMetadata merges resumed and backfilled streams, resumed streams first, each in input order
func StreamMetadata(withState, backfill []types.StreamDescriptor) []types.StreamAttemptMetadata {
	metadata := []types.StreamAttemptMetadata{}
	index := map[types.StreamDescriptor]int{}
	for _, descriptor := range withState {
		if _, found := index[descriptor]; found {
			continue
		}
		index[descriptor] = len(metadata)
		metadata = append(metadata, types.StreamAttemptMetadata{Descriptor: descriptor, WasResumed: true})
	}

	for _, descriptor := range backfill {
		if idx, found := index[descriptor]; found {
			metadata[idx].WasBackfilled = true
			continue
		}
		index[descriptor] = len(metadata)
		metadata = append(metadata, types.StreamAttemptMetadata{Descriptor: descriptor, WasBackfilled: true})
	}
	return metadata
}

// hydrateConfigs resolves secrets in both connector configurations. Organizations opted into
// runtime secret persistence are served by the runtime hydrator.
func (h *Hydrator) hydrateConfigs(ctx context.Context, input *types.ReplicationActivityInput) (json.RawMessage, json.RawMessage, error) {
	secrets := h.secrets
	if orgID := input.OrganizationID(); orgID != nil && h.runtimeSecrets != nil &&
		h.flags.IsEnabled(constants.UseRuntimeSecretPersistence, featureflag.Organization(*orgID)) {
		logger.Debugf("hydrating secrets from runtime persistence of organization[%s]", orgID)
		secrets = h.runtimeSecrets
	}

	source, err := secrets.Hydrate(ctx, input.SourceConfiguration)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hydrate source configuration: %w", err)
	}

	destination, err := secrets.Hydrate(ctx, input.DestinationConfiguration)
	if err != nil {
		wipe(source)
		return nil, nil, fmt.Errorf("failed to hydrate destination configuration: %w", err)
	}

	if err := ctx.Err(); err != nil {
		wipe(source)
		wipe(destination)
		return nil, nil, err
	}
	return source, destination, nil
}

// wipe zeroes a plaintext buffer in place
func wipe(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
