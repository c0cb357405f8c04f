package state

import (
	"fmt"

	"github.com/mitchellh/hashstructure"

	"github.com/datazip-inc/olake-hydrator/types"
)

// ClearStreams returns a copy of state in which every stream checkpoint named in backfill is
// replaced by the null sentinel. Other checkpoints and the global shared state are kept as is.
// LEGACY states cannot address streams and come back unchanged; an absent state stays absent.
func ClearStreams(state types.StateWrapper, backfill []types.StreamDescriptor) types.StateWrapper {
	if state == nil {
		return nil
	}

	targets := types.DescriptorSet(backfill...)
	switch typed := state.(type) {
	case *types.GlobalState:
		return &types.GlobalState{
			SharedState:  typed.SharedState,
			StreamStates: clearMatching(typed.StreamStates, targets),
		}
	case *types.PerStreamState:
		return &types.PerStreamState{StreamStates: clearMatching(typed.StreamStates, targets)}
	default:
		return state
	}
}

func clearMatching(streams []types.StreamState, targets *types.Set[types.StreamDescriptor]) []types.StreamState {
	if streams == nil {
		return nil
	}
	out := make([]types.StreamState, len(streams))
	for i, stream := range streams {
		if targets.Exists(stream.Descriptor) {
			stream.State = nil
		}
		out[i] = stream
	}
	return out
}

// Fingerprint hashes the state so callers can tell whether a write would change anything.
// Checkpoints compare by their encoded bytes.
func Fingerprint(state types.StateWrapper) (uint64, error) {
	hash, err := hashstructure.Hash(types.NewStateDocument(state), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to fingerprint state: %w", err)
	}
	return hash, nil
}

// Changed reports whether two states differ
func Changed(before, after types.StateWrapper) (bool, error) {
	beforeHash, err := Fingerprint(before)
	if err != nil {
		return false, err
	}
	afterHash, err := Fingerprint(after)
	if err != nil {
		return false, err
	}
	return beforeHash != afterHash, nil
}
