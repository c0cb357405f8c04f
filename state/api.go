// Package state converts connection checkpoint state between its canonical form and the
// formats it travels in, and clears stream checkpoints ahead of a backfill.
package state

import (
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/datazip-inc/olake-hydrator/types"
)

// APIStateType is the state discriminator used by the configuration API
type APIStateType string

const (
	APINotSet APIStateType = "not_set"
	APIGlobal APIStateType = "global"
	APIStream APIStateType = "stream"
	APILegacy APIStateType = "legacy"
)

type APIStreamState struct {
	StreamDescriptor types.StreamDescriptor `json:"streamDescriptor"`
	StreamState      json.RawMessage        `json:"streamState,omitempty"`
}

type APIGlobalState struct {
	SharedState  json.RawMessage  `json:"sharedState,omitempty"`
	StreamStates []APIStreamState `json:"streamStates"`
}

// ConnectionState is the API representation of a connection's checkpoint. Exactly one of
// State, GlobalState and StreamState is populated, as named by StateType.
type ConnectionState struct {
	ConnectionID uuid.UUID        `json:"connectionId"`
	StateType    APIStateType     `json:"stateType"`
	State        json.RawMessage  `json:"state,omitempty"`
	GlobalState  *APIGlobalState  `json:"globalState,omitempty"`
	StreamState  []APIStreamState `json:"streamState,omitempty"`
}

// Validate rejects variant and field combinations that do not describe a state
func (c *ConnectionState) Validate() error {
	switch c.StateType {
	case APINotSet:
		if c.State != nil || c.GlobalState != nil || c.StreamState != nil {
			return types.NewValidationError("state of type %s carries a payload", c.StateType)
		}
	case APIGlobal:
		if c.GlobalState == nil {
			return types.NewValidationError("state of type %s is missing globalState", c.StateType)
		}
		if c.State != nil || c.StreamState != nil {
			return types.NewValidationError("state of type %s carries a non-global payload", c.StateType)
		}
	case APIStream:
		if c.State != nil || c.GlobalState != nil {
			return types.NewValidationError("state of type %s carries a non-stream payload", c.StateType)
		}
	case APILegacy:
		if c.GlobalState != nil || c.StreamState != nil {
			return types.NewValidationError("state of type %s carries a typed payload", c.StateType)
		}
	default:
		return types.NewValidationError("unknown state type [%s]", c.StateType)
	}

	return types.ValidateDescriptors(streamDescriptorsOf(c))
}

// ParseConnectionState decodes and validates an API state document
func ParseConnectionState(data []byte) (*ConnectionState, error) {
	state := &ConnectionState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, types.NewValidationError("failed to decode connection state: %s", err)
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}
	return state, nil
}

// ToAPI converts the canonical state; an absent state becomes not_set
func ToAPI(connectionID uuid.UUID, state types.StateWrapper) *ConnectionState {
	out := &ConnectionState{ConnectionID: connectionID, StateType: APINotSet}

	switch typed := state.(type) {
	case *types.GlobalState:
		out.StateType = APIGlobal
		out.GlobalState = &APIGlobalState{
			SharedState:  typed.SharedState,
			StreamStates: toAPIStreams(typed.StreamStates),
		}
	case *types.PerStreamState:
		out.StateType = APIStream
		out.StreamState = toAPIStreams(typed.StreamStates)
	case *types.LegacyState:
		out.StateType = APILegacy
		out.State = typed.Blob
	}

	return out
}

// ToInternal converts a validated API state; not_set becomes an absent state
func ToInternal(state *ConnectionState) types.StateWrapper {
	if state == nil {
		return nil
	}

	switch state.StateType {
	case APIGlobal:
		global := &types.GlobalState{}
		if state.GlobalState != nil {
			global.SharedState = state.GlobalState.SharedState
			global.StreamStates = fromAPIStreams(state.GlobalState.StreamStates)
		}
		return global
	case APIStream:
		return &types.PerStreamState{StreamStates: fromAPIStreams(state.StreamState)}
	case APILegacy:
		return &types.LegacyState{Blob: state.State}
	default:
		return nil
	}
}

func toAPIStreams(streams []types.StreamState) []APIStreamState {
	if streams == nil {
		return nil
	}
	out := make([]APIStreamState, len(streams))
	for i, stream := range streams {
		out[i] = APIStreamState{StreamDescriptor: stream.Descriptor, StreamState: stream.State}
	}
	return out
}

func fromAPIStreams(streams []APIStreamState) []types.StreamState {
	if streams == nil {
		return nil
	}
	out := make([]types.StreamState, len(streams))
	for i, stream := range streams {
		out[i] = types.StreamState{Descriptor: stream.StreamDescriptor, State: stream.StreamState}
	}
	return out
}

func streamDescriptorsOf(c *ConnectionState) []types.StreamDescriptor {
	streams := c.StreamState
	if c.GlobalState != nil {
		streams = c.GlobalState.StreamStates
	}
	out := make([]types.StreamDescriptor, 0, len(streams))
	for _, stream := range streams {
		out = append(out, stream.StreamDescriptor)
	}
	return out
}
