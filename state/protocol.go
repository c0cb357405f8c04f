package state

import (
	"github.com/goccy/go-json"

	"github.com/datazip-inc/olake-hydrator/types"
)

// StateMessage is a checkpoint as exchanged with connectors. A GLOBAL or LEGACY state is one
// message; a STREAM state is one message per stream.
type StateMessage struct {
	Type   types.StateType    `json:"type"`
	Stream *types.StreamState `json:"stream,omitempty"`
	Global *types.GlobalState `json:"global,omitempty"`
	Data   json.RawMessage    `json:"data,omitempty"`
}

// ToMessages converts the canonical state; an absent state has no messages
func ToMessages(state types.StateWrapper) []StateMessage {
	switch typed := state.(type) {
	case *types.GlobalState:
		return []StateMessage{{
			Type: types.GlobalType,
			Global: &types.GlobalState{
				SharedState:  typed.SharedState,
				StreamStates: copyStreams(typed.StreamStates),
			},
		}}
	case *types.PerStreamState:
		messages := make([]StateMessage, 0, len(typed.StreamStates))
		for _, stream := range typed.StreamStates {
			messages = append(messages, StateMessage{Type: types.StreamType, Stream: &stream})
		}
		return messages
	case *types.LegacyState:
		return []StateMessage{{Type: types.LegacyType, Data: typed.Blob}}
	default:
		return nil
	}
}

// FromMessages converts messages that passed ValidateMessages; no messages is an absent state
func FromMessages(messages []StateMessage) types.StateWrapper {
	if len(messages) == 0 {
		return nil
	}

	switch messages[0].Type {
	case types.GlobalType:
		global := messages[0].Global
		if global == nil {
			return &types.GlobalState{}
		}
		return &types.GlobalState{
			SharedState:  global.SharedState,
			StreamStates: copyStreams(global.StreamStates),
		}
	case types.StreamType:
		streams := make([]types.StreamState, 0, len(messages))
		for _, message := range messages {
			if message.Stream != nil {
				streams = append(streams, *message.Stream)
			}
		}
		return &types.PerStreamState{StreamStates: streams}
	case types.LegacyType:
		return &types.LegacyState{Blob: messages[0].Data}
	default:
		return nil
	}
}

// ValidateMessages rejects mixed state types and messages missing their typed payload
func ValidateMessages(messages []StateMessage) error {
	if len(messages) == 0 {
		return nil
	}

	stateType := messages[0].Type
	switch stateType {
	case types.GlobalType, types.LegacyType:
		if len(messages) > 1 {
			return types.NewValidationError("expected a single %s state message, got %d", stateType, len(messages))
		}
	case types.StreamType:
	default:
		return types.NewValidationError("unknown state type [%s]", stateType)
	}

	descriptors := []types.StreamDescriptor{}
	for idx, message := range messages {
		if message.Type != stateType {
			return types.NewValidationError("state message %d has type %s, expected %s", idx, message.Type, stateType)
		}
		switch stateType {
		case types.GlobalType:
			if message.Global == nil || message.Stream != nil {
				return types.NewValidationError("state message %d of type %s must carry only a global section", idx, stateType)
			}
			for _, stream := range message.Global.StreamStates {
				descriptors = append(descriptors, stream.Descriptor)
			}
		case types.StreamType:
			if message.Stream == nil || message.Global != nil {
				return types.NewValidationError("state message %d of type %s must carry only a stream section", idx, stateType)
			}
			descriptors = append(descriptors, message.Stream.Descriptor)
		case types.LegacyType:
			if message.Stream != nil || message.Global != nil {
				return types.NewValidationError("state message %d of type %s must carry only data", idx, stateType)
			}
		}
	}

	return types.ValidateDescriptors(descriptors)
}

// ParseMessages decodes a JSON array of state messages and validates it
func ParseMessages(data []byte) ([]StateMessage, error) {
	var messages []StateMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, types.NewValidationError("failed to decode state messages: %s", err)
	}
	if err := ValidateMessages(messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func copyStreams(streams []types.StreamState) []types.StreamState {
	if streams == nil {
		return nil
	}
	return append([]types.StreamState{}, streams...)
}
