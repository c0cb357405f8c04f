package types

import (
	"bytes"

	"github.com/goccy/go-json"
)

type StateType string

const (
	GlobalType StateType = "GLOBAL"
	StreamType StateType = "STREAM"
	LegacyType StateType = "LEGACY"
)

// StateWrapper is the checkpoint state of a connection. A nil StateWrapper means no
// checkpoint was ever persisted (first sync).
type StateWrapper interface {
	Type() StateType
	stateWrapper()
}

// StreamState is the checkpoint of a single stream. A nil State is the cleared sentinel:
// the source treats the stream as never synced.
type StreamState struct {
	Descriptor StreamDescriptor `json:"stream_descriptor"`
	State      json.RawMessage  `json:"stream_state,omitempty"`
}

func (s StreamState) IsNull() bool {
	return IsNullBlob(s.State)
}

// GlobalState holds a blob shared by all streams plus per-stream checkpoints
type GlobalState struct {
	SharedState  json.RawMessage `json:"shared_state,omitempty"`
	StreamStates []StreamState   `json:"stream_states"`
}

func (*GlobalState) Type() StateType { return GlobalType }
func (*GlobalState) stateWrapper()   {}

// PerStreamState holds independent checkpoints per stream
type PerStreamState struct {
	StreamStates []StreamState `json:"stream_states"`
}

func (*PerStreamState) Type() StateType { return StreamType }
func (*PerStreamState) stateWrapper()   {}

// LegacyState is a pre-migration opaque blob; read for back-compat, never produced
type LegacyState struct {
	Blob json.RawMessage `json:"blob"`
}

func (*LegacyState) Type() StateType { return LegacyType }
func (*LegacyState) stateWrapper()   {}

// StreamStatesOf returns the per-stream checkpoints carried by the state
func StreamStatesOf(state StateWrapper) []StreamState {
	switch typed := state.(type) {
	case *GlobalState:
		return typed.StreamStates
	case *PerStreamState:
		return typed.StreamStates
	default:
		return nil
	}
}

// StreamsWithState returns descriptors whose checkpoint is not the cleared sentinel
func StreamsWithState(state StateWrapper) []StreamDescriptor {
	var out []StreamDescriptor
	for _, streamState := range StreamStatesOf(state) {
		if !streamState.IsNull() {
			out = append(out, streamState.Descriptor)
		}
	}
	return out
}

func IsNullBlob(blob json.RawMessage) bool {
	trimmed := bytes.TrimSpace(blob)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// StateDocument is the tagged JSON form of a StateWrapper
type StateDocument struct {
	Type    StateType       `json:"type"`
	Global  *GlobalState    `json:"global,omitempty"`
	Streams []StreamState   `json:"streams,omitempty"`
	Legacy  json.RawMessage `json:"legacy,omitempty"`
}

// NewStateDocument returns nil for an absent state
func NewStateDocument(state StateWrapper) *StateDocument {
	switch typed := state.(type) {
	case *GlobalState:
		return &StateDocument{Type: GlobalType, Global: typed}
	case *PerStreamState:
		return &StateDocument{Type: StreamType, Streams: typed.StreamStates}
	case *LegacyState:
		return &StateDocument{Type: LegacyType, Legacy: typed.Blob}
	default:
		return nil
	}
}

// Wrapper rebuilds the union; a nil document is an absent state
func (d *StateDocument) Wrapper() (StateWrapper, error) {
	if d == nil {
		return nil, nil
	}

	switch d.Type {
	case GlobalType:
		if d.Global == nil {
			return nil, NewValidationError("state of type %s is missing its global section", d.Type)
		}
		if err := ValidateDescriptors(descriptorsOf(d.Global.StreamStates)); err != nil {
			return nil, err
		}
		return d.Global, nil
	case StreamType:
		if err := ValidateDescriptors(descriptorsOf(d.Streams)); err != nil {
			return nil, err
		}
		return &PerStreamState{StreamStates: d.Streams}, nil
	case LegacyType:
		return &LegacyState{Blob: d.Legacy}, nil
	default:
		return nil, NewValidationError("unknown state type [%s]", d.Type)
	}
}

// ValidateDescriptors rejects unnamed and duplicate stream states
func ValidateDescriptors(descriptors []StreamDescriptor) error {
	seen := NewSet[StreamDescriptor]()
	for _, descriptor := range descriptors {
		if descriptor.Name == "" {
			return NewValidationError("stream state without a stream name")
		}
		if seen.Exists(descriptor) {
			return NewValidationError("duplicate state for stream [%s]", descriptor)
		}
		seen.Insert(descriptor)
	}
	return nil
}

func descriptorsOf(streams []StreamState) []StreamDescriptor {
	descriptors := make([]StreamDescriptor, 0, len(streams))
	for _, stream := range streams {
		descriptors = append(descriptors, stream.Descriptor)
	}
	return descriptors
}
