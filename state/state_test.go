package state

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datazip-inc/olake-hydrator/types"
)

func descriptor(name string) types.StreamDescriptor {
	return types.NewStreamDescriptor("public", name)
}

func streamState(name, blob string) types.StreamState {
	return types.StreamState{Descriptor: descriptor(name), State: json.RawMessage(blob)}
}

func wellFormedStates() map[string]types.StateWrapper {
	return map[string]types.StateWrapper{
		"global": &types.GlobalState{
			SharedState: json.RawMessage(`{"lsn":"0/16B3748"}`),
			StreamStates: []types.StreamState{
				streamState("users", `{"cursor":10}`),
				streamState("orders", `{"cursor":"2024-01-01"}`),
			},
		},
		"global without shared state": &types.GlobalState{
			StreamStates: []types.StreamState{streamState("users", `{"cursor":1}`)},
		},
		"stream": &types.PerStreamState{
			StreamStates: []types.StreamState{
				streamState("users", `{"cursor":10}`),
				{Descriptor: types.NewStreamDescriptor("", "events"), State: json.RawMessage(`[1,2,3]`)},
			},
		},
	}
}

func TestAPIRoundTrip(t *testing.T) {
	connectionID := uuid.New()
	for name, state := range wellFormedStates() {
		t.Run(name, func(t *testing.T) {
			api := ToAPI(connectionID, state)
			require.NoError(t, api.Validate())
			assert.Equal(t, connectionID, api.ConnectionID)
			assert.Equal(t, state, ToInternal(api))

			// survives the wire as well
			encoded, err := json.Marshal(api)
			require.NoError(t, err)
			decoded, err := ParseConnectionState(encoded)
			require.NoError(t, err)
			assert.Equal(t, state, ToInternal(decoded))
		})
	}
}

func TestAPIConversion(t *testing.T) {
	connectionID := uuid.New()

	t.Run("absent state is not_set", func(t *testing.T) {
		api := ToAPI(connectionID, nil)
		assert.Equal(t, APINotSet, api.StateType)
		assert.Nil(t, api.GlobalState)
		assert.Nil(t, api.StreamState)
		assert.Nil(t, ToInternal(api))
	})

	t.Run("legacy blob is carried through", func(t *testing.T) {
		legacy := &types.LegacyState{Blob: json.RawMessage(`{"cdc":true}`)}
		api := ToAPI(connectionID, legacy)
		assert.Equal(t, APILegacy, api.StateType)
		assert.JSONEq(t, `{"cdc":true}`, string(api.State))
		assert.Equal(t, legacy, ToInternal(api))
	})

	t.Run("global fields map one to one", func(t *testing.T) {
		api := ToAPI(connectionID, wellFormedStates()["global"])
		require.NotNil(t, api.GlobalState)
		assert.Equal(t, APIGlobal, api.StateType)
		assert.JSONEq(t, `{"lsn":"0/16B3748"}`, string(api.GlobalState.SharedState))
		require.Len(t, api.GlobalState.StreamStates, 2)
		assert.Equal(t, descriptor("users"), api.GlobalState.StreamStates[0].StreamDescriptor)
		assert.Equal(t, descriptor("orders"), api.GlobalState.StreamStates[1].StreamDescriptor)
	})

	t.Run("api to internal to api", func(t *testing.T) {
		api := &ConnectionState{
			ConnectionID: connectionID,
			StateType:    APIStream,
			StreamState: []APIStreamState{
				{StreamDescriptor: descriptor("a"), StreamState: json.RawMessage(`{"x":1}`)},
				{StreamDescriptor: descriptor("b")},
			},
		}
		assert.Equal(t, api, ToAPI(connectionID, ToInternal(api)))
	})
}

func TestParseConnectionState(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
		wantErr string
	}{
		{name: "not set", payload: `{"connectionId":"9b0f4c5e-6a43-4e89-9d5c-0ed4f2f1c1aa","stateType":"not_set"}`},
		{name: "stream", payload: `{"stateType":"stream","streamState":[{"streamDescriptor":{"name":"users"},"streamState":{"c":1}}]}`},
		{name: "global", payload: `{"stateType":"global","globalState":{"sharedState":{},"streamStates":[]}}`},
		{name: "global without section", payload: `{"stateType":"global"}`, wantErr: "missing globalState"},
		{name: "stream with global section", payload: `{"stateType":"stream","globalState":{"streamStates":[]}}`, wantErr: "non-stream payload"},
		{name: "not set with payload", payload: `{"stateType":"not_set","state":{"a":1}}`, wantErr: "carries a payload"},
		{name: "unknown type", payload: `{"stateType":"partial"}`, wantErr: "unknown state type"},
		{name: "duplicate stream", payload: `{"stateType":"stream","streamState":[{"streamDescriptor":{"name":"a"}},{"streamDescriptor":{"name":"a"}}]}`, wantErr: "duplicate state"},
		{name: "not json", payload: `{`, wantErr: "failed to decode"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			state, err := ParseConnectionState([]byte(tc.payload))
			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.NotNil(t, state)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrValidation))
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestProtocolRoundTrip(t *testing.T) {
	for name, state := range wellFormedStates() {
		t.Run(name, func(t *testing.T) {
			messages := ToMessages(state)
			require.NoError(t, ValidateMessages(messages))
			assert.Equal(t, state, FromMessages(messages))

			encoded, err := json.Marshal(messages)
			require.NoError(t, err)
			decoded, err := ParseMessages(encoded)
			require.NoError(t, err)
			assert.Equal(t, state, FromMessages(decoded))
		})
	}
}

func TestProtocolConversion(t *testing.T) {
	t.Run("stream state is one message per stream", func(t *testing.T) {
		messages := ToMessages(wellFormedStates()["stream"])
		require.Len(t, messages, 2)
		for _, message := range messages {
			assert.Equal(t, types.StreamType, message.Type)
			assert.NotNil(t, message.Stream)
			assert.Nil(t, message.Global)
		}
	})

	t.Run("global state is a single message", func(t *testing.T) {
		messages := ToMessages(wellFormedStates()["global"])
		require.Len(t, messages, 1)
		assert.Equal(t, types.GlobalType, messages[0].Type)
		require.NotNil(t, messages[0].Global)
		assert.Len(t, messages[0].Global.StreamStates, 2)
	})

	t.Run("absent state has no messages", func(t *testing.T) {
		assert.Empty(t, ToMessages(nil))
		assert.Nil(t, FromMessages(nil))
	})

	t.Run("legacy state travels as data", func(t *testing.T) {
		legacy := &types.LegacyState{Blob: json.RawMessage(`{"v":1}`)}
		messages := ToMessages(legacy)
		require.Len(t, messages, 1)
		assert.Equal(t, legacy, FromMessages(messages))
	})

	t.Run("messages do not alias the source state", func(t *testing.T) {
		global := wellFormedStates()["global"].(*types.GlobalState)
		messages := ToMessages(global)
		messages[0].Global.StreamStates[0].State = nil
		assert.False(t, global.StreamStates[0].IsNull())
	})
}

func TestParseMessages(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
		wantErr string
	}{
		{name: "empty list", payload: `[]`},
		{name: "streams", payload: `[{"type":"STREAM","stream":{"stream_descriptor":{"name":"a"},"stream_state":{"c":1}}},{"type":"STREAM","stream":{"stream_descriptor":{"name":"b"}}}]`},
		{name: "mixed types", payload: `[{"type":"STREAM","stream":{"stream_descriptor":{"name":"a"}}},{"type":"GLOBAL","global":{"stream_states":[]}}]`, wantErr: "expected STREAM"},
		{name: "two globals", payload: `[{"type":"GLOBAL","global":{"stream_states":[]}},{"type":"GLOBAL","global":{"stream_states":[]}}]`, wantErr: "single GLOBAL"},
		{name: "global without section", payload: `[{"type":"GLOBAL"}]`, wantErr: "only a global section"},
		{name: "stream without section", payload: `[{"type":"STREAM"}]`, wantErr: "only a stream section"},
		{name: "duplicate stream", payload: `[{"type":"STREAM","stream":{"stream_descriptor":{"name":"a"}}},{"type":"STREAM","stream":{"stream_descriptor":{"name":"a"}}}]`, wantErr: "duplicate state"},
		{name: "unknown type", payload: `[{"type":"PARTIAL"}]`, wantErr: "unknown state type"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseMessages([]byte(tc.payload))
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrValidation))
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
