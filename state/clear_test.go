package state

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datazip-inc/olake-hydrator/types"
)

func TestClearStreams(t *testing.T) {
	backfill := []types.StreamDescriptor{descriptor("users")}

	t.Run("per stream state", func(t *testing.T) {
		original := wellFormedStates()["stream"].(*types.PerStreamState)
		cleared, ok := ClearStreams(original, backfill).(*types.PerStreamState)
		require.True(t, ok)
		require.Len(t, cleared.StreamStates, 2)

		assert.Equal(t, descriptor("users"), cleared.StreamStates[0].Descriptor)
		assert.True(t, cleared.StreamStates[0].IsNull())
		assert.Equal(t, original.StreamStates[1], cleared.StreamStates[1])

		// input untouched
		assert.JSONEq(t, `{"cursor":10}`, string(original.StreamStates[0].State))
	})

	t.Run("global state keeps shared state", func(t *testing.T) {
		original := wellFormedStates()["global"].(*types.GlobalState)
		cleared, ok := ClearStreams(original, backfill).(*types.GlobalState)
		require.True(t, ok)

		assert.Equal(t, original.SharedState, cleared.SharedState)
		assert.True(t, cleared.StreamStates[0].IsNull())
		assert.Equal(t, original.StreamStates[1], cleared.StreamStates[1])
	})

	t.Run("absent state stays absent", func(t *testing.T) {
		assert.Nil(t, ClearStreams(nil, backfill))
	})

	t.Run("legacy state is unchanged", func(t *testing.T) {
		legacy := &types.LegacyState{Blob: json.RawMessage(`{"users":1}`)}
		assert.Same(t, legacy, ClearStreams(legacy, backfill))
	})

	t.Run("empty or disjoint backfill is a no-op", func(t *testing.T) {
		for _, targets := range [][]types.StreamDescriptor{nil, {descriptor("ghost")}, {types.NewStreamDescriptor("other", "users")}} {
			original := wellFormedStates()["stream"]
			assert.Equal(t, original, ClearStreams(original, targets))

			changed, err := Changed(original, ClearStreams(original, targets))
			require.NoError(t, err)
			assert.False(t, changed)
		}
	})

	t.Run("only backfill streams lose their checkpoint", func(t *testing.T) {
		for name, state := range wellFormedStates() {
			targets := types.DescriptorSet(descriptor("users"), descriptor("orders"))
			cleared := ClearStreams(state, targets.Array())

			before := types.StreamStatesOf(state)
			after := types.StreamStatesOf(cleared)
			require.Len(t, after, len(before), name)
			for i := range before {
				if targets.Exists(before[i].Descriptor) {
					assert.Nil(t, after[i].State, name)
				} else {
					assert.Equal(t, []byte(before[i].State), []byte(after[i].State), name)
				}
			}
		}
	})
}

func TestFingerprint(t *testing.T) {
	state := wellFormedStates()["global"]

	same, err := Fingerprint(wellFormedStates()["global"])
	require.NoError(t, err)
	hash, err := Fingerprint(state)
	require.NoError(t, err)
	assert.Equal(t, hash, same)

	changed, err := Changed(state, ClearStreams(state, []types.StreamDescriptor{descriptor("orders")}))
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = Changed(nil, nil)
	require.NoError(t, err)
	assert.False(t, changed)
}
