package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datazip-inc/olake-hydrator/types"
)

func TestPrepare(t *testing.T) {
	ctx := context.Background()

	t.Run("applies selection per stream", func(t *testing.T) {
		selected := newStream("users", types.INCREMENTAL, types.APPENDDEDUP, "id", "name")
		selected.FieldSelectionEnabled = true
		selected.SelectedFields = paths("id")
		selected.CursorField = types.FieldPath{"id"}
		selected.PrimaryKey = []types.FieldPath{{"id"}}

		untouched := newStream("orders", types.FULLREFRESH, types.APPEND, "id", "total")

		prepared, err := Prepare(ctx, types.NewCatalog(selected, untouched))
		require.NoError(t, err)
		require.Len(t, prepared.Streams, 2)
		assert.Equal(t, []string{"id"}, prepared.Streams[0].Schema().PropertyNames())
		assert.Equal(t, []string{"id", "total"}, prepared.Streams[1].Schema().PropertyNames())
		assert.Equal(t, []string{"id", "name"}, selected.Schema().PropertyNames())
	})

	t.Run("reports every failing stream", func(t *testing.T) {
		badKey := newStream("users", types.INCREMENTAL, types.APPENDDEDUP, "id", "name")
		badKey.FieldSelectionEnabled = true
		badKey.SelectedFields = paths("name")
		badKey.PrimaryKey = []types.FieldPath{{"id"}}

		nested := newStream("orders", types.FULLREFRESH, types.APPEND, "address")
		nested.FieldSelectionEnabled = true
		nested.SelectedFields = []types.FieldPath{{"address", "city"}}

		prepared, err := Prepare(ctx, types.NewCatalog(badKey, nested))
		require.Error(t, err)
		assert.Nil(t, prepared)

		var merr *multierror.Error
		require.True(t, errors.As(err, &merr))
		require.Len(t, merr.Errors, 2)
		assert.True(t, errors.Is(merr.Errors[0], types.ErrValidation))
		assert.True(t, errors.Is(merr.Errors[1], types.ErrNotSupported))
	})

	t.Run("duplicate descriptors", func(t *testing.T) {
		_, err := Prepare(ctx, types.NewCatalog(
			newStream("users", types.FULLREFRESH, types.APPEND, "id"),
			newStream("users", types.INCREMENTAL, types.APPEND, "id"),
		))
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrValidation))
		assert.Contains(t, err.Error(), "duplicate stream")
	})
}
