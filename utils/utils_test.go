package utils

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datazip-inc/olake-hydrator/types"
)

var fastRetry = RetryPolicy{InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond, MaxRetries: 3}

func TestRetryExec(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		result, err := RetryExec(ctx, fastRetry, "fetch", types.IsRetryable, func(context.Context) (string, error) {
			calls++
			if calls < 3 {
				return "", types.NewTransientIOError(errors.New("connection reset"), "fetch")
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		_, err := RetryExec(ctx, fastRetry, "fetch", types.IsRetryable, func(context.Context) (int, error) {
			calls++
			return 0, types.NewTransientIOError(errors.New("timeout"), "fetch")
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrTransientIO)
		assert.Equal(t, 4, calls)
	})

	t.Run("does not retry permanent errors", func(t *testing.T) {
		calls := 0
		_, err := RetryExec(ctx, fastRetry, "fetch", types.IsRetryable, func(context.Context) (int, error) {
			calls++
			return 0, types.NewIllegalStateError("no catalog")
		})
		assert.ErrorIs(t, err, types.ErrIllegalState)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := RetryExec(cancelled, fastRetry, "fetch", types.IsRetryable, func(context.Context) (int, error) {
			return 0, types.NewTransientIOError(errors.New("timeout"), "fetch")
		})
		assert.Error(t, err)
	})
}

func TestConcurrentCollect(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5}
	var visited atomic.Int32

	err := ConcurrentCollect(context.Background(), items, 2, func(_ context.Context, idx int, item int) error {
		visited.Add(1)
		if item%2 == 1 {
			return types.NewValidationError("item %d", idx)
		}
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, int32(len(items)), visited.Load())

	var multErr *multierror.Error
	require.ErrorAs(t, err, &multErr)
	require.Len(t, multErr.Errors, 3)
	assert.Equal(t, "VALIDATION_ERROR: item 1", multErr.Errors[0].Error())
	assert.Equal(t, "VALIDATION_ERROR: item 5", multErr.Errors[2].Error())

	assert.NoError(t, ConcurrentCollect(context.Background(), []int{}, 0, func(context.Context, int, int) error {
		return errors.New("unreachable")
	}))
}

type validated struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"gte=1"`
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(&validated{Name: "users", Count: 1}))

	err := Validate(&validated{})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.Contains(t, err.Error(), "name is a required field")
	assert.Contains(t, err.Error(), "count must be 1 or greater")
}

func TestUnmarshalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: users\ncount: 0\n"), 0o600))

	out := &validated{}
	require.NoError(t, UnmarshalFile(path, out, false))
	assert.Equal(t, "users", out.Name)
	assert.ErrorIs(t, UnmarshalFile(path, &validated{}, true), types.ErrValidation)

	assert.Error(t, UnmarshalFile("", out, false))
	assert.Error(t, UnmarshalFile(filepath.Join(dir, "missing.yaml"), out, false))
}
