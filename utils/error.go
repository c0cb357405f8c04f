package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/datazip-inc/olake-hydrator/utils/logger"
)

// ConcurrentCollect runs fn for every item with at most limit goroutines and returns every
// failure, ordered by item index, as one multierror. It never stops early.
func ConcurrentCollect[T any](ctx context.Context, items []T, limit int, fn func(ctx context.Context, idx int, item T) error) error {
	group, groupCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		group.SetLimit(limit)
	}

	var mu sync.Mutex
	failures := make([]error, len(items))
	for idx, item := range items {
		group.Go(func() error {
			if err := fn(groupCtx, idx, item); err != nil {
				mu.Lock()
				failures[idx] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = group.Wait()

	var multErr *multierror.Error
	for _, err := range failures {
		if err != nil {
			multErr = multierror.Append(multErr, err)
		}
	}
	if err := ctx.Err(); err != nil {
		multErr = multierror.Append(multErr, err)
	}

	return multErr.ErrorOrNil()
}

// RetryPolicy bounds a jittered exponential retry
type RetryPolicy struct {
	InitialInterval time.Duration `json:"initial_interval" mapstructure:"initial_interval"`
	MaxInterval     time.Duration `json:"max_interval" mapstructure:"max_interval"`
	MaxRetries      uint64        `json:"max_retries" mapstructure:"max_retries"`
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	exp.MaxInterval = p.MaxInterval
	exp.MaxElapsedTime = 0 // bounded by attempt count instead
	exp.RandomizationFactor = backoff.DefaultRandomizationFactor
	exp.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(exp, p.MaxRetries), ctx)
}

// RetryExec retries function while retryable(err) holds, up to the policy's retry count.
// The last error is returned unchanged so its type survives.
func RetryExec[T any](ctx context.Context, policy RetryPolicy, name string, retryable func(error) bool, function func(ctx context.Context) (T, error)) (T, error) {
	attempt := 0
	operation := func() (T, error) {
		attempt++
		result, err := function(ctx)
		if err != nil && !retryable(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}
	notify := func(err error, wait time.Duration) {
		logger.Warnf("%s attempt[%d] failed, retrying after %s: %s", name, attempt, wait, err)
	}

	result, err := backoff.RetryNotifyWithData(operation, policy.backOff(ctx), notify)
	if err != nil {
		return result, fmt.Errorf("%s failed after %d attempt(s): %w", name, attempt, err)
	}
	return result, nil
}
