package safego

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskQueue_DrainsOnShutdown(t *testing.T) {
	queue := NewTaskQueue(context.Background(), 4)

	var ran atomic.Int32
	for i := 0; i < 3; i++ {
		assert.True(t, queue.Submit(func(context.Context) { ran.Add(1) }))
	}
	queue.Shutdown(time.Second)

	assert.Equal(t, int32(3), ran.Load())
	assert.False(t, queue.Submit(func(context.Context) {}))
	queue.Shutdown(time.Second)
}

func TestTaskQueue_SurvivesPanics(t *testing.T) {
	queue := NewTaskQueue(context.Background(), 2)

	var ran atomic.Bool
	queue.Submit(func(context.Context) { panic("boom") })
	queue.Submit(func(context.Context) { ran.Store(true) })
	queue.Shutdown(time.Second)

	assert.True(t, ran.Load())
}

func TestTaskQueue_DropsWhenFull(t *testing.T) {
	queue := NewTaskQueue(context.Background(), 1)
	release := make(chan struct{})
	started := make(chan struct{})

	assert.True(t, queue.Submit(func(context.Context) {
		close(started)
		<-release
	}))
	<-started
	assert.True(t, queue.Submit(func(context.Context) {}))
	assert.False(t, queue.Submit(func(context.Context) {}))

	close(release)
	queue.Shutdown(time.Second)
}

func TestTaskQueue_CancelsAbandonedTask(t *testing.T) {
	queue := NewTaskQueue(context.Background(), 1)
	cancelled := make(chan struct{})

	queue.Submit(func(ctx context.Context) {
		<-ctx.Done()
		close(cancelled)
	})
	queue.Shutdown(10 * time.Millisecond)

	select {
	case <-cancelled:
	default:
		t.Fatal("running task did not observe cancellation")
	}
}
