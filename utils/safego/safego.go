/*
 * Copyright 2025 Olake By Datazip
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package safego

import (
	"context"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/datazip-inc/olake-hydrator/utils/logger"
)

// Recovery logs a recovered panic with its stack; use as `defer safego.Recovery()`
func Recovery() {
	if err := recover(); err != nil {
		logger.Error(err)
		for _, str := range strings.Split(string(debug.Stack()), "\n") {
			logger.Error(strings.ReplaceAll(str, "\t", ""))
		}
	}
}

// TaskQueue runs best-effort side work for a single sync attempt on one background
// goroutine. Tasks still queued at Shutdown are abandoned.
type TaskQueue struct {
	tasks  chan func(ctx context.Context)
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

func NewTaskQueue(ctx context.Context, size int) *TaskQueue {
	if size <= 0 {
		size = 1
	}
	queueCtx, cancel := context.WithCancel(ctx)
	q := &TaskQueue{
		tasks:  make(chan func(ctx context.Context), size),
		ctx:    queueCtx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go q.loop()
	return q
}

func (q *TaskQueue) loop() {
	defer close(q.done)
	for {
		select {
		case <-q.ctx.Done():
			return
		case task, ok := <-q.tasks:
			if !ok {
				return
			}
			q.execute(task)
		}
	}
}

func (q *TaskQueue) execute(task func(ctx context.Context)) {
	defer Recovery()
	task(q.ctx)
}

// Submit enqueues task without blocking; it reports false when the queue is full or closed
func (q *TaskQueue) Submit(task func(ctx context.Context)) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}

	select {
	case q.tasks <- task:
		return true
	default:
		logger.Warn("task queue full, dropping background task")
		return false
	}
}

// Shutdown stops accepting tasks and waits up to timeout for queued ones to drain.
// Remaining tasks are abandoned and the running one sees its context cancelled.
func (q *TaskQueue) Shutdown(timeout time.Duration) {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		close(q.tasks)
		q.mu.Unlock()

		select {
		case <-q.done:
		case <-time.After(timeout):
			logger.Warnf("task queue did not drain within %s, abandoning queued tasks", timeout)
		}
		q.cancel()
		<-q.done
	})
}
