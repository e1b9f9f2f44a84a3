// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package linkgraph

import (
	"context"
	"sync"
)

// workerPool runs crawl tasks on a fixed number of goroutines. The
// pool size is the crawl's concurrency bound; Submit blocks when every
// worker is busy and the queue is full, which is the backpressure that
// keeps the coordinator from racing ahead of the fetchers.
type workerPool struct {
	workQueue chan func()
	wg        sync.WaitGroup
	ctx       context.Context
}

// newWorkerPool starts maxWorkers goroutines consuming from a queue of
// queueSize buffered tasks.
func newWorkerPool(ctx context.Context, maxWorkers, queueSize int) *workerPool {
	wp := &workerPool{
		workQueue: make(chan func(), queueSize),
		ctx:       ctx,
	}
	for i := 0; i < maxWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
	return wp
}

func (wp *workerPool) worker() {
	defer wp.wg.Done()
	for {
		select {
		case work, ok := <-wp.workQueue:
			if !ok {
				return
			}
			work()
		case <-wp.ctx.Done():
			return
		}
	}
}

// Submit queues a task, blocking while the queue is full. Returns the
// context error if the crawl was cancelled before the task could be
// queued.
func (wp *workerPool) Submit(work func()) error {
	select {
	case wp.workQueue <- work:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// Close stops accepting work and waits for in-flight tasks to finish.
func (wp *workerPool) Close() {
	close(wp.workQueue)
	wp.wg.Wait()
}
