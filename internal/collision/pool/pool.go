// Package pool provides a fixed-size goroutine pool that runs tasks to
// completion and hands back a Future per task.
//
// The pool mirrors a classic fixed thread pool: Size goroutines pull tasks
// from an unbounded FIFO queue, tasks are never cancelled once submitted,
// and a panicking task is recovered and reported through its Future as a
// *TaskError instead of crashing the process.
//
// Example:
//
//	p := pool.New(4)
//	futures, err := p.InvokeAll(ctx, tasks)
//	p.Shutdown()
//	for _, f := range futures {
//		v, err := f.Get()
//		...
//	}
package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrShutdown is returned when submitting to a pool that has been shut down.
var ErrShutdown = errors.New("pool: shut down")

// Task is a unit of work run by the pool.
type Task func() (int32, error)

// Pool is a fixed-size worker pool.
//
// Thread Safety: All methods are safe for concurrent use.
type Pool struct {
	size int

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []*Future
	closed bool
	next   int // index assigned to the next submitted task

	wg sync.WaitGroup
}

// New starts a pool of size worker goroutines. Sizes below 1 are raised
// to 1.
func New(size int) *Pool {
	size = max(size, 1)

	p := &Pool{size: size}
	p.cond = sync.NewCond(&p.mu)

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.work()
		}()
	}
	return p
}

// Size returns the number of worker goroutines.
func (p *Pool) Size() int {
	return p.size
}

// Submit queues task for execution and returns its Future.
func (p *Pool) Submit(task Task) (*Future, error) {
	if task == nil {
		return nil, errors.New("pool: nil task")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrShutdown
	}

	f := newFuture(p.next, task)
	p.next++
	p.queue = append(p.queue, f)
	p.cond.Signal()
	return f, nil
}

// InvokeAll submits every task and blocks until all of them have finished
// or ctx is done, whichever comes first.
//
// Futures are returned in submission order. When ctx ends first the
// returned error wraps ctx.Err(); tasks keep running and the futures that
// have not finished report Done() == false.
func (p *Pool) InvokeAll(ctx context.Context, tasks []Task) ([]*Future, error) {
	futures := make([]*Future, 0, len(tasks))
	for _, task := range tasks {
		f, err := p.Submit(task)
		if err != nil {
			return futures, fmt.Errorf("submitting task %d: %w", len(futures), err)
		}
		futures = append(futures, f)
	}

	for i, f := range futures {
		select {
		case <-f.done:
		case <-ctx.Done():
			return futures, fmt.Errorf("waiting for task %d of %d: %w", i, len(futures), ctx.Err())
		}
	}
	return futures, nil
}

// Shutdown stops the pool from accepting new tasks. Tasks already queued
// still run; Shutdown does not wait for them.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()
}

// AwaitTermination blocks until the pool has been shut down and every
// queued task has run.
func (p *Pool) AwaitTermination() {
	p.wg.Wait()
}

// work runs queued tasks until the pool is shut down and drained.
func (p *Pool) work() {
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		f := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.mu.Unlock()

		f.run()
	}
}
