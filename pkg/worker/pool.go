// Package worker runs background jobs with bounded parallelism.
package worker

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Pool runs submitted jobs on their own goroutines, at most size at a time.
// Jobs may complete in any order.
type Pool struct {
	sem    *semaphore.Weighted
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewPool creates a pool running at most size jobs concurrently.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		sem:    semaphore.NewWeighted(int64(size)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Go schedules fn. Calls after Close are ignored, and jobs still waiting for
// a slot when the pool is closed are dropped.
func (p *Pool) Go(fn func()) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			return
		}
		defer p.sem.Release(1)
		// Acquire may still win a free slot after cancellation
		if p.ctx.Err() != nil {
			return
		}
		fn()
	}()
}

// Close stops accepting jobs, drops queued ones and waits for running ones.
// It is safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.cancel()
	p.mu.Unlock()
	p.wg.Wait()
}
