// Package queue provides a serial execution queue used as the UI thread of a session.
package queue

import "sync"

// Serial executes dispatched functions one at a time in submission order.
type Serial struct {
	jobs   chan func()
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

// NewSerial starts a serial queue with the given backlog capacity.
func NewSerial(backlog int) *Serial {
	q := &Serial{
		jobs: make(chan func(), backlog),
		done: make(chan struct{}),
	}
	go q.loop()
	return q
}

func (q *Serial) loop() {
	defer close(q.done)
	for fn := range q.jobs {
		fn()
	}
}

// Dispatch enqueues fn. Calls after Close are ignored.
func (q *Serial) Dispatch(fn func()) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return
	}
	q.jobs <- fn
}

// Sync enqueues fn and waits until it has run.
func (q *Serial) Sync(fn func()) {
	ran := make(chan struct{})
	q.Dispatch(func() {
		defer close(ran)
		fn()
	})

	select {
	case <-ran:
	case <-q.done:
	}
}

// Close drains already queued functions and stops the queue.
func (q *Serial) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()
	<-q.done
}
