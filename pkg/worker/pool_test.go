package worker

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolBoundsParallelism(t *testing.T) {
	p := NewPool(2)

	var running, peak, done atomic.Int32
	for i := 0; i < 10; i++ {
		p.Go(func() {
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
			done.Add(1)
		})
	}

	assert.Eventually(t, func() bool { return done.Load() == 10 }, time.Second, time.Millisecond)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	p.Close()
}

func TestPoolCloseWaitsForRunningJobs(t *testing.T) {
	p := NewPool(1)

	started := make(chan struct{})
	var finished atomic.Bool
	p.Go(func() {
		close(started)
		time.Sleep(10 * time.Millisecond)
		finished.Store(true)
	})

	<-started
	p.Close()
	assert.True(t, finished.Load())
}

func TestPoolIgnoresJobsAfterClose(t *testing.T) {
	p := NewPool(2)
	p.Close()

	var ran atomic.Bool
	assert.NotPanics(t, func() {
		p.Go(func() { ran.Store(true) })
	})
	p.Close()
	assert.False(t, ran.Load())
}

func TestPoolCloseDropsQueuedJobs(t *testing.T) {
	p := NewPool(1)

	started := make(chan struct{})
	release := make(chan struct{})
	p.Go(func() {
		close(started)
		<-release
	})
	<-started

	var queued atomic.Int32
	for i := 0; i < 5; i++ {
		p.Go(func() { queued.Add(1) })
	}

	closed := make(chan struct{})
	go func() {
		p.Close()
		close(closed)
	}()
	assert.Eventually(t, func() bool { return p.ctx.Err() != nil }, time.Second, time.Millisecond)
	close(release)
	<-closed

	assert.Zero(t, queued.Load())
}

func TestPoolGoRacingClose(t *testing.T) {
	for i := 0; i < 50; i++ {
		p := NewPool(2)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				p.Go(func() {})
			}
		}()
		go func() {
			defer wg.Done()
			p.Close()
		}()
		wg.Wait()
		p.Close()
	}
}
