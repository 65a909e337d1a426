package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerialPreservesOrder(t *testing.T) {
	q := NewSerial(16)
	defer q.Close()

	var (
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < 100; i++ {
		i := i
		q.Dispatch(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	q.Sync(func() {})

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestSerialIgnoresDispatchAfterClose(t *testing.T) {
	q := NewSerial(1)
	q.Close()
	q.Close()

	ran := false
	q.Dispatch(func() { ran = true })
	q.Sync(func() { ran = true })
	assert.False(t, ran)
}
