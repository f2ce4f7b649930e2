package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOrderedPreservesPerOwnerSequence(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Abort()

	var mu sync.Mutex
	var seenA, seenB []int
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		i := i
		p.Ordered("a", func() {
			defer wg.Done()
			mu.Lock()
			seenA = append(seenA, i)
			mu.Unlock()
		})
		p.Ordered("b", func() {
			defer wg.Done()
			mu.Lock()
			seenB = append(seenB, i)
			mu.Unlock()
		})
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		require.Equal(t, i, seenA[i])
		require.Equal(t, i, seenB[i])
	}
}

func TestOrderedRunsAcrossMultipleWorkers(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Abort()

	var wg sync.WaitGroup
	var completed int32
	for i := 0; i < 8; i++ {
		owner := string(rune('a' + i))
		wg.Add(1)
		p.Ordered(owner, func() {
			defer wg.Done()
			atomic.AddInt32(&completed, 1)
		})
	}
	wg.Wait()
	require.Equal(t, int32(8), completed)
}

func TestShutdownWaitsForQueuedWork(t *testing.T) {
	p := NewWorkerPool(2)
	var ran int32
	p.Ordered("x", func() {
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&ran, 1)
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := p.Shutdown(ctx)
	require.NoError(t, err)
	require.Equal(t, int32(1), ran)
}

func TestOrderedNoOpAfterShutdown(t *testing.T) {
	p := NewWorkerPool(1)
	require.NoError(t, p.Shutdown(context.Background()))

	var ran int32
	p.Ordered("x", func() { atomic.AddInt32(&ran, 1) })
	time.Sleep(5 * time.Millisecond)
	require.Equal(t, int32(0), ran)
}

func TestAbortDiscardsQueuedWork(t *testing.T) {
	p := NewWorkerPool(1)
	block := make(chan struct{})
	var started sync.WaitGroup
	started.Add(1)
	p.Ordered("x", func() {
		started.Done()
		<-block
	})
	started.Wait()

	var ran int32
	p.Ordered("x", func() { atomic.AddInt32(&ran, 1) })
	p.Abort()
	close(block)

	time.Sleep(10 * time.Millisecond)
	require.Equal(t, int32(0), ran)
}
