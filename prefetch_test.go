package waveread

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefetcherSupersedesPending(t *testing.T) {
	var (
		mu      sync.Mutex
		done    []fillRequest
		started = make(chan fillRequest, 8)
		release = make(chan struct{})
	)
	p := newPrefetcher(func(req fillRequest) {
		started <- req
		<-release
		mu.Lock()
		done = append(done, req)
		mu.Unlock()
	})

	a := fillRequest{pos: 0, size: 10}
	b := fillRequest{pos: 5, size: 10}
	c := fillRequest{pos: 9, size: 10}

	require.True(t, p.schedule(a))
	require.Equal(t, a, <-started)

	assert.False(t, p.schedule(a), "duplicate of the in-flight request")
	assert.True(t, p.schedule(b))
	assert.False(t, p.schedule(b), "duplicate of the pending request")
	assert.True(t, p.schedule(c), "replaces b")

	close(release)
	p.wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []fillRequest{a, c}, done)
}

func TestPrefetcherSingleWorker(t *testing.T) {
	var active, peak atomic.Int32
	p := newPrefetcher(func(fillRequest) {
		n := active.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		active.Add(-1)
	})

	for i := range 500 {
		p.schedule(fillRequest{pos: int64(i), size: 1})
	}
	p.wait()

	assert.Equal(t, int32(1), peak.Load())
}

func TestPrefetcherWaitWhenIdle(t *testing.T) {
	p := newPrefetcher(func(fillRequest) {})
	p.wait()

	var ran atomic.Bool
	p = newPrefetcher(func(fillRequest) { ran.Store(true) })
	p.schedule(fillRequest{pos: 1})
	p.wait()
	assert.True(t, ran.Load())

	// the worker restarts after going idle
	ran.Store(false)
	p.schedule(fillRequest{pos: 2})
	p.wait()
	assert.True(t, ran.Load())
}

func TestPrefetcherEpochDistinguishesRequests(t *testing.T) {
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	p := newPrefetcher(func(fillRequest) {
		started <- struct{}{}
		<-release
	})

	require.True(t, p.schedule(fillRequest{pos: 4, size: 4, epoch: 1}))
	<-started
	assert.True(t, p.schedule(fillRequest{pos: 4, size: 4, epoch: 2}))

	close(release)
	p.wait()
}
