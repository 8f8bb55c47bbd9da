package waveread

import "sync"

type fillRequest struct {
	pos   int64
	size  int
	epoch uint64
}

// prefetcher runs background fills on at most one goroutine. Requests wait in
// a single slot: a newer request replaces a pending one, and a request equal
// to the one in flight is dropped. The goroutine exits once the slot is empty.
type prefetcher struct {
	mu       sync.Mutex
	idle     *sync.Cond
	pending  *fillRequest
	inflight *fillRequest
	running  bool

	fill func(req fillRequest)
}

func newPrefetcher(fill func(req fillRequest)) *prefetcher {
	p := &prefetcher{fill: fill}
	p.idle = sync.NewCond(&p.mu)
	return p
}

// schedule queues req and returns immediately. It reports whether the request
// was accepted.
func (p *prefetcher) schedule(req fillRequest) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.inflight != nil && *p.inflight == req {
		return false
	}
	if p.pending != nil && *p.pending == req {
		return false
	}

	p.pending = &req
	if !p.running {
		p.running = true
		go p.loop()
	}
	return true
}

func (p *prefetcher) loop() {
	for {
		p.mu.Lock()
		req := p.pending
		p.pending = nil
		p.inflight = req
		if req == nil {
			p.running = false
			p.idle.Broadcast()
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()

		p.fill(*req)
	}
}

// wait blocks until no request is pending or in flight.
func (p *prefetcher) wait() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.running {
		p.idle.Wait()
	}
}
