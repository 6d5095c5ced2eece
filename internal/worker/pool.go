// Package worker runs fire-and-forget jobs on a fixed set of goroutines
// with a bounded queue. Fanout work is submitted here so a status
// transition never blocks on push or broadcast delivery.
package worker

import (
	"context"
	"log"
	"sync"
	"time"
)

const maxAttempts = 2

type task struct {
	name string
	fn   func(context.Context) error
}

type Pool struct {
	tasks   chan task
	wg      sync.WaitGroup
	once    sync.Once
	baseCtx context.Context
	cancel  context.CancelFunc

	// mu orders Submit sends against the intake close in Shutdown.
	// Running tasks may themselves submit follow-up work (fanout jobs
	// enqueue per-recipient pushes), so a send must never race the close.
	mu     sync.Mutex
	closed bool
}

// New starts workers goroutines consuming a queue of size queueSize.
func New(workers, queueSize int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		tasks:   make(chan task, queueSize),
		baseCtx: ctx,
		cancel:  cancel,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Submit enqueues a job. It never blocks: when the queue is full, or the
// pool is shutting down, the job is dropped and the drop is logged, which
// is acceptable for best-effort fanout work.
func (p *Pool) Submit(name string, fn func(context.Context) error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		log.Printf("[worker] pool shutting down, dropping task %s", name)
		return false
	}
	select {
	case p.tasks <- task{name: name, fn: fn}:
		return true
	default:
		log.Printf("[worker] queue full, dropping task %s", name)
		return false
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for t := range p.tasks {
		p.execute(t)
	}
}

func (p *Pool) execute(t task) {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if p.baseCtx.Err() != nil {
			log.Printf("[worker] shutting down, abandoning task %s", t.name)
			return
		}
		if err = t.fn(p.baseCtx); err == nil {
			return
		}
		log.Printf("[worker] task %s attempt %d/%d failed: %v", t.name, attempt, maxAttempts, err)
	}
	log.Printf("[worker] task %s dropped after %d attempts: %v", t.name, maxAttempts, err)
}

// Shutdown stops accepting work and waits for in-flight tasks, up to the
// context deadline. Tasks still queued after the deadline are abandoned.
func (p *Pool) Shutdown(ctx context.Context) {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		p.cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			log.Printf("[worker] shutdown timed out with tasks still running")
		}
	}
	p.cancel()
}
