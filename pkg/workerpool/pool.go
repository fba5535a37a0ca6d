// Package workerpool provides a bounded goroutine pool with backpressure.
//
// A Pool limits how many goroutines run at once. When every worker is busy
// and the queue is full, Submit returns ErrPoolFull instead of blocking, so
// the caller can retry or reject. The race command uses Each to fire
// simulated buyers at one product with bounded concurrency:
//
//	pool := workerpool.New(8)
//	defer pool.Shutdown()
//
//	pool.Each(buyers, func(i int) {
//	    _, err := engine.PlaceOrder(ctx, productID, qty, customer(i))
//	    ...
//	})
package workerpool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/giftwheels/pkg/logger"
)

// ErrPoolFull is returned by Submit when all workers are busy and the task
// queue is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit after Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool is a bounded goroutine pool.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup

	// mu guards closed and orders sends on tasks before its close.
	mu     sync.RWMutex
	closed bool
}

// New creates a Pool with the given number of workers.
// size must be > 0.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		// Buffer equal to 2x the worker count so bursts can be absorbed.
		tasks: make(chan func(), size*2),
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

// Submit enqueues task without blocking.
// It returns ErrPoolFull if the queue is at capacity and ErrPoolClosed after
// Shutdown.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait is like Submit but blocks until a slot is available.
func (p *Pool) SubmitWait(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}
	p.tasks <- task
	return nil
}

// Each runs fn(0) .. fn(n-1) on the pool and returns once all of them have
// finished. It returns ErrPoolClosed if the pool shut down first; tasks
// already queued still run.
func (p *Pool) Each(n int, fn func(i int)) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for i := 0; i < n; i++ {
		wg.Add(1)
		err := p.SubmitWait(func() {
			defer wg.Done()
			fn(i)
		})
		if err != nil {
			wg.Done()
			return err
		}
	}
	return nil
}

// Shutdown stops accepting new tasks, waits for queued and in-flight tasks
// to complete, and releases the workers. It is safe to call multiple times.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// worker drains the task channel until it is closed.
func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		safeRun(task)
	}
}

// safeRun executes task, recovering from panics so a bad task doesn't kill
// the worker goroutine.
func safeRun(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: task panicked", "panic", fmt.Sprint(r))
		}
	}()
	task()
}
