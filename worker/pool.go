// Package worker runs UI tasks off the input listener goroutine.
package worker

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Task is a unit of work. It runs on one of the pool's goroutines.
type Task func(ctx context.Context)

const (
	// DefaultQueue is the queue length used when New is given a
	// non-positive one.
	DefaultQueue = 64
)

// Pool is a fixed-size worker pool fed by a bounded queue. Submission never
// blocks: a full queue drops the task.
type Pool struct {
	ctx  context.Context
	jobs chan job
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

type job struct {
	id  string
	run Task
}

// New starts size workers reading from a queue of the given length. size
// defaults to 1, which keeps tasks strictly in submission order.
func New(ctx context.Context, size, queue int) *Pool {
	if size <= 0 {
		size = 1
	}
	if queue <= 0 {
		queue = DefaultQueue
	}
	p := &Pool{ctx: ctx, jobs: make(chan job, queue)}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.loop()
	}
	return p
}

func (p *Pool) loop() {
	defer p.wg.Done()
	for j := range p.jobs {
		p.run(j)
	}
}

func (p *Pool) run(j job) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("task panicked", "task", j.id, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	j.run(p.ctx)
}

// Submit enqueues a task if the queue has room. It returns false when the
// task was dropped because the queue is full or the pool is closed.
func (p *Pool) Submit(id string, t Task) bool {
	if t == nil {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.jobs <- job{id: id, run: t}:
		return true
	default:
		return false
	}
}

// Pending returns the number of queued tasks not yet picked up.
func (p *Pool) Pending() int {
	return len(p.jobs)
}

// Close stops accepting tasks, drains the queue and waits for the workers.
// It is safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
