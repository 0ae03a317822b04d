// Package workpool provides the fixed-size worker pool the engine shares
// between its look-ahead and transform phases. Work is submitted as
// independent units returning a Task handle; a Group awaits a whole batch and
// surfaces the first failure only after every task in the batch has finished.
// Tasks are never cancelled: a failing unit's siblings are already mutating
// disk state and must run to a consistent terminus.
package workpool

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"
)

// ErrShutdown is returned by Submit after the pool has been shut down.
var ErrShutdown = errors.New("workpool: pool is shut down")

// Task is the handle of one submitted unit of work.
type Task struct {
	done chan struct{}
	err  error
}

// Wait blocks until the task has finished and returns its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// Pool is a fixed-size worker pool. It is created fresh per invocation and
// shut down when the invocation ends.
type Pool struct {
	work chan func()
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// New creates a pool with the given number of workers. A non-positive size
// defaults to the number of available processing units.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p := &Pool{work: make(chan func())}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go func() {
			defer p.wg.Done()
			for fn := range p.work {
				fn()
			}
		}()
	}
	return p
}

// Submit queues fn for execution and returns its handle. Submission order is
// the order tasks are handed to workers; completion order is unspecified. A
// panic inside fn is recovered and reported as the task's error.
//
// Submit must not race with Shutdown; the invoking goroutine owns both.
func (p *Pool) Submit(fn func() error) *Task {
	t := &Task{done: make(chan struct{})}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		t.err = ErrShutdown
		close(t.done)
		return t
	}
	p.mu.Unlock()

	p.work <- func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.err = fmt.Errorf("workpool: task panic: %v", r)
			}
		}()
		t.err = fn()
	}
	return t
}

// Shutdown stops intake and waits for all queued work to drain, up to the
// given timeout. It returns an error only if workers are still busy when the
// timeout elapses.
func (p *Pool) Shutdown(timeout time.Duration) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.work)
	}
	p.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("workpool: drain timed out after %s", timeout)
	}
}

// Group collects the task handles of one batch.
type Group struct {
	tasks []*Task
}

// Go submits fn to the pool and tracks its handle in the group.
func (g *Group) Go(p *Pool, fn func() error) {
	g.tasks = append(g.tasks, p.Submit(fn))
}

// Len returns the number of tasks in the group.
func (g *Group) Len() int {
	return len(g.tasks)
}

// Wait blocks until every task in the group has finished and returns the
// first error in submission order, or nil. Failing tasks do not stop their
// siblings; all results are collected before the error is surfaced.
func (g *Group) Wait() error {
	var first error
	for _, t := range g.tasks {
		if err := t.Wait(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
