// Package tasks runs best-effort background work that must not block or
// fail the request that scheduled it.
package tasks

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"sharkin/internal/logger"
)

const (
	DefaultLimit   = 8
	DefaultTimeout = 30 * time.Second
)

// Runner executes fire-and-forget jobs with bounded concurrency. Jobs run on a
// context detached from the caller so a finished HTTP request does not cancel
// them.
type Runner struct {
	sem     *semaphore.Weighted
	wg      sync.WaitGroup
	log     *logger.Logger
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	base   context.Context
	cancel context.CancelFunc
}

func NewRunner(limit int, timeout time.Duration, log *logger.Logger) *Runner {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	base, cancel := context.WithCancel(context.Background())
	return &Runner{
		sem:     semaphore.NewWeighted(int64(limit)),
		log:     log.With("component", "tasks"),
		timeout: timeout,
		base:    base,
		cancel:  cancel,
	}
}

// Go schedules fn. Errors and panics are logged and otherwise swallowed.
// It returns false when the runner is closed.
func (r *Runner) Go(name string, fn func(ctx context.Context) error) bool {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.log.Warn("Task dropped, runner closed", "task", name)
		return false
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		if err := r.sem.Acquire(r.base, 1); err != nil {
			r.log.Warn("Task dropped", "task", name, "error", err)
			return
		}
		defer r.sem.Release(1)
		r.run(name, fn)
	}()
	return true
}

func (r *Runner) run(name string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(r.base, r.timeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("Task panicked", "task", name, "panic", p)
		}
	}()

	start := time.Now()
	if err := fn(ctx); err != nil {
		r.log.Warn("Task failed", "task", name, "error", err, "duration", time.Since(start))
		return
	}
	r.log.Debug("Task finished", "task", name, "duration", time.Since(start))
}

// Wait blocks until every scheduled task has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Close stops accepting work and waits for running tasks. If ctx expires
// first, remaining tasks are cancelled and ctx's error is returned.
func (r *Runner) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.cancel()
		return nil
	case <-ctx.Done():
		r.cancel()
		<-done
		return ctx.Err()
	}
}
