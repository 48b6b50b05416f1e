package viewstate

import (
	"context"
	"sync"
)

// Job is the handle of one launched action.
type Job struct {
	done    chan struct{}
	refused bool
}

// Refused reports whether the scope was closed when the job was launched.
// A refused job never ran and is already done.
func (j *Job) Refused() bool {
	return j.refused
}

// Done is closed when the action has returned.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finishes or ctx ends.
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Scope runs orchestrator actions on their own goroutines.
// Running actions are never cancelled: they get a context that keeps the
// scope's values but ignores its cancellation. After Close, Launch refuses
// new work and returns an already finished job.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewScope derives a scope from parent. Values on parent, such as the
// identity resolver, are visible to every launched action.
func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Launch runs fn on a new goroutine and returns its Job.
func (s *Scope) Launch(fn func(ctx context.Context)) *Job {
	return s.Start(nil, fn)
}

// Start is Launch with an accepted hook: when the scope takes the job,
// accepted runs on the caller's goroutine before fn starts. A closed scope
// runs neither.
func (s *Scope) Start(accepted func(), fn func(ctx context.Context)) *Job {
	job := &Job{done: make(chan struct{})}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		job.refused = true
		close(job.done)
		return job
	}
	s.wg.Add(1)
	s.mu.Unlock()

	if accepted != nil {
		accepted()
	}

	go func() {
		defer s.wg.Done()
		defer close(job.done)
		fn(context.WithoutCancel(s.ctx))
	}()

	return job
}

// Context returns the scope context. It is cancelled by Close.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Wait blocks until every launched action has finished.
func (s *Scope) Wait() {
	s.wg.Wait()
}

// Close stops accepting actions and waits for the running ones.
func (s *Scope) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}
