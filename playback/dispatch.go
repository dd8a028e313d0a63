package playback

import (
	"context"
	"errors"
)

// ErrLoopStopped is returned by Loop.Do once the loop has exited
var ErrLoopStopped = errors.New("dispatch loop stopped")

// Dispatcher runs functions one at a time on the goroutine that owns the
// playback session. Post must not block waiting for fn to run.
type Dispatcher interface {
	Post(fn func())
}

// DispatcherFunc adapts a function to a Dispatcher
type DispatcherFunc func(fn func())

func (f DispatcherFunc) Post(fn func()) {
	f(fn)
}

// Loop is a channel-driven Dispatcher for players without a UI event loop
type Loop struct {
	queue chan func()
	done  chan struct{}
}

// NewLoop creates a Loop whose queue holds up to size pending functions
func NewLoop(size int) *Loop {
	if size < 1 {
		size = 64
	}
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Post queues fn. It is dropped if the loop has already stopped.
func (l *Loop) Post(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Do runs fn on the loop and waits for it to finish
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}
	select {
	case l.queue <- wrapped:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes queued functions until ctx is done
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
