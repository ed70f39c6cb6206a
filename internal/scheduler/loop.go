package scheduler

import (
	"context"
	"errors"
)

// ErrLoopClosed is returned when posting to a loop that has exited
var ErrLoopClosed = errors.New("render loop closed")

// Loop runs posted functions one at a time on a single goroutine, in the
// order they were posted
type Loop struct {
	tasks chan func()
	done  chan struct{}
}

// NewLoop creates a loop. Call Run to start it.
func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func()),
		done:  make(chan struct{}),
	}
}

// Run executes posted functions until ctx is cancelled
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Do runs fn on the loop and waits for it to return
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}

	select {
	case l.tasks <- task:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopClosed
	}

	<-finished
	return nil
}

// Done is closed once Run has returned
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
