package controller

import (
	"context"
	"sync"

	"launchdash/internal/errors"
)

type request struct {
	event Event
	reply chan result
}

type result struct {
	updates []Update
	err     error
}

// Loop feeds events to a Controller one at a time from a single goroutine.
// Callers block in Submit until their event has been handled or the loop
// has stopped.
type Loop struct {
	controller *Controller
	events     chan request
	done       chan struct{}
	stopOnce   sync.Once
}

// NewLoop creates a dispatch loop; buffer is the number of events that may
// queue while one is being handled.
func NewLoop(c *Controller, buffer int) *Loop {
	if buffer < 0 {
		buffer = 0
	}
	return &Loop{
		controller: c,
		events:     make(chan request, buffer),
		done:       make(chan struct{}),
	}
}

// Run handles events until ctx is cancelled. Once it returns, pending and
// later Submit calls fail with an error wrapping context.Canceled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stopOnce.Do(func() { close(l.done) })

	l.controller.log.Info("dispatch loop started (%d bindings)", len(l.controller.bindings))
	for {
		// a stop request wins over queued events
		if err := ctx.Err(); err != nil {
			l.controller.log.Info("dispatch loop stopped")
			return err
		}
		select {
		case <-ctx.Done():
			l.controller.log.Info("dispatch loop stopped")
			return ctx.Err()
		case req := <-l.events:
			updates, err := l.controller.Dispatch(req.event)
			req.reply <- result{updates: updates, err: err}
		}
	}
}

// Done is closed when Run has returned
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Submit queues ev and waits for the charts it produced
func (l *Loop) Submit(ctx context.Context, ev Event) ([]Update, error) {
	req := request{event: ev, reply: make(chan result, 1)}

	select {
	case l.events <- req:
	case <-l.done:
		return nil, errStopped()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res.updates, res.err
	case <-l.done:
		return nil, errStopped()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func errStopped() error {
	return errors.Wrap(context.Canceled, "dispatch loop stopped")
}
