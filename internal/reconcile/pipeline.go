package reconcile

import (
	"errors"
	"sync/atomic"
)

// Save pipeline states: idle -> reconciling -> {no-op | persisting ->
// {success | failure}} -> idle. Requests arriving while one is persisting
// are queued FIFO, each keeping its own notify flag, and drained one at a
// time whatever the outcome of the in-flight request.

var (
	// ErrNoChanges reports a save that found nothing to persist. It is an
	// outcome, not a failure; callers relay it instead of dropping it.
	ErrNoChanges = errors.New("reconcile: no changes to save")

	// ErrPipelineClosed reports a submit after shutdown.
	ErrPipelineClosed = errors.New("reconcile: save pipeline closed")
)

// SaveRequest is one queued save. Notify distinguishes user-visible saves
// from silent autosaves.
type SaveRequest struct {
	Notify bool
}

type pending struct {
	req  SaveRequest
	done chan error
}

// Pipeline serializes saves: exactly one in flight, the rest queued FIFO.
// A single worker goroutine owns execution order (same shape as a one-worker
// job dispatcher).
type Pipeline struct {
	reqs     chan pending
	quit     chan struct{}
	inFlight atomic.Int32
}

// NewPipeline starts the pipeline worker. run performs one complete save
// (reconcile + persist) for a request.
func NewPipeline(run func(SaveRequest) error) *Pipeline {
	p := &Pipeline{
		reqs: make(chan pending, 32),
		quit: make(chan struct{}),
	}
	go func() {
		for {
			select {
			case item := <-p.reqs:
				item.done <- run(item.req)
			case <-p.quit:
				// Fail whatever is still queued so no waiter hangs.
				for {
					select {
					case item := <-p.reqs:
						item.done <- ErrPipelineClosed
					default:
						return
					}
				}
			}
		}
	}()
	return p
}

// Submit enqueues a save and blocks until that save has run to completion.
// Order of completion follows order of submission; a submission that finds
// the queue full waits for room rather than dropping the request.
func (p *Pipeline) Submit(req SaveRequest) error {
	item := pending{req: req, done: make(chan error, 1)}
	select {
	case p.reqs <- item:
		p.inFlight.Add(1)
	case <-p.quit:
		return ErrPipelineClosed
	}
	defer p.inFlight.Add(-1)
	select {
	case err := <-item.done:
		return err
	case <-p.quit:
		return ErrPipelineClosed
	}
}

// Busy reports whether a save is running or queued. Autosave skips its tick
// while a save is already in flight.
func (p *Pipeline) Busy() bool {
	return p.inFlight.Load() > 0
}

// Close stops the worker. Queued requests fail with ErrPipelineClosed.
func (p *Pipeline) Close() {
	select {
	case <-p.quit:
	default:
		close(p.quit)
	}
}
