// Package dispatch provides the ordered-task dispatcher and resubscriber
// bus external collaborators named by the validation pipeline's concurrency
// model, along with reference implementations suitable for tests and the
// demo binary.
package dispatch

import "context"

// OrderedDispatcher runs tasks submitted under the same owner key in the
// order they were submitted, while tasks under different owners may run
// concurrently with each other. This is the ordering guarantee block
// validation needs when, for example, per-peer block announcements must be
// processed in arrival order but announcements from different peers need
// not serialize against one another.
type OrderedDispatcher interface {
	// Ordered enqueues task to run after every previously-enqueued task
	// sharing owner has completed.
	Ordered(owner string, task func())
}

// Pool additionally exposes the lifecycle a reference dispatcher needs:
// graceful shutdown (drain queued work) versus abort (discard it).
type Pool interface {
	OrderedDispatcher
	// Shutdown stops accepting new work and waits for everything already
	// queued to finish, or for ctx to be done, whichever comes first.
	Shutdown(ctx context.Context) error
	// Abort stops accepting new work and discards anything still queued;
	// work already running is allowed to finish.
	Abort()
}
