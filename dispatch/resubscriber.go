package dispatch

import "sync"

// Intent is a handler's verdict on whether a Resubscriber subscription
// should remain enrolled after handling one notification.
type Intent int

const (
	// Stop deregisters the subscription; its handler will not be invoked
	// again.
	Stop Intent = iota
	// Resubscribe keeps the subscription enrolled for the next
	// notification.
	Resubscribe
)

// Handler receives an immutable notification snapshot and returns its
// Intent. Notify invokes handlers with no lock held and defers every
// re-enrollment decision until after they have returned, so a handler may
// call Subscribe, Unsubscribe, or Notify on the Resubscriber that invoked it
// without deadlocking.
type Handler func(notification any) Intent

// Resubscriber is a re-entrant, interest-list notification bus. Earlier
// designs represented "keep listening" as a plain bool return from the
// handler and re-enrolled it while still holding the subscriber-list lock;
// a handler that subscribed a new listener as a side effect of handling a
// notification would then deadlock against itself. Resubscriber instead
// collects each handler's Intent while holding the lock only long enough to
// read the snapshot of current subscribers, and performs every removal or
// re-addition after the lock is released and after all handlers for the
// current notification have run.
type Resubscriber struct {
	mu          sync.Mutex
	subscribers map[int]Handler
	nextID      int
}

// NewResubscriber returns an empty Resubscriber.
func NewResubscriber() *Resubscriber {
	return &Resubscriber{subscribers: make(map[int]Handler)}
}

// Subscription identifies one enrolled Handler, returned by Subscribe so
// the caller can Unsubscribe it directly without waiting for it to return
// Stop.
type Subscription struct {
	id int
}

// Subscribe enrolls handler and returns a Subscription that can later be
// passed to Unsubscribe.
func (r *Resubscriber) Subscribe(handler Handler) Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.subscribers[id] = handler
	return Subscription{id: id}
}

// Unsubscribe deregisters sub, if it is still enrolled. Safe to call from
// within a Handler: it acquires the lock itself, and Notify does not hold
// the lock while handlers run.
func (r *Resubscriber) Unsubscribe(sub Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subscribers, sub.id)
}

// Notify delivers notification to a snapshot of every currently-enrolled
// handler, outside the lock, then removes exactly those that returned
// Stop. Handlers subscribed by another handler during this Notify call are
// not delivered this notification (they enroll for the next one), and a
// handler may safely call Subscribe or Unsubscribe on r during its own
// invocation.
func (r *Resubscriber) Notify(notification any) {
	r.mu.Lock()
	snapshot := make(map[int]Handler, len(r.subscribers))
	for id, h := range r.subscribers {
		snapshot[id] = h
	}
	r.mu.Unlock()

	toStop := make([]int, 0)
	for id, handler := range snapshot {
		if handler(notification) == Stop {
			toStop = append(toStop, id)
		}
	}

	if len(toStop) == 0 {
		return
	}
	r.mu.Lock()
	for _, id := range toStop {
		delete(r.subscribers, id)
	}
	r.mu.Unlock()
}

// Len reports the number of currently-enrolled subscriptions.
func (r *Resubscriber) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subscribers)
}
