// Package emitter implements the signal primitive behind device and
// backend notifications: typed handler lists with cancellable
// subscriptions.
//
// Emitters are not safe for concurrent use. The server event loop
// serializes every emit and every subscription change; handlers run to
// completion before the next signal is dispatched.
package emitter

import "github.com/gogpu/kiosk"

// Emitter dispatches values of type T to subscribed handlers in
// subscription order.
type Emitter[T any] struct {
	subs []*subscription[T]
}

type subscription[T any] struct {
	e         *Emitter[T]
	fn        func(T)
	cancelled bool
}

// Cancel removes the handler. Idempotent; safe to call while an Emit that
// included this subscription is still running, in which case the handler
// is not invoked again.
func (s *subscription[T]) Cancel() {
	if s.cancelled {
		return
	}
	s.cancelled = true
	s.fn = nil
	for i, cur := range s.e.subs {
		if cur == s {
			s.e.subs = append(s.e.subs[:i], s.e.subs[i+1:]...)
			break
		}
	}
}

// Subscribe registers fn and returns its cancellation handle.
func (e *Emitter[T]) Subscribe(fn func(T)) kiosk.Subscription {
	s := &subscription[T]{e: e, fn: fn}
	e.subs = append(e.subs, s)
	return s
}

// Emit invokes every live handler with v. Handlers subscribed during an
// emit do not see the current value; handlers cancelled during an emit are
// skipped.
func (e *Emitter[T]) Emit(v T) {
	snapshot := make([]*subscription[T], len(e.subs))
	copy(snapshot, e.subs)
	for _, s := range snapshot {
		if s.cancelled {
			continue
		}
		s.fn(v)
	}
}

// Len returns the number of live subscriptions.
func (e *Emitter[T]) Len() int {
	return len(e.subs)
}
