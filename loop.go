package kiosk

import "sync"

// Loop is the single-threaded event loop every signal is delivered on.
// Handlers run to completion in post order; nothing in the core locks
// because nothing else runs while a handler does.
//
// Post is safe to call from any goroutine, which is how frame clocks and
// other timer sources hand their events to the loop.
type Loop struct {
	tasks chan func()
	quit  chan struct{}
	once  sync.Once
}

// NewLoop creates an event loop ready to accept posts.
func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), 256),
		quit:  make(chan struct{}),
	}
}

// Post queues fn for execution on the loop. Posts after Terminate are
// dropped; a full queue blocks the poster until the loop catches up.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.quit:
	case l.tasks <- fn:
	}
}

// Run dispatches posted functions until Terminate is called. The handler
// that calls Terminate finishes; queued work behind it is dropped.
func (l *Loop) Run() {
	for {
		select {
		case <-l.quit:
			return
		default:
		}
		select {
		case <-l.quit:
			return
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Terminate stops the loop. Idempotent and sticky: once terminated the
// loop never runs again, and further posts are dropped.
func (l *Loop) Terminate() {
	l.once.Do(func() { close(l.quit) })
}

// Done is closed when the loop has been terminated.
func (l *Loop) Done() <-chan struct{} {
	return l.quit
}
