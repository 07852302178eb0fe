// Package notify implements the change-notification broadcast for the
// resource library: listeners get a no-payload signal after every committed
// store mutation and re-fetch on their own.
package notify

import "sync"

// Broadcaster is a process-wide observer registry. The zero value is not
// usable; construct with New.
type Broadcaster struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func()
}

// New constructs an empty broadcaster.
func New() *Broadcaster {
	return &Broadcaster{listeners: make(map[int]func())}
}

// Subscribe registers fn and returns an unsubscribe func. After the returned
// func is called fn receives no further notifications.
func (b *Broadcaster) Subscribe(fn func()) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

// Notify invokes every registered listener. Callbacks run synchronously on
// the caller's goroutine; listeners that need to block should hand off.
func (b *Broadcaster) Notify() {
	b.mu.Lock()
	fns := make([]func(), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
