package mailbox

import (
	"context"
	"sync"
)

// Mailbox is a single-slot buffer where the latest item always wins.
// It is NOT a queue: it holds at most one pending item, and Put()
// overwrites whatever is there. Used to coalesce run triggers so
// overlapping schedule ticks collapse into one pending run instead of
// piling up.
type Mailbox[T any] struct {
	mu    sync.Mutex
	item  *T
	ready chan struct{}
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{ready: make(chan struct{}, 1)}
}

// Put stores an item, replacing any existing one. It never blocks.
func (m *Mailbox[T]) Put(v T) {
	m.mu.Lock()
	m.item = &v
	m.mu.Unlock()
	select {
	case m.ready <- struct{}{}:
	default:
	}
}

// Take blocks until an item is available or ctx is done. The second
// return is false only on cancellation.
func (m *Mailbox[T]) Take(ctx context.Context) (T, bool) {
	for {
		select {
		case <-m.ready:
			m.mu.Lock()
			v := m.item
			m.item = nil
			m.mu.Unlock()
			if v != nil {
				return *v, true
			}
		case <-ctx.Done():
			var zero T
			return zero, false
		}
	}
}

// HasItem reports whether something is currently waiting.
func (m *Mailbox[T]) HasItem() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.item != nil
}
