// Package handler implements the connection lifecycle and event-propagation
// engine: a per-connection read/write loop with exactly-once close semantics
// (Conn), a bounded accept loop with a live-client registry (Server), and the
// observer contracts that link them.
package handler

import "sync"

// MessageListener observes payloads received on a connection.
// It is invoked synchronously from the connection's read worker, so it must
// not block indefinitely.
type MessageListener interface {
	OnMessage(c *Conn, payload any)
}

// DisconnectListener observes connection teardown. It is invoked exactly once
// per connection, before the connection's resources are released, so it may
// still query the handler's identity.
type DisconnectListener interface {
	OnDisconnected(c *Conn)
}

// ConnectionListener observes newly accepted connections on a Server.
type ConnectionListener interface {
	OnNewConnection(c *Conn)
}

// listenerList is an insertion-ordered listener set. Duplicates are allowed,
// nil entries are ignored, and removal takes out one registration at a time.
// Notification iterates over a snapshot, so listeners may be added or removed
// concurrently with an ongoing fan-out.
type listenerList[T comparable] struct {
	mu    sync.Mutex
	items []T
}

func (l *listenerList[T]) add(v T) {
	var zero T
	if v == zero {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, v)
}

func (l *listenerList[T]) remove(v T) {
	var zero T
	if v == zero {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i] == v {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

func (l *listenerList[T]) snapshot() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}
