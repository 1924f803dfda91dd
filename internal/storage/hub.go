package storage

import (
	"context"
	"sync"
)

// hub fans snapshots out to watch subscribers. Every subscriber channel is
// buffered to one element with latest-wins delivery: a slow consumer skips
// intermediate snapshots instead of blocking writers.
type hub[T any] struct {
	mu     sync.Mutex
	subs   map[int]chan T
	nextID int
	done   chan struct{}
	closed bool
}

func newHub[T any]() *hub[T] {
	return &hub[T]{
		subs: make(map[int]chan T),
		done: make(chan struct{}),
	}
}

// subscribe registers a watcher and delivers the initial snapshot right
// away. Cancelling ctx unregisters the watcher and closes its channel.
func (h *hub[T]) subscribe(ctx context.Context, initial T) <-chan T {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan T, 1)
	if h.closed {
		close(ch)
		return ch
	}
	ch <- initial

	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	go func() {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
			}
			h.mu.Unlock()
		case <-h.done:
			// hub close already closed the channel
		}
	}()

	return ch
}

func (h *hub[T]) publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, ch := range h.subs {
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

func (h *hub[T]) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
