package live

import (
	"context"
	"sync"
)

// Feed fans values out to subscribers without blocking the publisher.
// A subscriber whose buffer is full misses the value and is removed; its
// channel is closed so the reader can reconnect.
type Feed[T any] struct {
	mu     sync.RWMutex
	subs   map[*feedSub[T]]struct{}
	buffer int
	closed bool
	wg     sync.WaitGroup
}

type feedSub[T any] struct {
	ch   chan T
	done chan struct{}
}

// NewFeed creates a feed with the given per-subscriber buffer (at least 1).
func NewFeed[T any](buffer int) *Feed[T] {
	return &Feed[T]{
		subs:   make(map[*feedSub[T]]struct{}),
		buffer: max(buffer, 1),
	}
}

// Subscribe returns a channel receiving every value published after the
// call. The subscription ends, and the channel is closed, when ctx is done,
// when the subscriber falls behind, or when the feed is closed.
func (f *Feed[T]) Subscribe(ctx context.Context) <-chan T {
	sub := &feedSub[T]{
		ch:   make(chan T, f.buffer),
		done: make(chan struct{}),
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		close(sub.ch)
		return sub.ch
	}
	f.subs[sub] = struct{}{}

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		select {
		case <-ctx.Done():
			f.remove(sub)
		case <-sub.done:
		}
	}()

	return sub.ch
}

// Publish delivers v to every subscriber with room in its buffer.
func (f *Feed[T]) Publish(v T) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return
	}
	for sub := range f.subs {
		select {
		case sub.ch <- v:
		default:
			go f.remove(sub)
		}
	}
}

// Len returns the number of active subscribers.
func (f *Feed[T]) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

// Close ends every subscription. It is safe to call more than once.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	for sub := range f.subs {
		f.closeSub(sub)
	}
	f.mu.Unlock()

	f.wg.Wait()
}

func (f *Feed[T]) remove(sub *feedSub[T]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[sub]; ok {
		f.closeSub(sub)
	}
}

// closeSub requires f.mu held for writing.
func (f *Feed[T]) closeSub(sub *feedSub[T]) {
	delete(f.subs, sub)
	close(sub.ch)
	close(sub.done)
}
