// Package debounce delays a rapidly changing value until it has been quiet
// for a fixed period.
package debounce

import (
	"sync"
	"time"
)

// Buffer holds the latest pushed value and emits it once no further push
// arrives within the delay. The zero value is not usable; call New.
type Buffer[T any] struct {
	delay time.Duration
	emit  func(T)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	value   T
	pending bool
	closed  bool
}

func New[T any](delay time.Duration, emit func(T)) *Buffer[T] {
	return &Buffer[T]{delay: delay, emit: emit}
}

// Push replaces the pending value and restarts the quiet period.
func (b *Buffer[T]) Push(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.value = v
	b.pending = true
	b.gen++
	gen := b.gen
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.delay, func() { b.fire(gen) })
}

// Flush emits the pending value immediately. It reports whether anything
// was emitted.
func (b *Buffer[T]) Flush() bool {
	b.mu.Lock()
	if b.closed || !b.pending {
		b.mu.Unlock()
		return false
	}
	v := b.take()
	b.mu.Unlock()
	b.emit(v)
	return true
}

func (b *Buffer[T]) Pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending
}

// Cancel drops the pending value without closing the buffer.
func (b *Buffer[T]) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.take()
}

// Close drops any pending value. Nothing is emitted after Close returns.
func (b *Buffer[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.take()
}

func (b *Buffer[T]) fire(gen uint64) {
	b.mu.Lock()
	// a timer that lost the race against Push, Flush or Close sees a newer gen
	if b.closed || !b.pending || gen != b.gen {
		b.mu.Unlock()
		return
	}
	v := b.take()
	b.mu.Unlock()
	b.emit(v)
}

// take clears the pending state and invalidates the running timer.
// Callers hold b.mu.
func (b *Buffer[T]) take() T {
	v := b.value
	var zero T
	b.value = zero
	b.pending = false
	b.gen++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	return v
}
