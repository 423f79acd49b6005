// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package queue provides the toolkit's bounded FIFO queues: Bounded,
// built from two semaphore.Advanced instances with fill/drain/resize
// support, and Simple, the same push/pop shape built from the plainer
// semaphore.Basic for callers that never need blocker-scope flow
// control.
package queue

import "github.com/pkg/errors"

// Storage is the pluggable back-end contract a Bounded or Simple
// queue stores its items in (spec §6's storage container contract).
// The queue calls PushBack and PopFront only while holding the paired
// semaphore's lock, and Clear only while holding its own lifecycle
// lock, so implementations need not be thread-safe on their own.
type Storage[T any] interface {
	PushBack(item T)
	PopFront() T
	Clear()
	Len() int
}

// RingBuffer is the toolkit's default Storage implementation: a
// fixed-capacity circular buffer over a slice, grounded on the
// original implementation's flat ring queue. Unlike a growable slice,
// it reallocates only when Grow is called, and PopFront never leaves a
// lingering reference to a popped item in the backing array.
type RingBuffer[T any] struct {
	data  []T
	front int
	size  int
}

// NewRingBuffer returns an empty RingBuffer able to hold up to
// capacity items. capacity must be non-negative; this is a
// construction-time precondition, not a runtime ResultCode failure, so
// it is reported as a wrapped error rather than through ResultCode.
func NewRingBuffer[T any](capacity int) (*RingBuffer[T], error) {
	if capacity < 0 {
		return nil, errors.Errorf("queue: negative ring buffer capacity %d", capacity)
	}
	return &RingBuffer[T]{data: make([]T, capacity)}, nil
}

// PushBack appends item at the back. The caller (via the paired
// semaphore's acquire) is responsible for never calling this when
// Len() already equals the buffer's capacity.
func (r *RingBuffer[T]) PushBack(item T) {
	back := (r.front + r.size) % len(r.data)
	r.data[back] = item
	r.size++
}

// PopFront removes and returns the oldest item. The caller is
// responsible for never calling this on an empty buffer.
func (r *RingBuffer[T]) PopFront() T {
	var zero T
	item := r.data[r.front]
	r.data[r.front] = zero
	r.front = (r.front + 1) % len(r.data)
	r.size--
	return item
}

// Clear empties the buffer, dropping references to every stored
// item.
func (r *RingBuffer[T]) Clear() {
	var zero T
	for i := 0; i < r.size; i++ {
		r.data[(r.front+i)%len(r.data)] = zero
	}
	r.front = 0
	r.size = 0
}

// Len returns the number of items currently stored.
func (r *RingBuffer[T]) Len() int {
	return r.size
}

// Resizer is optionally implemented by a Storage backend that can
// reallocate to hold more items than it was originally constructed
// with. Bounded.ChangeCapacity uses it when growing past a backend's
// current allocation; a backend that never implements it simply must
// be constructed large enough up front.
type Resizer interface {
	Grow(capacity int)
}

// Grow reallocates the buffer to hold up to capacity items,
// preserving the order and contents of what's already stored.
// capacity must be >= Len().
func (r *RingBuffer[T]) Grow(capacity int) {
	if capacity <= len(r.data) {
		return
	}
	data := make([]T, capacity)
	for i := 0; i < r.size; i++ {
		data[i] = r.data[(r.front+i)%len(r.data)]
	}
	r.data = data
	r.front = 0
}
