// Copyright 2016 Aleksandr Demakin. All rights reserved.

package queue

import (
	"sync"

	"github.com/nxgtw/go-concur"
	"github.com/nxgtw/go-concur/semaphore"
)

// Simple is the same fixed-capacity push/pop shape as Bounded, built
// instead from the plainer semaphore.Basic: no blocker scope, so no
// block/unblock/fill/drain/change-capacity. Some deployments of the
// bounded queue never need flow control beyond plain backpressure;
// Simple is the toolkit's equivalent for them (spec §4.3).
type Simple[T any] struct {
	mu       sync.Mutex
	capacity uint32
	semFree  *semaphore.Basic[uint32]
	semUsed  *semaphore.Basic[uint32]
	storage  Storage[T]
}

// NewSimple returns a disabled Simple queue using storage as its
// backing container.
func NewSimple[T any](storage Storage[T], interProcess bool) *Simple[T] {
	return &Simple[T]{
		semFree: semaphore.NewBasic[uint32](interProcess),
		semUsed: semaphore.NewBasic[uint32](interProcess),
		storage: storage,
	}
}

// Enable resets the queue to empty and sets its capacity. capacity
// must be > 0.
func (q *Simple[T]) Enable(capacity uint32) concur.ResultCode {
	if capacity == 0 {
		return concur.InvalidArguments
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	if r, ok := q.storage.(Resizer); ok {
		r.Grow(int(capacity))
	}
	q.storage.Clear()
	q.capacity = capacity
	q.semFree.SetValue(capacity)
	q.semUsed.SetValue(0)
	q.semFree.Enable()
	q.semUsed.Enable()
	return concur.Ok
}

// Disable disables both semaphores.
func (q *Simple[T]) Disable() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.semFree.Disable()
	q.semUsed.Disable()
}

// GetCapacity returns the configured capacity.
func (q *Simple[T]) GetCapacity() uint32 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.capacity
}

// GetSize returns the current number of stored items. Like Bounded's,
// this reads semUsed's own counter instead of storage, since storage
// is only ever mutated from inside semFree's/semUsed's own critical
// sections (see Push/Pop below).
func (q *Simple[T]) GetSize() int {
	return int(q.semUsed.Value())
}

// Push waits for a free slot, appends item, then signals a consumer.
// The append runs inside semFree's own critical section, not under
// q.mu, matching Bounded's Push: q.mu is reserved for the
// lifecycle/admin fields and is never taken while either semaphore's
// own lock is held.
func (q *Simple[T]) Push(item T, to concur.Timeout) concur.ResultCode {
	cb := func() { q.storage.PushBack(item) }
	if res := q.semFree.Acquire(cb, to); res != concur.Ok {
		return res
	}
	return q.semUsed.Release(nil)
}

// TryPush is the non-blocking form of Push.
func (q *Simple[T]) TryPush(item T) concur.ResultCode {
	cb := func() { q.storage.PushBack(item) }
	if res := q.semFree.TryAcquire(cb); res != concur.Ok {
		return res
	}
	return q.semUsed.Release(nil)
}

// Pop waits for a filled slot, then moves the oldest item into out.
func (q *Simple[T]) Pop(out *T, to concur.Timeout) concur.ResultCode {
	if res := q.semUsed.Acquire(nil, to); res != concur.Ok {
		return res
	}
	return q.semFree.Release(func() { *out = q.storage.PopFront() })
}

// TryPop is the non-blocking form of Pop.
func (q *Simple[T]) TryPop(out *T) concur.ResultCode {
	if res := q.semUsed.TryAcquire(nil); res != concur.Ok {
		return res
	}
	return q.semFree.Release(func() { *out = q.storage.PopFront() })
}
