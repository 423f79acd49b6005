// Copyright 2016 Aleksandr Demakin. All rights reserved.

package queue

import (
	"sync"

	"github.com/nxgtw/go-concur"
	"github.com/nxgtw/go-concur/internal/identity"
	"github.com/nxgtw/go-concur/semaphore"
)

// Bounded is a fixed-capacity FIFO built from two
// semaphore.Advanced instances: semFree counts empty slots available
// to producers, semUsed counts filled slots available to consumers.
// Both block/unblock/fill/drain/change-capacity flow control and the
// blocker-scope exclusion they rely on come from semaphore.Advanced;
// Bounded itself only wires the storage mutation into the right side
// of each acquire/release pair (spec §4.2).
//
// A Bounded queue's flow-control calls (BlockPushing, Fill, Drain,
// ChangeCapacity, ...) each take blocker scope on one of the two
// semaphores. ChangeCapacity releases it before returning;
// BlockPushing/BlockPopping, and Fill/Drain on success, leave it held
// until the matching Unblock call (or the next Fill/Drain). Bounded
// mints a fresh caller identity per call rather than asking its own
// callers to manage one, since Unblock never needs to match the
// identity that originally took the scope.
//
// q.mu only ever guards the lifecycle/admin fields (capacity, and
// storage for Enable/Clear). Enable and Disable take the semaphores'
// own locks while holding q.mu, but nothing ever takes q.mu while
// holding a semaphore's lock, so the two can't deadlock against each
// other. Push/Pop never touch q.mu at all: the
// semaphore whose critical section their callback runs in is already
// the single lock that serializes storage access between them.
type Bounded[T any] struct {
	mu       sync.Mutex
	capacity uint32
	semFree  *semaphore.Advanced[uint32]
	semUsed  *semaphore.Advanced[uint32]
	storage  Storage[T]
}

// NewBounded returns a disabled Bounded queue using storage as its
// backing container. storage should normally be empty; Enable clears
// it regardless.
func NewBounded[T any](storage Storage[T], interProcess bool) *Bounded[T] {
	return &Bounded[T]{
		semFree: semaphore.New[uint32](interProcess),
		semUsed: semaphore.New[uint32](interProcess),
		storage: storage,
	}
}

// Enable resets the queue to empty and sets its capacity. capacity
// must be > 0.
func (q *Bounded[T]) Enable(capacity uint32) concur.ResultCode {
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

// Disable disables both semaphores. Storage is intentionally left
// untouched: any in-flight operation unwinds through a Disabled
// return rather than observing storage mutated out from under it.
func (q *Bounded[T]) Disable() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.semFree.Disable()
	q.semUsed.Disable()
}

// Clear empties storage immediately. It does not touch either
// semaphore's counter, so calling it while a push or pop is in
// flight violates the queue's size invariant; use only when no
// operation can be depending on the current contents (e.g. right
// after Disable).
func (q *Bounded[T]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.storage.Clear()
}

// GetCapacity returns the most recently committed capacity. It may
// race with an in-progress ChangeCapacity.
func (q *Bounded[T]) GetCapacity() uint32 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.capacity
}

// GetSize returns the current number of stored items. It reads
// semUsed's own counter rather than storage directly: storage is
// mutated only from inside semFree's/semUsed's critical sections (see
// Push/Pop below), and semUsed's filled-slot count equals storage's
// length whenever no Push or Pop is part-way through, so this never
// needs a second lock on storage itself. While a Push or Pop is
// between its two semaphore steps the count can be off by one, and
// after Clear it keeps the pre-Clear count.
func (q *Bounded[T]) GetSize() int {
	return int(q.semUsed.Value())
}

// BlockPushing fences producers out without affecting pending
// consumers.
func (q *Bounded[T]) BlockPushing(to concur.Timeout) concur.ResultCode {
	return q.semFree.Block(identity.New(), nil, to)
}

// TryBlockPushing is the non-blocking form of BlockPushing.
func (q *Bounded[T]) TryBlockPushing() concur.ResultCode {
	return q.semFree.TryBlock(identity.New(), nil)
}

// UnblockPushing reverses BlockPushing.
func (q *Bounded[T]) UnblockPushing() concur.ResultCode {
	return q.semFree.Unblock(identity.New(), nil)
}

// BlockPopping fences consumers out without affecting pending
// producers.
func (q *Bounded[T]) BlockPopping(to concur.Timeout) concur.ResultCode {
	return q.semUsed.Block(identity.New(), nil, to)
}

// TryBlockPopping is the non-blocking form of BlockPopping.
func (q *Bounded[T]) TryBlockPopping() concur.ResultCode {
	return q.semUsed.TryBlock(identity.New(), nil)
}

// UnblockPopping reverses BlockPopping.
func (q *Bounded[T]) UnblockPopping() concur.ResultCode {
	return q.semUsed.Unblock(identity.New(), nil)
}

// Fill lets producers run freely, then waits (with blocker scope
// held on the consumer side) until the queue is observed full.
// Consumers are fenced out once Fill succeeds.
func (q *Bounded[T]) Fill(to concur.Timeout) concur.ResultCode {
	q.mu.Lock()
	capacity := q.capacity
	q.mu.Unlock()

	if res := q.semFree.Unblock(identity.New(), nil); res != concur.Ok {
		return res
	}
	return q.semUsed.BlockAndReserve(identity.New(), capacity, nil, to)
}

// Drain mirrors Fill on the opposite sides: lets consumers run
// freely, then waits until the queue is observed empty, fencing
// producers out.
func (q *Bounded[T]) Drain(to concur.Timeout) concur.ResultCode {
	q.mu.Lock()
	capacity := q.capacity
	q.mu.Unlock()

	if res := q.semUsed.Unblock(identity.New(), nil); res != concur.Ok {
		return res
	}
	return q.semFree.BlockAndReserve(identity.New(), capacity, nil, to)
}

// ChangeCapacity resizes the queue. Shrinking atomically consumes
// the excess free permits, under blocker scope, before committing the
// new capacity; growing simply releases the new permits. Same
// capacity is a no-op.
func (q *Bounded[T]) ChangeCapacity(capacity uint32, to concur.Timeout) concur.ResultCode {
	q.mu.Lock()
	old := q.capacity
	q.mu.Unlock()

	if capacity == old {
		return concur.Ok
	}
	if capacity < old {
		caller := identity.New()
		if res := q.semFree.BlockAndAcquire(caller, old-capacity, nil, to); res != concur.Ok {
			return res
		}
		q.mu.Lock()
		q.capacity = capacity
		q.mu.Unlock()
		return q.semFree.Unblock(caller, nil)
	}
	q.mu.Lock()
	if r, ok := q.storage.(Resizer); ok {
		r.Grow(int(capacity))
	}
	q.mu.Unlock()
	if res := q.semFree.Release(identity.New(), capacity-old, nil); res != concur.Ok {
		return res
	}
	q.mu.Lock()
	q.capacity = capacity
	q.mu.Unlock()
	return concur.Ok
}

// Push waits for a free slot, then appends item. The append runs
// inside semFree's own acquire critical section, not under q.mu: that
// single lock is what serializes it against Pop's extraction below, so
// nothing here may also take q.mu without risking the opposite
// acquisition order Enable/Disable use (q.mu then the semaphore's own
// lock), which would deadlock.
func (q *Bounded[T]) Push(item T, to concur.Timeout) concur.ResultCode {
	caller := identity.New()
	cb := func() { q.storage.PushBack(item) }
	if res := q.semFree.Acquire(caller, cb, to); res != concur.Ok {
		return res
	}
	return q.semUsed.Release(caller, 1, nil)
}

// TryPush is the non-blocking form of Push.
func (q *Bounded[T]) TryPush(item T) concur.ResultCode {
	caller := identity.New()
	cb := func() { q.storage.PushBack(item) }
	if res := q.semFree.TryAcquire(caller, cb); res != concur.Ok {
		return res
	}
	return q.semUsed.Release(caller, 1, nil)
}

// Pop waits for a filled slot, then moves the oldest item into out.
// The extraction runs inside semFree's own release critical section,
// the same lock Push's append above runs under, so the two always
// serialize against each other without a second lock.
func (q *Bounded[T]) Pop(out *T, to concur.Timeout) concur.ResultCode {
	caller := identity.New()
	if res := q.semUsed.Acquire(caller, nil, to); res != concur.Ok {
		return res
	}
	cb := func() { *out = q.storage.PopFront() }
	return q.semFree.Release(caller, 1, cb)
}

// TryPop is the non-blocking form of Pop.
func (q *Bounded[T]) TryPop(out *T) concur.ResultCode {
	caller := identity.New()
	if res := q.semUsed.TryAcquire(caller, nil); res != concur.Ok {
		return res
	}
	cb := func() { *out = q.storage.PopFront() }
	return q.semFree.Release(caller, 1, cb)
}
