// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package rendezvous provides SyncQueue, a single-slot handoff
// channel: one item at a time passes from a pusher to a popper, with
// no backing storage beyond that one slot (spec §4.4).
package rendezvous

import (
	"github.com/nxgtw/go-concur"
	"github.com/nxgtw/go-concur/internal/identity"
	"github.com/nxgtw/go-concur/semaphore"
)

// SyncQueue hands a single item at a time from one pusher to one
// popper. Push takes blocker scope on pushSem (excluding every other
// pusher) for the full round trip: acquire the slot, store the item,
// release a permit to popSem, then wait for the slot to be taken back
// before releasing blocker scope. This is what makes concurrent
// pushers serialize on the single buffer cell without a separate
// lock (spec §4.4, grounded on sync_queue.hpp).
type SyncQueue[T any] struct {
	buf     T
	pushSem *semaphore.Advanced[uint32]
	popSem  *semaphore.Advanced[uint32]
}

// NewSyncQueue returns a disabled SyncQueue.
func NewSyncQueue[T any](interProcess bool) *SyncQueue[T] {
	return &SyncQueue[T]{
		pushSem: semaphore.New[uint32](interProcess),
		popSem:  semaphore.New[uint32](interProcess),
	}
}

// Enable resets the queue to empty: one free slot, nothing pending.
func (q *SyncQueue[T]) Enable() concur.ResultCode {
	q.pushSem.SetValue(1)
	q.popSem.SetValue(0)
	q.pushSem.Enable()
	q.popSem.Enable()
	return concur.Ok
}

// Disable disables both semaphores, waking any parked Push or Pop.
func (q *SyncQueue[T]) Disable() {
	q.pushSem.Disable()
	q.popSem.Disable()
}

// Push hands item to the next Pop. It blocks until the slot is free,
// stores item, wakes a waiting popper, then blocks again until that
// popper has taken the item back out, so that the item is never
// overwritten by a second concurrent Push before the first is
// collected.
func (q *SyncQueue[T]) Push(item T, to concur.Timeout) concur.ResultCode {
	caller := identity.New()
	if res := q.pushSem.BlockAndAcquire(caller, 1, nil, to); res != concur.Ok {
		return res
	}
	q.buf = item
	if res := q.popSem.Release(caller, 1, nil); res != concur.Ok {
		return res
	}
	return q.pushSem.ReserveAndUnblock(caller, 1, nil, to)
}

// Pop waits for a pushed item, moves it into out, and frees the slot
// for the next Push.
func (q *SyncQueue[T]) Pop(out *T, to concur.Timeout) concur.ResultCode {
	caller := identity.New()
	cb := func() { *out = q.buf }
	if res := q.popSem.Acquire(caller, cb, to); res != concur.Ok {
		return res
	}
	return q.pushSem.Release(caller, 1, nil)
}
