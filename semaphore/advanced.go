// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package semaphore provides the toolkit's counting semaphores: the
// simple Basic, and the keystone Advanced that adds
// an exclusive "blocker scope" and composite acquire/reserve/release
// operations on top of counting.
package semaphore

import (
	"sync"

	"github.com/nxgtw/go-concur"
	"github.com/nxgtw/go-concur/internal/condvar"
	"github.com/nxgtw/go-concur/internal/identity"
)

// Counter is the semaphore's unsigned counter type. Default usage is
// Advanced[uint32], matching spec's default 32-bit unsigned counter.
type Counter interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Callback is invoked synchronously, inside the semaphore's critical
// section, by a composite operation's success path. Callbacks must
// not block, acquire another lock this primitive's waiters could be
// holding, or call back into the same semaphore: the semaphore's
// mutex is not recursive.
type Callback func()

// Flag selects which steps of the composite operation (do/tryDo)
// run. Flags combine freely; see Do's doc for the execution order.
type Flag uint8

const (
	// PreBlock takes exclusive blocker scope for the calling
	// identity before any acquire/reserve wait.
	PreBlock Flag = 1 << iota
	// PostUnblock releases blocker scope on the success path.
	PostUnblock
	// Reserve waits for value >= count without decrementing it.
	Reserve
	// Acquire waits for value >= count, then decrements it.
	Acquire
	// Release increments value by count.
	Release
)

func (f Flag) has(bit Flag) bool { return f&bit != 0 }
func (f Flag) hasAcquireOrReserve() bool {
	return f.has(Acquire) || f.has(Reserve)
}

// Advanced is the toolkit's keystone primitive: a counting semaphore
// that additionally lets one caller hold an exclusive blocker scope,
// during which no other caller can make acquire/reserve/block
// progress. It is the machinery bounded queues use to make
// fill/drain/resize safe without exposing a second lock.
//
// Advanced is created disabled; call Enable (after an optional
// SetValue) before use.
type Advanced[C Counter] struct {
	mu        sync.Mutex
	condValue *condvar.Cond
	condBlock *condvar.Cond

	enabled bool
	value   C
	blocker identity.Caller
}

// New returns a disabled Advanced semaphore with counter type C.
// interProcess selects the cross-process attribute set for the
// semaphore's internal mutex/condvars (spec component 3); it has no
// effect on the default, process-local backing (see package condvar).
func New[C Counter](interProcess bool) *Advanced[C] {
	s := &Advanced[C]{blocker: identity.None()}
	s.condValue = condvar.New(&s.mu, interProcess)
	s.condBlock = condvar.New(&s.mu, interProcess)
	return s
}

// SetValue sets the counter. Only permitted while disabled.
func (s *Advanced[C]) SetValue(value C) concur.ResultCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabled {
		return concur.IncorrectState
	}
	s.value = value
	return concur.Ok
}

// Value returns a snapshot of the counter.
func (s *Advanced[C]) Value() C {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Enable marks the semaphore enabled. Idempotent.
func (s *Advanced[C]) Enable() concur.ResultCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = true
	return concur.Ok
}

// Disable marks the semaphore disabled, clears any held blocker scope
// and wakes every waiter so each returns Disabled. Idempotent.
func (s *Advanced[C]) Disable() concur.ResultCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return concur.Ok
	}
	s.enabled = false
	s.blocker = identity.None()
	s.condBlock.Broadcast()
	s.condValue.Broadcast()
	return concur.Ok
}

func (s *Advanced[C]) blocked() bool { return !s.blocker.IsNone() }

func (s *Advanced[C]) blockedByThis(caller identity.Caller) bool {
	return s.blocker.Equal(caller)
}

func (s *Advanced[C]) blockedByOthers(caller identity.Caller) bool {
	return s.blocked() && !s.blockedByThis(caller)
}

func (s *Advanced[C]) wait(cond *condvar.Cond, to concur.Timeout) concur.ResultCode {
	if to.HasDeadline() {
		if !cond.WaitUntil(to.Deadline()) {
			return concur.UnavailableOrTimeout
		}
		return concur.Ok
	}
	cond.Wait()
	return concur.Ok
}

// waitBlockLocked waits, under s.mu, until no other caller holds
// blocker scope.
func (s *Advanced[C]) waitBlockLocked(caller identity.Caller, to concur.Timeout) concur.ResultCode {
	for s.blockedByOthers(caller) {
		if res := s.wait(s.condBlock, to); res != concur.Ok {
			return res
		}
		if !s.enabled {
			return concur.Disabled
		}
	}
	return concur.Ok
}

// waitValueLocked waits, under s.mu, until value >= count, returning
// Blocked if another caller takes blocker scope mid-wait.
func (s *Advanced[C]) waitValueLocked(caller identity.Caller, count C, to concur.Timeout) concur.ResultCode {
	if s.blockedByOthers(caller) {
		return concur.Blocked
	}
	for s.value < count {
		if res := s.wait(s.condValue, to); res != concur.Ok {
			return res
		}
		if !s.enabled {
			return concur.Disabled
		}
		if s.blockedByOthers(caller) {
			return concur.Blocked
		}
	}
	return concur.Ok
}

// Do performs the composite operation described by flags under a
// single critical section: PreBlock, Acquire/Reserve, the callback,
// Release, PostUnblock, in that order, any wait respecting to.
//
// Acquiring or reserving more than one permit (count > 1) requires
// either PreBlock in the same call or that caller already holding
// blocker scope; otherwise InvalidArguments, per spec's composite-
// count rule (an unguarded multi-permit acquire could starve
// arbitrarily against interleaved single-permit acquires).
func (s *Advanced[C]) Do(caller identity.Caller, flags Flag, count C, cb Callback, to concur.Timeout) concur.ResultCode {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return concur.Disabled
	}
	if flags.hasAcquireOrReserve() {
		if count == 0 {
			return concur.InvalidArguments
		}
		if count > 1 && !flags.has(PreBlock) && !s.blockedByThis(caller) {
			return concur.InvalidArguments
		}
	}
	if flags.has(Release) && count == 0 {
		return concur.InvalidArguments
	}

	if flags.has(PreBlock) || flags.hasAcquireOrReserve() {
		if res := s.waitBlockLocked(caller, to); res != concur.Ok {
			return res
		}
	}
	if flags.has(PreBlock) {
		if !s.blockedByThis(caller) {
			s.blocker = caller
			s.condValue.Broadcast()
		}
	}
	if flags.hasAcquireOrReserve() {
		res := s.waitValueLocked(caller, count, to)
		for res == concur.Blocked {
			if res = s.waitBlockLocked(caller, to); res != concur.Ok {
				return res
			}
			res = s.waitValueLocked(caller, count, to)
		}
		if res != concur.Ok {
			return res
		}
		if flags.has(Acquire) {
			s.value -= count
		}
	}
	if cb != nil {
		cb()
	}
	if flags.has(Release) {
		s.value += count
		s.condValue.Broadcast()
	}
	if flags.has(PostUnblock) {
		if s.blocked() {
			s.blocker = identity.None()
			s.condBlock.Broadcast()
		}
	}
	return concur.Ok
}

// TryDo performs the same steps as Do non-blockingly: any step that
// would wait instead returns Blocked (blocker held by another caller)
// or UnavailableOrTimeout (value below count) immediately. The
// composite-count rule enforced by Do is not enforced here: a try
// never blocks and never waits for multiple permits, so a count > 1
// proceeds whenever value >= count, whether or not caller holds
// blocker scope. Another caller holding the scope still yields
// Blocked.
func (s *Advanced[C]) TryDo(caller identity.Caller, flags Flag, count C, cb Callback) concur.ResultCode {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return concur.Disabled
	}
	if flags.hasAcquireOrReserve() && count == 0 {
		return concur.InvalidArguments
	}
	if flags.has(Release) && count == 0 {
		return concur.InvalidArguments
	}
	if flags.has(PreBlock) || flags.hasAcquireOrReserve() {
		if s.blockedByOthers(caller) {
			return concur.Blocked
		}
	}
	if flags.has(PreBlock) {
		if !s.blockedByThis(caller) {
			s.blocker = caller
			s.condValue.Broadcast()
		}
	}
	if flags.hasAcquireOrReserve() && s.value < count {
		return concur.UnavailableOrTimeout
	}
	if flags.has(Acquire) {
		s.value -= count
	}
	if cb != nil {
		cb()
	}
	if flags.has(Release) {
		s.value += count
		s.condValue.Broadcast()
	}
	if flags.has(PostUnblock) {
		if s.blocked() {
			s.blocker = identity.None()
			s.condBlock.Broadcast()
		}
	}
	return concur.Ok
}

// Acquire waits for one permit, decrements the counter, then runs cb.
func (s *Advanced[C]) Acquire(caller identity.Caller, cb Callback, to concur.Timeout) concur.ResultCode {
	return s.Do(caller, Acquire, 1, cb, to)
}

// TryAcquire is the non-blocking form of Acquire.
func (s *Advanced[C]) TryAcquire(caller identity.Caller, cb Callback) concur.ResultCode {
	return s.TryDo(caller, Acquire, 1, cb)
}

// Reserve waits for the counter to reach at least one, without
// decrementing it.
func (s *Advanced[C]) Reserve(caller identity.Caller, cb Callback, to concur.Timeout) concur.ResultCode {
	return s.Do(caller, Reserve, 1, cb, to)
}

// TryReserve is the non-blocking form of Reserve.
func (s *Advanced[C]) TryReserve(caller identity.Caller, cb Callback) concur.ResultCode {
	return s.TryDo(caller, Reserve, 1, cb)
}

// Release adds count to the counter and wakes waiters.
func (s *Advanced[C]) Release(caller identity.Caller, count C, cb Callback) concur.ResultCode {
	return s.Do(caller, Release, count, cb, concur.Forever())
}

// Block takes exclusive blocker scope for caller, waiting for any
// other holder to release it first.
func (s *Advanced[C]) Block(caller identity.Caller, cb Callback, to concur.Timeout) concur.ResultCode {
	return s.Do(caller, PreBlock, 0, cb, to)
}

// TryBlock is the non-blocking form of Block.
func (s *Advanced[C]) TryBlock(caller identity.Caller, cb Callback) concur.ResultCode {
	return s.TryDo(caller, PreBlock, 0, cb)
}

// Unblock releases blocker scope, if held by anyone, regardless of
// caller identity.
func (s *Advanced[C]) Unblock(caller identity.Caller, cb Callback) concur.ResultCode {
	return s.Do(caller, PostUnblock, 0, cb, concur.Forever())
}

// BlockAndAcquire atomically takes blocker scope and acquires count
// permits.
func (s *Advanced[C]) BlockAndAcquire(caller identity.Caller, count C, cb Callback, to concur.Timeout) concur.ResultCode {
	return s.Do(caller, PreBlock|Acquire, count, cb, to)
}

// BlockAndReserve atomically takes blocker scope and waits for the
// counter to reach count, without decrementing it.
func (s *Advanced[C]) BlockAndReserve(caller identity.Caller, count C, cb Callback, to concur.Timeout) concur.ResultCode {
	return s.Do(caller, PreBlock|Reserve, count, cb, to)
}

// ReserveAndUnblock waits for the counter to reach count, then
// releases blocker scope.
func (s *Advanced[C]) ReserveAndUnblock(caller identity.Caller, count C, cb Callback, to concur.Timeout) concur.ResultCode {
	return s.Do(caller, Reserve|PostUnblock, count, cb, to)
}
