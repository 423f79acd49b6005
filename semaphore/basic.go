// Copyright 2016 Aleksandr Demakin. All rights reserved.

package semaphore

import (
	"sync"

	"github.com/nxgtw/go-concur"
	"github.com/nxgtw/go-concur/internal/condvar"
)

// Basic is a counting semaphore without blocker-scope machinery.
// Some simpler queue builds (package queue's Simple) compose from
// this instead of Advanced when fill/drain/resize are not needed.
type Basic[C Counter] struct {
	mu   sync.Mutex
	cond *condvar.Cond

	enabled bool
	value   C
}

// NewBasic returns a disabled Basic semaphore with counter type C.
func NewBasic[C Counter](interProcess bool) *Basic[C] {
	s := &Basic[C]{}
	s.cond = condvar.New(&s.mu, interProcess)
	return s
}

// SetValue sets the counter. Only permitted while disabled.
func (s *Basic[C]) SetValue(value C) concur.ResultCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabled {
		return concur.IncorrectState
	}
	s.value = value
	return concur.Ok
}

// Value returns a snapshot of the counter.
func (s *Basic[C]) Value() C {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Enable marks the semaphore enabled. Idempotent.
func (s *Basic[C]) Enable() concur.ResultCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = true
	return concur.Ok
}

// Disable marks the semaphore disabled and wakes every waiter so
// each returns Disabled. Idempotent.
func (s *Basic[C]) Disable() concur.ResultCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return concur.Ok
	}
	s.enabled = false
	s.cond.Broadcast()
	return concur.Ok
}

// Acquire waits for value >= 1, decrements it, then runs cb.
func (s *Basic[C]) Acquire(cb Callback, to concur.Timeout) concur.ResultCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return concur.Disabled
	}
	for s.value == 0 {
		if to.HasDeadline() {
			if !s.cond.WaitUntil(to.Deadline()) {
				return concur.UnavailableOrTimeout
			}
		} else {
			s.cond.Wait()
		}
		if !s.enabled {
			return concur.Disabled
		}
	}
	s.value--
	if cb != nil {
		cb()
	}
	return concur.Ok
}

// TryAcquire is the non-blocking form of Acquire.
func (s *Basic[C]) TryAcquire(cb Callback) concur.ResultCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return concur.Disabled
	}
	if s.value == 0 {
		return concur.UnavailableOrTimeout
	}
	s.value--
	if cb != nil {
		cb()
	}
	return concur.Ok
}

// Release runs cb, then increments the counter and wakes waiters.
func (s *Basic[C]) Release(cb Callback) concur.ResultCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return concur.Disabled
	}
	if cb != nil {
		cb()
	}
	s.value++
	s.cond.Broadcast()
	return concur.Ok
}
