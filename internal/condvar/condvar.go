// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package condvar is the uniform Mutex/CondVar abstraction the
// toolkit's primitives are built on: one Cond type used the same way
// whether the enclosing primitive is intra-process only or declared
// inter-process-capable. A construction-time flag selects which
// platform attribute set configureShared applies; see
// platform_unix.go / platform_windows.go.
//
// Go's sync.Cond has no timed wait, so Cond is implemented with a
// channel that gets swapped out on every Broadcast, the same
// technique the teacher's futex- and event-backed condvars
// (sync/cond_futex.go, sync/cond_event.go) use one layer below the OS:
// a waiter parks on a channel recv instead of parking on a futex word,
// and a timer races it when a deadline is set.
package condvar

import (
	"sync"
	"time"
)

// Cond is a condition variable associated with a Locker, in the
// style of sync.Cond, but with a WaitUntil that respects a deadline.
type Cond struct {
	L sync.Locker

	mu sync.Mutex
	ch chan struct{}
}

// New returns a Cond associated with l. When interProcess is true,
// the enclosing primitive has declared itself shared across
// processes, and the platform-specific attribute hook is applied;
// see configureShared.
func New(l sync.Locker, interProcess bool) *Cond {
	c := &Cond{L: l, ch: make(chan struct{})}
	if interProcess {
		configureShared(c)
	}
	return c
}

func (c *Cond) notifyChan() chan struct{} {
	c.mu.Lock()
	ch := c.ch
	c.mu.Unlock()
	return ch
}

// Signal and Broadcast are equivalent here: every waiter is parked on
// the same channel, so both wake every current waiter. The toolkit's
// notification discipline (spec §4.1) never relies on waking exactly
// one waiter, so a single implementation covers both names.
func (c *Cond) Signal() {
	c.Broadcast()
}

// Broadcast wakes every goroutine currently parked in Wait/WaitUntil.
func (c *Cond) Broadcast() {
	c.mu.Lock()
	close(c.ch)
	c.ch = make(chan struct{})
	c.mu.Unlock()
}

// Wait atomically unlocks L and suspends until the next Broadcast,
// then re-locks L before returning, exactly like sync.Cond.Wait.
func (c *Cond) Wait() {
	ch := c.notifyChan()
	c.L.Unlock()
	<-ch
	c.L.Lock()
}

// WaitUntil is Wait with a deadline. It returns false if the deadline
// elapsed before the next Broadcast, true otherwise. L is re-locked
// before returning either way.
func (c *Cond) WaitUntil(deadline time.Time) bool {
	ch := c.notifyChan()
	c.L.Unlock()
	defer c.L.Lock()

	d := time.Until(deadline)
	if d <= 0 {
		select {
		case <-ch:
			return true
		default:
			return false
		}
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ch:
		return true
	case <-timer.C:
		return false
	}
}
