// Copyright 2016 Aleksandr Demakin. All rights reserved.

package concur

import (
	"time"

	"github.com/nxgtw/go-concur/internal/clock"
)

// Timeout is either empty (wait forever) or an absolute deadline on
// the monotonic clock. Constructing one from a duration computes
// now+duration once, at construction time, exactly like constructing
// one from an absolute point stores that point verbatim.
type Timeout struct {
	deadline time.Time
	hasValue bool
}

// Forever returns the empty timeout: wait with no deadline.
func Forever() Timeout {
	return Timeout{}
}

// After returns a timeout whose deadline is now+d, fixed at the
// moment After is called.
func After(d time.Duration) Timeout {
	return Timeout{deadline: clock.Now().Add(d), hasValue: true}
}

// At returns a timeout with the given absolute deadline.
func At(deadline time.Time) Timeout {
	return Timeout{deadline: deadline, hasValue: true}
}

// HasDeadline reports whether t carries a deadline at all.
func (t Timeout) HasDeadline() bool {
	return t.hasValue
}

// Deadline returns the absolute deadline. Only meaningful when
// HasDeadline reports true.
func (t Timeout) Deadline() time.Time {
	return t.deadline
}

// Expired reports whether t carries a deadline that has already
// passed.
func (t Timeout) Expired() bool {
	return t.hasValue && !clock.Now().Before(t.deadline)
}
