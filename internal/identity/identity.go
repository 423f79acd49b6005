// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package identity provides the CallerIdentity token used by the
// blocker-scope mechanism in package semaphore.
//
// Go has no stable, exposed notion of "the current goroutine's id"
// comparable to a pthread_t, so identity here is explicit rather than
// inferred: a goroutine that wants to take part in a blocker scope
// allocates a Caller once (New) and passes it into every composite
// call that belongs to that logical scope. For inter-process use,
// Token wraps a caller-supplied value (e.g. a (pid, tid) pair encoded
// as a string) so identities stay unique across participating
// processes, per the process-shared construction contract.
package identity

// Caller is an opaque, comparable token identifying the logical
// owner of a blocker scope. The zero value is the "none" sentinel:
// no caller holds the scope.
type Caller struct {
	token any
}

// None returns the sentinel identity meaning "no caller".
func None() Caller {
	return Caller{}
}

// New allocates a fresh, unique identity. Each call returns an
// identity distinct from every other, including ones returned by
// earlier calls to New.
func New() Caller {
	return Caller{token: new(byte)}
}

// Token wraps a caller-supplied comparable value as an identity, for
// callers that need identities stable across calls (e.g. a
// (pid, tid) composite for inter-process use) rather than a fresh
// one per call.
func Token(v any) Caller {
	return Caller{token: v}
}

// IsNone reports whether c is the "none" sentinel.
func (c Caller) IsNone() bool {
	return c.token == nil
}

// Equal reports whether c and other identify the same caller.
func (c Caller) Equal(other Caller) bool {
	return c.token == other.token
}
