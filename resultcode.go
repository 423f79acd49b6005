// Copyright 2016 Aleksandr Demakin. All rights reserved.

package concur

// ResultCode is the closed set of outcomes every operation in this
// module can return. There are no panics and no error values on the
// control-flow path; ResultCode is the sole failure channel of every
// operation on a primitive. The one Go error in the module is
// queue.NewRingBuffer's construction-time capacity check.
type ResultCode int

const (
	// Ok means the operation completed all of its effects.
	Ok ResultCode = iota
	// InvalidArguments means an argument violated a documented
	// precondition (zero count, zero capacity, a multi-permit
	// acquire without blocker scope). Not retriable by waiting.
	InvalidArguments
	// IncorrectState means a lifecycle precondition was violated,
	// e.g. SetValue while enabled, or Await past a barrier's party cap.
	IncorrectState
	// UnavailableOrTimeout means a wait expired, or a Try* call
	// found the resource unavailable.
	UnavailableOrTimeout
	// Disabled means the primitive was, or became, disabled during
	// the operation.
	Disabled
	// Blocked is only ever observed inside an AdvancedSemaphore's
	// composite-operation loop; it escapes to a caller only from a
	// Try* variant that found another caller holding blocker scope.
	Blocked
)

func (r ResultCode) String() string {
	switch r {
	case Ok:
		return "ok"
	case InvalidArguments:
		return "invalid arguments"
	case IncorrectState:
		return "incorrect state"
	case UnavailableOrTimeout:
		return "unavailable or timeout"
	case Disabled:
		return "disabled"
	case Blocked:
		return "blocked"
	default:
		return "unknown result code"
	}
}

// Error lets ResultCode double as an error where that is convenient
// for callers; Ok.Error() returns an empty string so that
// `if err := code; err != nil` style checks still require comparing
// against Ok explicitly rather than treating Ok as a non-nil error.
func (r ResultCode) Error() string {
	if r == Ok {
		return ""
	}
	return r.String()
}

// IsOk reports whether r is the success code.
func (r ResultCode) IsOk() bool {
	return r == Ok
}
