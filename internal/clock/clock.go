// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package clock isolates the one call to the monotonic clock that
// Timeout needs, so tests can pin "now" instead of racing real time.
package clock

import "time"

// Now returns the current time. It is a package variable, not a
// plain function call, so tests can substitute a fixed or stepped
// clock around a deadline boundary.
var Now = time.Now
