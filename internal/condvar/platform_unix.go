// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build !windows

package condvar

// configureShared is the attribute-set hook for the inter-process
// variant (spec component 3). The actual cross-process mutex/condvar
// backing a shared-memory queue is, per the toolkit's scope, an
// external collaborator: the caller is responsible for allocating the
// primitive in a shared mapping and constructing it there exactly
// once (see the process-shared construction contract). configureShared
// is the seam a real backing (built on golang.org/x/sys/unix's
// PTHREAD_PROCESS_SHARED-equivalent mmap/mutex syscalls, as the
// teacher's pthread-backed primitives in sync/mutex_unix.go do) would
// plug into; the pure-Go channel-based Cond used by default has no
// cross-process representation of its own, so in this build the hook
// does nothing.
func configureShared(c *Cond) {
	_ = c
}
