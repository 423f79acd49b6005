// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build windows

package condvar

// configureShared mirrors platform_unix.go's hook for the Windows
// named-object attribute set (the teacher's sync/mutex_windows.go
// equivalent): a pure-Go channel-based Cond has no cross-process
// representation, so in this build the hook does nothing.
func configureShared(c *Cond) {
	_ = c
}
