// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package concur provides a family of synchronization primitives for
// coordinating producer/consumer pipelines across goroutines, and
// optionally across processes sharing a memory mapping. Currently it
// implements the following primitives:
//	semaphore.Basic, semaphore.Advanced
//	queue.Bounded, queue.Simple
//	rendezvous.SyncQueue
//	barrier.Barrier
// The package is deliberately primitive-level: it is not a task
// scheduler, not an async runtime, not an I/O engine. Its subpackages
// build on a single idea, an advanced counting semaphore that fuses
// counting, bounded acquisition and an exclusive "blocker scope" into
// one atomic state machine (see package semaphore), and the bounded
// queue, rendezvous queue and barrier composed from it.
//
// Every operation on a primitive reports outcome through ResultCode
// rather than a Go error (only the queue.NewRingBuffer constructor
// returns an error); see ResultCode's doc for the full set of codes.
package concur
