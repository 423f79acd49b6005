// Copyright 2016 Aleksandr Demakin. All rights reserved.

package rendezvous

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nxgtw/go-concur"
)

func TestSyncQueuePushPopRoundTrip(t *testing.T) {
	a := assert.New(t)
	q := NewSyncQueue[int](false)
	require.Equal(t, concur.Ok, q.Enable())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.Equal(concur.Ok, q.Push(42, concur.Forever()))
	}()

	var out int
	require.Equal(t, concur.Ok, q.Pop(&out, concur.Forever()))
	a.Equal(42, out)
	wg.Wait()
}

func TestSyncQueueSecondPushWaitsForFirstPop(t *testing.T) {
	a := assert.New(t)
	q := NewSyncQueue[int](false)
	require.Equal(t, concur.Ok, q.Enable())

	// Push returns only once its item has been popped, so both pushes
	// run in their own goroutines.
	firstDone := make(chan concur.ResultCode, 1)
	go func() {
		firstDone <- q.Push(1, concur.Forever())
	}()
	time.Sleep(20 * time.Millisecond)

	secondDone := make(chan concur.ResultCode, 1)
	go func() {
		secondDone <- q.Push(2, concur.Forever())
	}()

	select {
	case <-secondDone:
		t.Fatal("second push should not complete before the first item is popped")
	case <-time.After(50 * time.Millisecond):
	}

	var out int
	require.Equal(t, concur.Ok, q.Pop(&out, concur.Forever()))
	a.Equal(1, out)

	select {
	case res := <-firstDone:
		a.Equal(concur.Ok, res)
	case <-time.After(2 * time.Second):
		t.Fatal("first push should complete once its item is popped")
	}

	require.Equal(t, concur.Ok, q.Pop(&out, concur.Forever()))
	a.Equal(2, out)

	select {
	case res := <-secondDone:
		a.Equal(concur.Ok, res)
	case <-time.After(2 * time.Second):
		t.Fatal("second push should complete once its item is popped")
	}
}

func TestSyncQueuePopTimeout(t *testing.T) {
	a := assert.New(t)
	q := NewSyncQueue[int](false)
	require.Equal(t, concur.Ok, q.Enable())

	res := q.Pop(new(int), concur.After(30*time.Millisecond))
	a.Equal(concur.UnavailableOrTimeout, res)
}
