// Copyright 2016 Aleksandr Demakin. All rights reserved.

package semaphore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nxgtw/go-concur"
)

func TestBasicSetValueRequiresDisabled(t *testing.T) {
	a := assert.New(t)
	s := NewBasic[uint32](false)
	a.Equal(concur.Ok, s.SetValue(2))
	a.Equal(concur.Ok, s.Enable())
	a.Equal(concur.IncorrectState, s.SetValue(3))
}

func TestBasicAcquireReleaseRoundTrip(t *testing.T) {
	a := assert.New(t)
	s := NewBasic[uint32](false)
	require.Equal(t, concur.Ok, s.SetValue(1))
	require.Equal(t, concur.Ok, s.Enable())

	a.Equal(concur.Ok, s.Acquire(nil, concur.Forever()))
	a.Equal(uint32(0), s.Value())
	a.Equal(concur.UnavailableOrTimeout, s.TryAcquire(nil))

	a.Equal(concur.Ok, s.Release(nil))
	a.Equal(uint32(1), s.Value())
}

func TestBasicAcquireTimeout(t *testing.T) {
	a := assert.New(t)
	s := NewBasic[uint32](false)
	require.Equal(t, concur.Ok, s.SetValue(0))
	require.Equal(t, concur.Ok, s.Enable())

	res := s.Acquire(nil, concur.After(30*time.Millisecond))
	a.Equal(concur.UnavailableOrTimeout, res)
}

func TestBasicDisableWakesWaiters(t *testing.T) {
	a := assert.New(t)
	s := NewBasic[uint32](false)
	require.Equal(t, concur.Ok, s.SetValue(0))
	require.Equal(t, concur.Ok, s.Enable())

	resultCh := make(chan concur.ResultCode, 1)
	go func() {
		resultCh <- s.Acquire(nil, concur.Forever())
	}()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, concur.Ok, s.Disable())

	select {
	case res := <-resultCh:
		a.Equal(concur.Disabled, res)
	case <-time.After(2 * time.Second):
		t.Fatal("disable should have woken the parked acquirer")
	}
}
