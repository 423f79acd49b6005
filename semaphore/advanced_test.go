// Copyright 2016 Aleksandr Demakin. All rights reserved.

package semaphore

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nxgtw/go-concur"
	"github.com/nxgtw/go-concur/internal/identity"
)

func newEnabledAdvanced(t *testing.T, value uint32) *Advanced[uint32] {
	t.Helper()
	s := New[uint32](false)
	require.Equal(t, concur.Ok, s.SetValue(value))
	require.Equal(t, concur.Ok, s.Enable())
	return s
}

func TestAdvancedDisabledByDefault(t *testing.T) {
	a := assert.New(t)
	s := New[uint32](false)
	caller := identity.New()
	a.Equal(concur.Disabled, s.Acquire(caller, nil, concur.Forever()))
	a.Equal(concur.Disabled, s.TryAcquire(caller, nil))
}

func TestAdvancedSetValueRequiresDisabled(t *testing.T) {
	a := assert.New(t)
	s := New[uint32](false)
	a.Equal(concur.Ok, s.SetValue(3))
	a.Equal(concur.Ok, s.Enable())
	a.Equal(concur.IncorrectState, s.SetValue(4))
}

func TestAdvancedAcquireRelease(t *testing.T) {
	a := assert.New(t)
	s := newEnabledAdvanced(t, 1)
	caller := identity.New()

	a.Equal(concur.Ok, s.Acquire(caller, nil, concur.Forever()))
	a.Equal(uint32(0), s.Value())
	a.Equal(concur.UnavailableOrTimeout, s.TryAcquire(caller, nil))

	a.Equal(concur.Ok, s.Release(caller, 1, nil))
	a.Equal(uint32(1), s.Value())
}

func TestAdvancedMultiPermitRequiresBlockerScope(t *testing.T) {
	a := assert.New(t)
	s := newEnabledAdvanced(t, 5)
	caller := identity.New()

	a.Equal(concur.InvalidArguments, s.Do(caller, Acquire, 2, nil, concur.Forever()))
	a.Equal(concur.Ok, s.BlockAndAcquire(caller, 2, nil, concur.Forever()))
	a.Equal(uint32(3), s.Value())
}

func TestAdvancedBlockerScopeExcludesOtherCallers(t *testing.T) {
	a := assert.New(t)
	s := newEnabledAdvanced(t, 1)
	owner := identity.New()
	other := identity.New()

	require.Equal(t, concur.Ok, s.Block(owner, nil, concur.Forever()))
	a.Equal(concur.Blocked, s.TryAcquire(other, nil))

	done := make(chan concur.ResultCode, 1)
	go func() {
		done <- s.Acquire(other, nil, concur.After(50*time.Millisecond))
	}()
	select {
	case res := <-done:
		a.Equal(concur.UnavailableOrTimeout, res)
	case <-time.After(2 * time.Second):
		t.Fatal("other caller should have timed out, not been left parked")
	}

	a.Equal(concur.Ok, s.Unblock(owner, nil))
	a.Equal(concur.Ok, s.Acquire(other, nil, concur.Forever()))
}

func TestAdvancedBlockedWaiterObservesNewBlockerThenRetries(t *testing.T) {
	a := assert.New(t)
	s := newEnabledAdvanced(t, 0)
	first := identity.New()
	second := identity.New()

	resultCh := make(chan concur.ResultCode, 1)
	go func() {
		resultCh <- s.Acquire(first, nil, concur.After(500*time.Millisecond))
	}()
	time.Sleep(20 * time.Millisecond)

	require.Equal(t, concur.Ok, s.Block(second, nil, concur.Forever()))
	require.Equal(t, concur.Ok, s.Release(second, 1, nil))
	require.Equal(t, concur.Ok, s.Unblock(second, nil))

	select {
	case res := <-resultCh:
		a.Equal(concur.Ok, res)
	case <-time.After(2 * time.Second):
		t.Fatal("acquire should have completed once blocker cleared and value arrived")
	}
}

func TestAdvancedDisableWakesParkedWaiters(t *testing.T) {
	a := assert.New(t)
	s := newEnabledAdvanced(t, 0)
	caller := identity.New()

	resultCh := make(chan concur.ResultCode, 1)
	go func() {
		resultCh <- s.Acquire(caller, nil, concur.Forever())
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

func TestAdvancedTimeoutLeavesStateUnchanged(t *testing.T) {
	a := assert.New(t)
	s := newEnabledAdvanced(t, 0)
	caller := identity.New()

	res := s.Acquire(caller, nil, concur.After(30*time.Millisecond))
	a.Equal(concur.UnavailableOrTimeout, res)
	a.Equal(uint32(0), s.Value())
}

func TestAdvancedCounterInvariantUnderConcurrency(t *testing.T) {
	a := assert.New(t)
	s := newEnabledAdvanced(t, 0)

	const n = 200
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			caller := identity.New()
			a.Equal(concur.Ok, s.Release(caller, 1, nil))
		}()
	}
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			caller := identity.New()
			a.Equal(concur.Ok, s.Acquire(caller, nil, concur.After(5*time.Second)))
		}()
	}
	wg.Wait()
	a.Equal(uint32(0), s.Value())
}
