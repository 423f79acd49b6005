// Copyright 2016 Aleksandr Demakin. All rights reserved.

package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nxgtw/go-concur"
)

func TestSimplePushPopOrdered(t *testing.T) {
	a := assert.New(t)
	storage, err := NewRingBuffer[int](3)
	require.NoError(t, err)
	q := NewSimple[int](storage, false)
	require.Equal(t, concur.Ok, q.Enable(3))

	for i := 0; i < 3; i++ {
		a.Equal(concur.Ok, q.Push(i, concur.Forever()))
	}
	a.Equal(concur.UnavailableOrTimeout, q.TryPush(9))

	for i := 0; i < 3; i++ {
		var out int
		a.Equal(concur.Ok, q.Pop(&out, concur.Forever()))
		a.Equal(i, out)
	}
}

func TestSimpleAcquireTimeout(t *testing.T) {
	a := assert.New(t)
	storage, err := NewRingBuffer[int](1)
	require.NoError(t, err)
	q := NewSimple[int](storage, false)
	require.Equal(t, concur.Ok, q.Enable(1))

	res := q.Pop(new(int), concur.After(30*time.Millisecond))
	a.Equal(concur.UnavailableOrTimeout, res)
}
