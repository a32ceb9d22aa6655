package stream_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whuchat/client/internal/stream"
)

func TestManual_StepsInOrder(t *testing.T) {
	sched := stream.NewManual()

	var got []int
	sched.After(time.Second, func() { got = append(got, 1) })
	sched.After(time.Second, func() { got = append(got, 2) })

	assert.Equal(t, 2, sched.Pending())
	assert.True(t, sched.Step())
	assert.Equal(t, []int{1}, got)
	assert.True(t, sched.Step())
	assert.Equal(t, []int{1, 2}, got)
	assert.False(t, sched.Step())
}

func TestManual_Cancel(t *testing.T) {
	sched := stream.NewManual()

	ran := false
	cancel := sched.After(time.Second, func() { ran = true })
	cancel()

	assert.False(t, sched.Step())
	assert.False(t, ran)
}

func TestManual_RunAllDrainsChainedCallbacks(t *testing.T) {
	sched := stream.NewManual()

	var got []int
	sched.After(time.Second, func() {
		got = append(got, 1)
		sched.After(time.Second, func() { got = append(got, 2) })
	})

	sched.RunAll()
	assert.Equal(t, []int{1, 2}, got)
}

func TestWallClock_FiresAndCancels(t *testing.T) {
	sched := stream.WallClock()

	fired := make(chan struct{})
	sched.After(time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(time.Second):
		require.Fail(t, "callback did not fire")
	}

	cancelled := make(chan struct{})
	cancel := sched.After(50*time.Millisecond, func() { close(cancelled) })
	cancel()
	select {
	case <-cancelled:
		require.Fail(t, "cancelled callback still fired")
	case <-time.After(100 * time.Millisecond):
	}
}
