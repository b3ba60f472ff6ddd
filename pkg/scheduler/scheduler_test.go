package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimersRunsTask(t *testing.T) {
	s := New()
	done := make(chan struct{})

	s.Schedule("k", time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
	require.Eventually(t, func() bool { return s.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestTimersReplaceAndCancel(t *testing.T) {
	s := New()
	var calls atomic.Int32

	s.Schedule("k", 20*time.Millisecond, func() { calls.Add(1) })
	s.Schedule("k", 20*time.Millisecond, func() { calls.Add(10) })
	require.Equal(t, 1, s.Pending())

	s.Schedule("other", 20*time.Millisecond, func() { calls.Add(100) })
	s.Cancel("other")

	require.Eventually(t, func() bool { return calls.Load() == 10 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	require.Equal(t, int32(10), calls.Load())
}

func TestTimersStop(t *testing.T) {
	s := New()
	var calls atomic.Int32

	s.Schedule("a", 20*time.Millisecond, func() { calls.Add(1) })
	s.Schedule("b", 20*time.Millisecond, func() { calls.Add(1) })
	s.Stop()
	require.Equal(t, 0, s.Pending())

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(0), calls.Load())
}

func TestManual(t *testing.T) {
	m := NewManual()
	fired := ""

	m.Schedule("b", time.Second, func() { fired = "b" })
	m.Schedule("a", 2*time.Second, func() { fired = "a" })
	require.Equal(t, []string{"a", "b"}, m.Keys())

	d, ok := m.Delay("a")
	require.True(t, ok)
	require.Equal(t, 2*time.Second, d)

	m.Cancel("a")
	require.False(t, m.Fire("a"))
	require.True(t, m.Fire("b"))
	require.Equal(t, "b", fired)
	require.Empty(t, m.Keys())
}
