package threadpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// marker returns a task that records id into *got when run.
func marker(got *[]int, id int) Task {
	return func() { *got = append(*got, id) }
}

func TestTaskQueue_FIFOAcrossGrowth(t *testing.T) {
	var q taskQueue
	var got []int

	// Interleave pushes and pops so the ring wraps before it grows.
	for i := 0; i < 10; i++ {
		q.pushBack(marker(&got, i))
	}
	for i := 0; i < 6; i++ {
		task, ok := q.popFront()
		require.True(t, ok)
		task()
	}
	for i := 10; i < 50; i++ {
		q.pushBack(marker(&got, i))
	}
	require.Equal(t, 44, q.len())

	for {
		task, ok := q.popFront()
		if !ok {
			break
		}
		task()
	}

	want := make([]int, 50)
	for i := range want {
		want[i] = i
	}
	require.Equal(t, want, got)
	require.Zero(t, q.len())
}

func TestTaskQueue_PopBackUndoesPush(t *testing.T) {
	var q taskQueue
	var got []int

	q.pushBack(marker(&got, 1))
	q.pushBack(marker(&got, 2))
	last, ok := q.popBack()
	require.True(t, ok)
	last()
	require.Equal(t, []int{2}, got)
	require.Equal(t, 1, q.len())

	first, ok := q.popFront()
	require.True(t, ok)
	first()
	require.Equal(t, []int{2, 1}, got)

	_, ok = q.popBack()
	require.False(t, ok)
	_, ok = q.popFront()
	require.False(t, ok)
}

func TestTaskQueue_ClearAndNilTasks(t *testing.T) {
	var q taskQueue
	q.pushBack(nil)
	q.pushBack(func() {})
	q.pushBack(nil)

	require.Equal(t, 3, q.clear())
	require.Zero(t, q.len())

	q.pushBack(nil)
	task, ok := q.popFront()
	require.True(t, ok)
	require.Nil(t, task)
}
