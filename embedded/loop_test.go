// SPDX-License-Identifier: GPL-3.0-or-later

package embedded

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoopExecuteRunsQueuedTasks(t *testing.T) {
	l := NewLoop()
	var order []int
	l.Execute(func() { order = append(order, 1) })
	l.Execute(func() { order = append(order, 2) })

	assert.False(t, l.InLoop())
	assert.Equal(t, 2, l.Pending())
	l.Run()
	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, 0, l.Pending())
}

func TestLoopRunDrainsTasksEnqueuedDuringRun(t *testing.T) {
	l := NewLoop()
	var order []int
	l.Execute(func() {
		order = append(order, 1)
		l.Execute(func() { order = append(order, 2) })
	})
	l.Run()
	assert.Equal(t, []int{1, 2}, order)
}

func TestLoopInLoopOnlyTrueDuringDispatch(t *testing.T) {
	l := NewLoop()
	var sawInLoop bool
	l.Execute(func() { sawInLoop = l.InLoop() })
	l.Run()
	assert.True(t, sawInLoop)
	assert.False(t, l.InLoop())
}

func TestLoopRunOneExecutesExactlyOneTask(t *testing.T) {
	l := NewLoop()
	var order []int
	l.Execute(func() { order = append(order, 1) })
	l.Execute(func() { order = append(order, 2) })

	assert.True(t, l.RunOne())
	assert.Equal(t, []int{1}, order)
	assert.True(t, l.RunOne())
	assert.Equal(t, []int{1, 2}, order)
	assert.False(t, l.RunOne())
}

func TestLoopScheduleCancel(t *testing.T) {
	l := NewLoop()
	var fired bool
	cancel := l.Schedule(time.Second, func() { fired = true })
	assert.True(t, cancel())
	l.Run()
	assert.False(t, fired)
	assert.False(t, cancel(), "cancelling twice reports no-op")
}

func TestLoopScheduleFiresWhenNotCancelled(t *testing.T) {
	l := NewLoop()
	var fired bool
	l.Schedule(time.Millisecond, func() { fired = true })
	l.Run()
	assert.True(t, fired)
}
