// SPDX-License-Identifier: GPL-3.0-or-later

package embedded

import (
	"sync"
	"time"
)

// Loop is a deterministic, single-goroutine [netpipe.EventLoop]. Rather
// than dispatching on a background goroutine, it queues tasks and only
// runs them when told to via [*Loop.Run] or [*Loop.RunOne], which makes
// pipeline behavior driven by [*Channel] fully reproducible in tests: no
// event fires until the test says so.
type Loop struct {
	mu    sync.Mutex
	tasks []func()
	depth int
}

// NewLoop creates an idle [*Loop] with an empty task queue.
func NewLoop() *Loop {
	return &Loop{}
}

// InLoop reports whether a Run or RunOne dispatch of some task is
// currently in progress. It does not record which goroutine is running
// that dispatch, so it reports true to every goroutine while one is.
func (l *Loop) InLoop() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.depth > 0
}

// Execute enqueues task for the next Run/RunOne.
func (l *Loop) Execute(task func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()
}

// Schedule enqueues task for the next Run/RunOne. The embedded loop has no
// wall clock, so delay is informational only: tests that care about
// relative ordering call Run between simulated ticks rather than relying
// on real elapsed time.
func (l *Loop) Schedule(delay time.Duration, task func()) (cancel func() bool) {
	var mu sync.Mutex
	var cancelled bool
	l.Execute(func() {
		mu.Lock()
		c := cancelled
		mu.Unlock()
		if !c {
			task()
		}
	})
	return func() bool {
		mu.Lock()
		defer mu.Unlock()
		if cancelled {
			return false
		}
		cancelled = true
		return true
	}
}

// Run drains the task queue, including any tasks enqueued by the tasks it
// runs, until empty.
func (l *Loop) Run() {
	l.mu.Lock()
	l.depth++
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		l.depth--
		l.mu.Unlock()
	}()
	for {
		l.mu.Lock()
		if len(l.tasks) == 0 {
			l.mu.Unlock()
			return
		}
		task := l.tasks[0]
		l.tasks = l.tasks[1:]
		l.mu.Unlock()
		task()
	}
}

// RunOne executes exactly one queued task and reports whether there was
// one, useful for observing pipeline state between dispatch steps.
func (l *Loop) RunOne() bool {
	l.mu.Lock()
	if len(l.tasks) == 0 {
		l.mu.Unlock()
		return false
	}
	task := l.tasks[0]
	l.tasks = l.tasks[1:]
	l.depth++
	l.mu.Unlock()

	task()

	l.mu.Lock()
	l.depth--
	l.mu.Unlock()
	return true
}

// Pending reports the number of tasks currently queued.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}
