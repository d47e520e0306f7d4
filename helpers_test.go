// SPDX-License-Identifier: GPL-3.0-or-later

package netpipe

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bassosimone/slogstub"
)

// newCapturingLogger returns a logger that captures all log records into
// the returned slice, so a test can inspect exactly which structured
// events a mutation or dispatch emitted.
func newCapturingLogger() (*slog.Logger, *[]slog.Record) {
	var records []slog.Record
	handler := &slogstub.FuncHandler{
		EnabledFunc: func(ctx context.Context, level slog.Level) bool {
			return true
		},
		HandleFunc: func(ctx context.Context, record slog.Record) error {
			records = append(records, record)
			return nil
		},
	}
	return slog.New(handler), &records
}

// newTestConfig returns a [*Config] with test-friendly defaults: no real
// logging and predictable span IDs. TimeNow keeps its [NewConfig] default.
func newTestConfig() *Config {
	cfg := NewConfig()
	n := 0
	cfg.SpanIDGenerator = func() string {
		n++
		return "span-" + string(rune('a'+n-1))
	}
	return cfg
}

// newCapturingTestConfig is [newTestConfig] with its Logger replaced by
// [newCapturingLogger], so a test can assert on the exact structured log
// records a mutation or dispatch emits.
func newCapturingTestConfig() (*Config, *[]slog.Record) {
	cfg := newTestConfig()
	logger, records := newCapturingLogger()
	cfg.Logger = logger
	return cfg, records
}

// fakeLoop is a minimal, single-goroutine [EventLoop] for unit tests that
// need an owning loop but live in this package (and so cannot import
// netpipe/embedded, which itself imports netpipe).
type fakeLoop struct {
	mu    sync.Mutex
	tasks []func()
	depth int
}

func newTestLoop() *fakeLoop { return &fakeLoop{} }

func (l *fakeLoop) InLoop() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.depth > 0
}

func (l *fakeLoop) Execute(task func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()
}

func (l *fakeLoop) Schedule(delay time.Duration, task func()) (cancel func() bool) {
	l.Execute(task)
	return func() bool { return false }
}

func (l *fakeLoop) Run() {
	for {
		l.mu.Lock()
		if len(l.tasks) == 0 {
			l.mu.Unlock()
			return
		}
		task := l.tasks[0]
		l.tasks = l.tasks[1:]
		l.depth++
		l.mu.Unlock()
		task()
		l.mu.Lock()
		l.depth--
		l.mu.Unlock()
	}
}

func (l *fakeLoop) markInLoop(fn func()) {
	l.mu.Lock()
	l.depth++
	l.mu.Unlock()
	fn()
	l.mu.Lock()
	l.depth--
	l.mu.Unlock()
}
