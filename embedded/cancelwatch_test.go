// SPDX-License-Identifier: GPL-3.0-or-later

package embedded

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchContextFinishesOnCancel(t *testing.T) {
	c := NewChannel(nil)
	c.Activate()

	ctx, cancel := context.WithCancel(context.Background())
	stop := WatchContext(ctx, c)
	defer stop()

	assert.False(t, c.IsClosed())
	cancel()

	require.Eventually(t, c.IsClosed, time.Second, time.Millisecond)
}

func TestWatchContextAlreadyCancelled(t *testing.T) {
	c := NewChannel(nil)
	c.Activate()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stop := WatchContext(ctx, c)
	defer stop()

	require.Eventually(t, c.IsClosed, time.Second, time.Millisecond)
}

func TestWatchContextStopUnregistersWatcher(t *testing.T) {
	c := NewChannel(nil)
	c.Activate()

	ctx, cancel := context.WithCancel(context.Background())
	stop := WatchContext(ctx, c)

	stopped := stop()
	assert.True(t, stopped)

	cancel()
	time.Sleep(10 * time.Millisecond)
	assert.False(t, c.IsClosed())
}
