// SPDX-License-Identifier: GPL-3.0-or-later

package embedded

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportBindSetsLocalAddress(t *testing.T) {
	c := NewChannel(nil)
	c.Activate()

	f := c.transport.Bind("127.0.0.1:8080")
	c.Loop().Run()
	require.NoError(t, f.Wait().Err)
	assert.Equal(t, "127.0.0.1:8080", c.transport.LocalAddress())
	assert.True(t, c.IsActive())
}

func TestTransportConnectSetsRemoteAddress(t *testing.T) {
	c := NewChannel(nil)
	c.Activate()

	f := c.transport.Connect("example.test:443")
	c.Loop().Run()
	require.NoError(t, f.Wait().Err)
	assert.Equal(t, "example.test:443", c.transport.RemoteAddress())
}

func TestTransportDefaultAddresses(t *testing.T) {
	c := NewChannel(nil)
	assert.Equal(t, "embedded:local", c.transport.LocalAddress())
	assert.Equal(t, "embedded:remote", c.transport.RemoteAddress())
}

func TestTransportWriteQueuesForOutboundRead(t *testing.T) {
	c := NewChannel(nil)
	c.Activate()

	f := c.transport.Write("payload")
	c.Loop().Run()
	require.NoError(t, f.Wait().Err)

	msg, ok := c.transport.readOutbound()
	require.True(t, ok)
	assert.Equal(t, "payload", msg)
}
