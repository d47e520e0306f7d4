// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/bassosimone/nop cancelwatch.go
//

package embedded

import "context"

// WatchContext arranges for c to finish when ctx is done (cancelled or
// its deadline expires), using [context.AfterFunc].
//
// The returned stop function unregisters the watcher; call it once c has
// finished through some other path to avoid leaking the watcher.
func WatchContext(ctx context.Context, c *Channel) (stop func() bool) {
	return context.AfterFunc(ctx, func() {
		_ = c.Finish()
	})
}
