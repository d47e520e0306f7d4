// SPDX-License-Identifier: GPL-3.0-or-later

package nethttp

import "github.com/rbmk-project/netpipe"

// Stable handler names, so [UpgradeHandler] can look the codec handlers
// up by name later to splice them out.
const (
	NameRequestDecoder       = "nethttp.requestDecoder"
	NameResponseEncoder      = "nethttp.responseEncoder"
	NamePipeliningAssistance = "nethttp.pipeliningAssistance"
	NameErrorHandler         = "nethttp.errorHandler"
	NameUpgradeHandler       = "nethttp.upgradeHandler"
)

// Options configures [InstallPipeline].
type Options struct {
	// EnablePipelining installs [PipeliningAssistance].
	EnablePipelining bool

	// EnableErrorHandler installs [ErrorHandler].
	EnableErrorHandler bool

	// Upgrade, if non-nil, is installed as the [UpgradeHandler].
	Upgrade *UpgradeHandler
}

// InstallPipeline adds the HTTP codec and any optional handlers named by
// opts immediately after head, atomically, ahead of whatever application
// handlers the caller adds afterward with AddLast.
func InstallPipeline(p *netpipe.Pipeline, opts Options) *netpipe.Future[[]*netpipe.HandlerContext] {
	handlers := []netpipe.Handler{&RequestDecoder{}, &ResponseEncoder{}}
	names := []string{NameRequestDecoder, NameResponseEncoder}

	if opts.EnablePipelining {
		handlers = append(handlers, &PipeliningAssistance{})
		names = append(names, NamePipeliningAssistance)
	}
	if opts.EnableErrorHandler {
		handlers = append(handlers, &ErrorHandler{})
		names = append(names, NameErrorHandler)
	}
	if opts.Upgrade != nil {
		handlers = append(handlers, opts.Upgrade)
		names = append(names, NameUpgradeHandler)
	}
	return p.AddMultipleFirst(handlers, names)
}
