// SPDX-License-Identifier: GPL-3.0-or-later

package netpipe

import (
	"fmt"
	"reflect"
	"strings"
)

// Pipeline is the dynamic, mutable chain of [HandlerContext] nodes
// attached to a single [Channel]. Mutations (add and remove) run on the
// channel's owning [EventLoop]; calling them from another goroutine
// transparently submits the work to the loop and returns a [Future] that
// fulfils once it completes there. The Fire* and outbound entry points
// dispatch on the calling goroutine; they do not submit the dispatch to
// the loop.
type Pipeline struct {
	id        string
	channel   Channel
	transport Transport
	loop      EventLoop
	cfg       *Config
	allocator BufferAllocator

	head *HandlerContext
	tail *HandlerContext

	byName  map[string]*HandlerContext
	autoID  int
	lastErr error
}

// NewPipeline creates a pipeline wired to channel and transport, with the
// head and tail sentinels already linked. Pass nil for cfg to use
// [NewConfig]'s defaults.
func NewPipeline(channel Channel, transport Transport, cfg *Config) *Pipeline {
	if cfg == nil {
		cfg = NewConfig()
	}
	p := &Pipeline{
		id:        cfg.SpanIDGenerator(),
		channel:   channel,
		transport: transport,
		loop:      channel.EventLoop(),
		cfg:       cfg,
		allocator: DefaultBufferAllocator{},
		byName:    make(map[string]*HandlerContext),
	}
	head := &HandlerContext{pipeline: p, name: headContextName, state: stateAdded}
	tail := &HandlerContext{pipeline: p, name: tailContextName, state: stateAdded}
	head.handler = &headHandler{pipeline: p}
	tail.handler = &tailHandler{pipeline: p}
	head.next = tail
	tail.prev = head
	p.head = head
	p.tail = tail
	return p
}

// EventLoop returns the loop that owns this pipeline.
func (p *Pipeline) EventLoop() EventLoop { return p.loop }

// Channel returns the pipeline's channel.
func (p *Pipeline) Channel() Channel { return p.channel }

// Config returns the pipeline's configuration.
func (p *Pipeline) Config() *Config { return p.cfg }

// ID returns the span ID assigned to this pipeline at construction,
// logged as pipelineID on every mutation and lifecycle event it emits.
func (p *Pipeline) ID() string { return p.id }

// logSpan logs a Start/Done pair of Info events bracketing fn, in the
// same shape as the embedded transport's own Start/Done logging: a fresh
// span ID correlates the pair, and the Done event carries fn's error and
// its classification. handlerName is read at both Start and Done time,
// so fn may set *handlerName once it learns the resolved name.
func (p *Pipeline) logSpan(op string, handlerName *string, fn func() error) error {
	spanID := p.cfg.SpanIDGenerator()
	t0 := p.cfg.TimeNow()
	p.cfg.Logger.Info(op+"Start",
		"pipelineID", p.id,
		"spanID", spanID,
		"handlerName", *handlerName,
		"t0", t0,
	)
	err := fn()
	p.cfg.Logger.Info(op+"Done",
		"pipelineID", p.id,
		"spanID", spanID,
		"handlerName", *handlerName,
		"err", err,
		"errClass", p.cfg.ErrClassifier.Classify(err),
		"t0", t0,
		"t", p.cfg.TimeNow(),
	)
	return err
}

// ThrowIfErrorCaught returns the last error observed by the tail sentinel
// (i.e. an error that reached the end of the inbound chain unhandled), or
// nil if none has been recorded.
func (p *Pipeline) ThrowIfErrorCaught() error { return p.lastErr }

func (p *Pipeline) requireInLoop() {
	if !p.loop.InLoop() {
		programmerError("pipeline read accessed off its owning event loop")
	}
}

// ---- inbound injection (transport -> pipeline) -------------------------
//
// These are the entry points a [Transport] implementation (or the
// embedded driver) uses to inject inbound events; they are equivalent to
// "the head sentinel firing them" and so start their walk immediately
// after head.

// FireChannelRegistered marks the channel registered. There is no
// inbound-register capability, so this performs no handler dispatch; it
// exists purely as a lifecycle checkpoint transports can call.
func (p *Pipeline) FireChannelRegistered() {}

func (p *Pipeline) FireChannelActive() {
	name := ""
	_ = p.logSpan("channelActive", &name, func() error {
		p.head.FireChannelActive()
		return nil
	})
}

func (p *Pipeline) FireChannelInactive() {
	name := ""
	_ = p.logSpan("channelInactive", &name, func() error {
		p.head.FireChannelInactive()
		return nil
	})
}

func (p *Pipeline) FireChannelRead(msg any) { p.head.FireChannelRead(msg) }
func (p *Pipeline) FireChannelReadComplete() { p.head.FireChannelReadComplete() }
func (p *Pipeline) FireChannelWritabilityChanged() { p.head.FireChannelWritabilityChanged() }
func (p *Pipeline) FireUserEventTriggered(evt any)  { p.head.FireUserEventTriggered(evt) }
func (p *Pipeline) FireErrorCaught(err error)       { p.head.FireErrorCaught(err) }

// ---- outbound entry points (channel -> pipeline) -----------------------
//
// These are equivalent to "the tail sentinel initiating them", the entry
// point user code outside of any specific handler uses to talk to the
// channel, e.g. Pipeline.WriteAndFlush("msg") in scenario tests.

func (p *Pipeline) Write(msg any, promise *Promise[Unit]) *Future[Unit] {
	return p.tail.Write(msg, promise)
}
func (p *Pipeline) Flush() { p.tail.Flush() }
func (p *Pipeline) WriteAndFlush(msg any, promise *Promise[Unit]) *Future[Unit] {
	return p.tail.WriteAndFlush(msg, promise)
}
func (p *Pipeline) BindChannel(addr string, promise *Promise[Unit]) *Future[Unit] {
	return p.tail.Bind(addr, promise)
}
func (p *Pipeline) ConnectChannel(addr string, promise *Promise[Unit]) *Future[Unit] {
	return p.tail.Connect(addr, promise)
}
func (p *Pipeline) CloseChannel(promise *Promise[Unit]) *Future[Unit] {
	return p.tail.Close(promise)
}
func (p *Pipeline) ReadChannel() { p.tail.Read() }

// ---- mutation plumbing ---------------------------------------------------

// submitMutation runs fn on the owning loop (synchronously if already
// there, otherwise submitted) and returns a [Future] that fulfils with
// fn's result. The promise's own fulfilment is always routed back through
// the loop, even when fn ran synchronously, so a continuation registered
// by the caller never runs reentrantly within the caller's own stack
// frame -- a mutation submitted from off the loop still has its deferred
// fulfilled through the loop's normal dispatch.
func submitMutation[R any](p *Pipeline, fn func() (R, error)) *Future[R] {
	promise := NewPromise[R](p.loop)
	work := func() {
		result, err := fn()
		p.loop.Execute(func() {
			if err != nil {
				promise.Fail(err)
			} else {
				promise.Succeed(result)
			}
		})
	}
	if p.loop.InLoop() {
		work()
	} else {
		p.loop.Execute(work)
	}
	return promise.Future()
}

func newHandlerContext(p *Pipeline, name string, handler Handler) *HandlerContext {
	return &HandlerContext{pipeline: p, name: name, handler: handler, state: stateInit}
}

// sameHandlerInstance reports whether a and b are the same pointer.
// Non-pointer handlers (e.g. a value-receiver struct) are never
// considered duplicates, since Go gives no stable identity to compare
// them by. Neither are pointers to zero-size types: Go may give every
// such allocation the same address, so equal pointers do not mean the
// same instance.
func sameHandlerInstance(a, b any) bool {
	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)
	if av.Kind() != reflect.Pointer || bv.Kind() != reflect.Pointer {
		return false
	}
	if av.Type().Elem().Size() == 0 || bv.Type().Elem().Size() == 0 {
		return false
	}
	return av.Pointer() == bv.Pointer()
}

// ---- add ------------------------------------------------------------

// AddFirst inserts handler immediately after head, naming it name (or an
// automatically generated name if name is "").
func (p *Pipeline) AddFirst(handler Handler, name string) *Future[*HandlerContext] {
	return submitMutation(p, func() (*HandlerContext, error) {
		return p.insertBetween(handler, name, p.head, p.head.next)
	})
}

// AddLast inserts handler immediately before tail.
func (p *Pipeline) AddLast(handler Handler, name string) *Future[*HandlerContext] {
	return submitMutation(p, func() (*HandlerContext, error) {
		return p.insertBetween(handler, name, p.tail.prev, p.tail)
	})
}

// AddBefore inserts handler immediately before the context named refName.
func (p *Pipeline) AddBefore(refName string, handler Handler, name string) *Future[*HandlerContext] {
	return submitMutation(p, func() (*HandlerContext, error) {
		ref, err := p.contextByName(refName)
		if err != nil {
			return nil, err
		}
		return p.insertBetween(handler, name, ref.prev, ref)
	})
}

// AddAfter inserts handler immediately after the context named refName.
func (p *Pipeline) AddAfter(refName string, handler Handler, name string) *Future[*HandlerContext] {
	return submitMutation(p, func() (*HandlerContext, error) {
		ref, err := p.contextByName(refName)
		if err != nil {
			return nil, err
		}
		return p.insertBetween(handler, name, ref, ref.next)
	})
}

func (p *Pipeline) insertBetween(handler Handler, name string, prev, next *HandlerContext) (*HandlerContext, error) {
	var ctx *HandlerContext
	handlerName := name
	err := p.logSpan("handlerAdded", &handlerName, func() error {
		if p.channel.IsClosed() {
			return ErrIOOnClosedChannel
		}
		if err := p.checkDuplicateInstance(handler); err != nil {
			return err
		}
		resolved, err := p.resolveName(name, handler)
		if err != nil {
			return err
		}
		handlerName = resolved
		ctx = newHandlerContext(p, resolved, handler)
		ctx.prev = prev
		ctx.next = next
		prev.next = ctx
		next.prev = ctx
		p.byName[resolved] = ctx

		ctx.state = stateAdded
		if la, ok := handler.(LifecycleAdder); ok {
			la.HandlerAdded(ctx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ctx, nil
}

// AddMultipleFirst inserts handlers, in order, immediately after head,
// atomically: either all are inserted or none are.
func (p *Pipeline) AddMultipleFirst(handlers []Handler, names []string) *Future[[]*HandlerContext] {
	return submitMutation(p, func() ([]*HandlerContext, error) {
		return p.addMultiple(handlers, names, true)
	})
}

// AddMultipleLast inserts handlers, in order, immediately before tail,
// atomically.
func (p *Pipeline) AddMultipleLast(handlers []Handler, names []string) *Future[[]*HandlerContext] {
	return submitMutation(p, func() ([]*HandlerContext, error) {
		return p.addMultiple(handlers, names, false)
	})
}

func (p *Pipeline) addMultiple(handlers []Handler, names []string, atHead bool) ([]*HandlerContext, error) {
	var contexts []*HandlerContext
	handlerName := fmt.Sprintf("multiple(%d)", len(handlers))
	err := p.logSpan("addMultiple", &handlerName, func() error {
		if p.channel.IsClosed() {
			return ErrIOOnClosedChannel
		}
		if names == nil {
			names = make([]string, len(handlers))
		}
		resolved := make([]string, len(handlers))
		seen := make(map[string]bool, len(handlers))
		for i, h := range handlers {
			if err := p.checkDuplicateInstance(h); err != nil {
				return err
			}
			if sh, ok := h.(Shareable); !ok || !sh.IsShareable() {
				for _, earlier := range handlers[:i] {
					if sameHandlerInstance(earlier, h) {
						return ErrDuplicateInstance
					}
				}
			}
			n, err := p.resolveNameAgainst(names[i], h, seen)
			if err != nil {
				return err
			}
			resolved[i] = n
			seen[n] = true
		}
		handlerName = strings.Join(resolved, ",")

		var anchor, anchorNext *HandlerContext
		if atHead {
			anchor, anchorNext = p.head, p.head.next
		} else {
			anchor, anchorNext = p.tail.prev, p.tail
		}
		contexts = make([]*HandlerContext, len(handlers))
		cur := anchor
		for i, h := range handlers {
			ctx := newHandlerContext(p, resolved[i], h)
			ctx.prev = cur
			cur.next = ctx
			contexts[i] = ctx
			cur = ctx
		}
		cur.next = anchorNext
		anchorNext.prev = cur
		for i, ctx := range contexts {
			p.byName[resolved[i]] = ctx
		}
		for _, ctx := range contexts {
			ctx.state = stateAdded
			if la, ok := ctx.handler.(LifecycleAdder); ok {
				la.HandlerAdded(ctx)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contexts, nil
}

// ---- remove -----------------------------------------------------------

// RemoveHandler removes the first context wrapping this exact handler
// instance, as matched by [Pipeline.ContextByHandlerReference].
func (p *Pipeline) RemoveHandler(handler Handler) *Future[Unit] {
	return p.removeEntry(func() (*HandlerContext, error) {
		ctx, err := p.contextByHandlerReference(handler)
		if err != nil {
			return nil, err
		}
		return p.beginRemoval(ctx)
	})
}

// RemoveByName removes the context with the given name.
func (p *Pipeline) RemoveByName(name string) *Future[Unit] {
	return p.removeEntry(func() (*HandlerContext, error) {
		ctx, err := p.contextByName(name)
		if err != nil {
			return nil, err
		}
		return p.beginRemoval(ctx)
	})
}

// RemoveContext removes ctx directly.
func (p *Pipeline) RemoveContext(ctx *HandlerContext) *Future[Unit] {
	return p.removeEntry(func() (*HandlerContext, error) {
		return p.beginRemoval(ctx)
	})
}

func (p *Pipeline) removeEntry(fn func() (*HandlerContext, error)) *Future[Unit] {
	promise := NewPromise[Unit](p.loop)
	work := func() {
		if p.channel.IsClosed() {
			p.loop.Execute(func() { promise.Fail(ErrIOOnClosedChannel) })
			return
		}
		ctx, err := fn()
		if err != nil {
			p.loop.Execute(func() { promise.Fail(err) })
			return
		}
		if ctx.state == stateRemoved {
			// completed synchronously: no FormalRemover capability, or the
			// handshake was already in flight and just finished.
			p.loop.Execute(func() { promise.Succeed(Unit{}) })
			return
		}
		// Handshake pending: attach this future to the token so
		// finishRemoval fulfils it whenever LeavePipeline (or teardown)
		// eventually runs.
		ctx.removalToken.promise = promise
	}
	if p.loop.InLoop() {
		work()
	} else {
		p.loop.Execute(work)
	}
	return promise.Future()
}

func (p *Pipeline) beginRemoval(ctx *HandlerContext) (*HandlerContext, error) {
	if ctx == nil || ctx == p.head || ctx == p.tail || ctx.state == stateRemoved {
		return nil, ErrNotFound
	}
	if ctx.state == stateRemovalPending {
		return ctx, nil
	}
	removable, ok := ctx.handler.(Removable)
	if !ok || !removable.IsRemovable() {
		return nil, ErrUnremovableHandler
	}
	ctx.state = stateRemovalPending
	token := &RemovalToken{ctx: ctx}
	ctx.removalToken = token
	if fr, ok := ctx.handler.(FormalRemover); ok {
		fr.FormalRemove(ctx, token)
	} else {
		p.finishRemoval(ctx, token)
	}
	return ctx, nil
}

// finishRemoval unlinks ctx, fires handler_removed exactly once, and
// fulfils any attached removal promise. It is idempotent via token.inert
// so both a user's LeavePipeline call and a forced teardown can race to
// call it safely (they never actually run concurrently, since both occur
// on the loop, but either may arrive first).
func (p *Pipeline) finishRemoval(ctx *HandlerContext, token *RemovalToken) {
	if token.inert {
		return
	}
	token.inert = true

	handlerName := ctx.name
	_ = p.logSpan("handlerRemoved", &handlerName, func() error {
		ctx.prev.next = ctx.next
		ctx.next.prev = ctx.prev
		delete(p.byName, ctx.name)

		if lr, ok := ctx.handler.(LifecycleRemover); ok {
			lr.HandlerRemoved(ctx)
		}
		ctx.state = stateRemoved
		ctx.handler = nil
		return nil
	})

	if token.promise != nil {
		promise := token.promise
		p.loop.Execute(func() { promise.Succeed(Unit{}) })
	}
}

// Teardown forcibly removes every remaining non-sentinel context, firing
// handler_removed exactly once for each and fulfilling any pending
// removal deferred with success. Call this once, when the channel
// finishes.
func (p *Pipeline) Teardown() {
	p.requireInLoop()
	for ctx := p.head.next; ctx != p.tail; {
		next := ctx.next
		if ctx.state != stateRemoved {
			token := ctx.removalToken
			if token == nil {
				token = &RemovalToken{ctx: ctx}
				ctx.removalToken = token
			}
			p.finishRemoval(ctx, token)
		}
		ctx = next
	}
}

// ---- lookups ------------------------------------------------------------

// ContextByName returns the context named name, or [ErrNotFound]. Sentinel
// names are never found by this lookup.
func (p *Pipeline) ContextByName(name string) (*HandlerContext, error) {
	p.requireInLoop()
	return p.contextByName(name)
}

func (p *Pipeline) contextByName(name string) (*HandlerContext, error) {
	if name == headContextName || name == tailContextName {
		return nil, ErrNotFound
	}
	ctx, ok := p.byName[name]
	if !ok || ctx.state == stateRemoved {
		return nil, ErrNotFound
	}
	return ctx, nil
}

// ContextByHandlerReference returns the context wrapping this exact
// handler instance, or [ErrNotFound]. A handler whose type has zero size
// has no distinct address and is never found this way.
func (p *Pipeline) ContextByHandlerReference(handler Handler) (*HandlerContext, error) {
	p.requireInLoop()
	return p.contextByHandlerReference(handler)
}

func (p *Pipeline) contextByHandlerReference(handler Handler) (*HandlerContext, error) {
	for ctx := p.head.next; ctx != p.tail; ctx = ctx.next {
		if ctx.state == stateRemoved {
			continue
		}
		if sameHandlerInstance(ctx.handler, handler) {
			return ctx, nil
		}
	}
	return nil, ErrNotFound
}

// ContextByHandlerType returns the first context whose handler is of the
// given concrete type T, or [ErrNotFound]. It is a free function, not a
// method, because Go methods cannot introduce new type parameters.
func ContextByHandlerType[T any](p *Pipeline) (*HandlerContext, error) {
	p.requireInLoop()
	for ctx := p.head.next; ctx != p.tail; ctx = ctx.next {
		if ctx.state == stateRemoved {
			continue
		}
		if _, ok := ctx.handler.(T); ok {
			return ctx, nil
		}
	}
	return nil, ErrNotFound
}

// Names returns the pipeline's handler names in order, excluding the
// sentinels.
func (p *Pipeline) Names() []string {
	p.requireInLoop()
	var names []string
	for ctx := p.head.next; ctx != p.tail; ctx = ctx.next {
		if ctx.state == stateRemoved {
			continue
		}
		names = append(names, ctx.name)
	}
	return names
}

// String renders the pipeline as "head -> a -> b -> tail", for logging and
// debugging.
func (p *Pipeline) String() string {
	p.requireInLoop()
	var b strings.Builder
	b.WriteString(headContextName)
	for ctx := p.head.next; ctx != p.tail; ctx = ctx.next {
		if ctx.state == stateRemoved {
			continue
		}
		fmt.Fprintf(&b, " -> %s", ctx.name)
	}
	b.WriteString(" -> ")
	b.WriteString(tailContextName)
	return b.String()
}

// ---- naming --------------------------------------------------------------

func (p *Pipeline) nextAutoID() int {
	p.autoID++
	return p.autoID
}

func (p *Pipeline) resolveName(name string, handler Handler) (string, error) {
	return p.resolveNameAgainst(name, handler, nil)
}

func (p *Pipeline) resolveNameAgainst(name string, handler Handler, alsoTaken map[string]bool) (string, error) {
	if name == "" {
		for {
			candidate := fmt.Sprintf("%T#%d", handler, p.nextAutoID())
			if _, exists := p.byName[candidate]; exists {
				continue
			}
			if alsoTaken != nil && alsoTaken[candidate] {
				continue
			}
			return candidate, nil
		}
	}
	if name == headContextName || name == tailContextName {
		return "", ErrDuplicateName
	}
	if _, exists := p.byName[name]; exists {
		return "", ErrDuplicateName
	}
	if alsoTaken != nil && alsoTaken[name] {
		return "", ErrDuplicateName
	}
	return name, nil
}

func (p *Pipeline) checkDuplicateInstance(handler Handler) error {
	if sh, ok := handler.(Shareable); ok && sh.IsShareable() {
		return nil
	}
	for ctx := p.head.next; ctx != p.tail; ctx = ctx.next {
		if ctx.state == stateRemoved {
			continue
		}
		if sameHandlerInstance(ctx.handler, handler) {
			return ErrDuplicateInstance
		}
	}
	return nil
}
