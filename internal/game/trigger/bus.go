package trigger

import "go.uber.org/zap"

// Handler observes a dispatched event.
type Handler func(ctx *Context)

// StatusHandler observes a Status event and may veto it by returning false.
type StatusHandler func(ctx *Context) bool

// Subscription identifies a registered handler for Off.
type Subscription struct {
	timing Timing
	id     uint64
}

type entry struct {
	id      uint64
	handler Handler
	status  StatusHandler
}

// Bus is a synchronous multicast dispatcher keyed by Timing.
// It is not safe for concurrent use, and handlers must not call On or Off
// while a dispatch is running.
type Bus struct {
	logger    *zap.Logger
	next      uint64
	listeners map[Timing][]entry
}

// NewBus creates an empty Bus.
//
// Precondition: logger must be non-nil.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{logger: logger, listeners: make(map[Timing][]entry)}
}

func (b *Bus) add(t Timing, e entry) Subscription {
	b.next++
	e.id = b.next
	b.listeners[t] = append(b.listeners[t], e)
	return Subscription{timing: t, id: e.id}
}

// On registers h for every event of timing t. Status handlers registered
// through On always agree.
func (b *Bus) On(t Timing, h Handler) Subscription {
	return b.add(t, entry{handler: h})
}

// OnStatus registers a vetoing Status handler.
func (b *Bus) OnStatus(h StatusHandler) Subscription {
	return b.add(Status, entry{status: h})
}

// Off removes the handler behind s. Unknown subscriptions are ignored.
func (b *Bus) Off(s Subscription) {
	list := b.listeners[s.timing]
	for i, e := range list {
		if e.id == s.id {
			b.listeners[s.timing] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Len returns the number of handlers registered for t.
func (b *Bus) Len(t Timing) int {
	return len(b.listeners[t])
}

// Dispatch delivers ctx to every handler of timing t in registration order.
//
// Postcondition: non-Status timings return true. Status runs every handler
// without short-circuit and returns true only if none vetoed.
func (b *Bus) Dispatch(t Timing, ctx *Context) bool {
	if ctx != nil {
		ctx.Timing = t
	}
	ok := true
	for _, e := range b.listeners[t] {
		switch {
		case e.status != nil:
			if !e.status(ctx) {
				ok = false
			}
		case e.handler != nil:
			e.handler(ctx)
		}
	}
	b.logger.Debug("trigger dispatch",
		zap.Stringer("timing", t),
		zap.Int("listeners", len(b.listeners[t])),
		zap.Bool("result", ok),
	)
	return ok
}
