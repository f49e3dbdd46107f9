package skill

import (
	"github.com/kikitora/spacejourney/internal/game/condition"
	"github.com/kikitora/spacejourney/internal/game/trigger"
	"github.com/kikitora/spacejourney/internal/game/unit"
)

// Reaction is called when a bound passive skill's conditions hold.
type Reaction func(def *Definition, ctx *trigger.Context)

// Passives binds one unit's passive skills to a trigger bus.
type Passives struct {
	bus  *trigger.Bus
	subs []trigger.Subscription
}

// BindPassives subscribes every passive in defs to the timings it lists.
// A handler fires react only for events whose Self is owner and whose
// passive conditions all hold. Non-passive definitions are skipped.
//
// Precondition: bus, owner and react must be non-nil.
func BindPassives(bus *trigger.Bus, ev condition.Evaluator, owner *unit.Unit, defs []*Definition, react Reaction) *Passives {
	p := &Passives{bus: bus}
	for _, def := range defs {
		if def == nil || def.Category != Passive {
			continue
		}
		for _, t := range def.PassiveTimings {
			p.subs = append(p.subs, bus.On(t, func(ctx *trigger.Context) {
				if ctx == nil || ctx.Self != owner {
					return
				}
				if ev.AllTrue(def.PassiveConditions, ctx) {
					react(def, ctx)
				}
			}))
		}
	}
	return p
}

// Len returns the number of active subscriptions.
func (p *Passives) Len() int { return len(p.subs) }

// Unbind removes every subscription made by BindPassives.
func (p *Passives) Unbind() {
	for _, s := range p.subs {
		p.bus.Off(s)
	}
	p.subs = nil
}
