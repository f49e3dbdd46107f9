package status

import "github.com/kikitora/spacejourney/internal/game/stat"

// Effect is one applied status effect.
// It is active while ExpireTime > battle time.
type Effect struct {
	Type         Type
	ValuePercent int
	ExpireTime   int
}

// Tracker holds the ordered effects currently applied to one unit.
// It is not safe for concurrent use; the caller must serialise access.
type Tracker struct {
	effects []Effect
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

func (tr *Tracker) index(t Type) int {
	for i := range tr.effects {
		if tr.effects[i].Type == t {
			return i
		}
	}
	return -1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Apply adds or merges an effect of type t.
//
// Precondition: none; invalid input is ignored.
// Postcondition: a no-op when duration <= 0 or t is None. Otherwise exactly
// one instance of t exists; on re-apply ExpireTime is max(old, now+duration)
// and the value is max for buffs, min for debuffs and the new value otherwise.
// Buff values are stored positive and debuff values negative.
func (tr *Tracker) Apply(t Type, value, duration, now int) {
	if duration <= 0 || t == None {
		return
	}
	now = max(0, now)
	switch {
	case t.IsBuff():
		value = abs(value)
	case t.IsDebuff():
		value = -abs(value)
	}
	expire := now + duration

	if i := tr.index(t); i >= 0 {
		e := &tr.effects[i]
		e.ExpireTime = max(e.ExpireTime, expire)
		switch {
		case t.IsBuff():
			e.ValuePercent = max(e.ValuePercent, value)
		case t.IsDebuff():
			e.ValuePercent = min(e.ValuePercent, value)
		default:
			e.ValuePercent = value
		}
		return
	}
	tr.effects = append(tr.effects, Effect{Type: t, ValuePercent: value, ExpireTime: expire})
}

// PurgeExpired removes every effect with ExpireTime <= battleTime.
//
// Postcondition: the returned slice holds the removed effects in order.
func (tr *Tracker) PurgeExpired(battleTime int) []Effect {
	var removed []Effect
	kept := tr.effects[:0]
	for _, e := range tr.effects {
		if e.ExpireTime <= battleTime {
			removed = append(removed, e)
			continue
		}
		kept = append(kept, e)
	}
	clear(tr.effects[len(kept):])
	tr.effects = kept
	return removed
}

// SumModifier returns the summed percentage modifier affecting k.
// BuffDf and DebuffDf feed both DF and MDF.
func (tr *Tracker) SumModifier(k stat.Kind) int {
	var buff, debuff Type
	switch k {
	case stat.AT:
		buff, debuff = BuffAt, DebuffAt
	case stat.AGI:
		buff, debuff = BuffAgi, DebuffAgi
	case stat.DF, stat.MDF:
		buff, debuff = BuffDf, DebuffDf
	default:
		return 0
	}
	sum := 0
	for _, e := range tr.effects {
		if e.Type == buff || e.Type == debuff {
			sum += e.ValuePercent
		}
	}
	return sum
}

// IsActionDisabled reports whether a Stun or Freeze is present.
func (tr *Tracker) IsActionDisabled() bool {
	for _, e := range tr.effects {
		if e.Type.DisablesAction() {
			return true
		}
	}
	return false
}

// Has reports whether an effect of type t is present.
func (tr *Tracker) Has(t Type) bool {
	return tr.index(t) >= 0
}

// Get returns the effect of type t, if present.
func (tr *Tracker) Get(t Type) (Effect, bool) {
	if i := tr.index(t); i >= 0 {
		return tr.effects[i], true
	}
	return Effect{}, false
}

// HasAny reports whether any effect is present.
func (tr *Tracker) HasAny() bool {
	return len(tr.effects) > 0
}

// HasDebuff reports whether a stat debuff is present.
func (tr *Tracker) HasDebuff() bool {
	for _, e := range tr.effects {
		if e.Type.IsDebuff() {
			return true
		}
	}
	return false
}

// Len returns the number of effects present.
func (tr *Tracker) Len() int {
	return len(tr.effects)
}

// All returns a copy of the effects in application order.
func (tr *Tracker) All() []Effect {
	out := make([]Effect, len(tr.effects))
	copy(out, tr.effects)
	return out
}

// Restore replaces the tracked effects with effects, keeping the first
// instance of each type and dropping None.
func (tr *Tracker) Restore(effects []Effect) {
	tr.effects = tr.effects[:0]
	for _, e := range effects {
		if e.Type == None || tr.Has(e.Type) {
			continue
		}
		tr.effects = append(tr.effects, e)
	}
}
