// Package combat drives tick-based encounters between two sides of units.
package combat

import (
	"fmt"

	"github.com/kikitora/spacejourney/internal/game/skill"
	"github.com/kikitora/spacejourney/internal/game/unit"
)

// FirstStrikeLeadTicks is the head start the first-strike side receives.
const FirstStrikeLeadTicks = 3

// WaitCost is the base cost charged when a ready combatant has nothing to use.
const WaitCost = 2

// Side distinguishes the two teams of an encounter.
type Side int

const (
	SidePlayer Side = iota
	SideEnemy
)

// String returns a human-readable side label.
func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideEnemy:
		return "enemy"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SidePlayer {
		return SideEnemy
	}
	return SidePlayer
}

// Combatant is one participant of a Battle.
type Combatant struct {
	Unit   *unit.Unit
	Side   Side
	Skills []*skill.Definition
	// NextActionAt is the battle tick at which the combatant may act again.
	NextActionAt int
}

// ID returns the unit ID.
func (c *Combatant) ID() string { return c.Unit.ID() }

// Alive reports whether the combatant's unit can still act or be targeted.
func (c *Combatant) Alive() bool { return c.Unit != nil && c.Unit.IsAlive() }

// EventKind classifies a battle log entry.
type EventKind int

const (
	EventSkill EventKind = iota
	EventWait
	EventDefeat
	EventPassive
)

func (k EventKind) String() string {
	switch k {
	case EventSkill:
		return "skill"
	case EventWait:
		return "wait"
	case EventDefeat:
		return "defeat"
	case EventPassive:
		return "passive"
	default:
		return "unknown"
	}
}

// Event records one thing that happened during a battle.
type Event struct {
	Tick      int
	Kind      EventKind
	ActorID   string
	TargetID  string
	SkillID   string
	HPDelta   int
	Narrative string
}
