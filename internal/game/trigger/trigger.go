// Package trigger is the synchronous event bus that passive skills and
// board listeners subscribe to.
package trigger

import (
	"fmt"

	"github.com/kikitora/spacejourney/internal/game/status"
	"github.com/kikitora/spacejourney/internal/game/unit"
)

// Timing is the coarse category of a dispatched event.
type Timing int

const (
	None   Timing = 0
	Action Timing = 1
	Time   Timing = 2
	Hp     Timing = 3
	Status Timing = 4
	Board  Timing = 5
)

var timingNames = map[Timing]string{
	None:   "none",
	Action: "action",
	Time:   "time",
	Hp:     "hp",
	Status: "status",
	Board:  "board",
}

func (t Timing) String() string {
	if n, ok := timingNames[t]; ok {
		return n
	}
	return fmt.Sprintf("timing(%d)", int(t))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Timing) UnmarshalText(b []byte) error {
	for k, n := range timingNames {
		if n == string(b) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown trigger timing %q", string(b))
}

// MarshalText implements encoding.TextMarshaler.
func (t Timing) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// ActionPhase refines Action events.
type ActionPhase int

const (
	PhaseOpportunity ActionPhase = iota
	PhaseSkillDeclared
)

// HPSource names what caused an Hp event.
type HPSource int

const (
	SourceUnknown HPSource = iota
	SourceHit
	SourceDot
	SourceReflect
	SourceEnv
	SourceSelfCost
)

// Context is the snapshot handed to every listener of one dispatch.
// Listeners must treat it as read-only.
type Context struct {
	Timing      Timing
	ActionPhase ActionPhase
	HPSource    HPSource
	HPDelta     int

	StatusType     status.Type
	StatusValue    int
	StatusDuration int

	Self  *unit.Unit
	Other *unit.Unit

	UsedSkillID string

	SelfHPRate  float64
	OtherHPRate float64
	SelfMoved   bool

	OtherHasAnyStatus bool
	OtherHasDebuff    bool

	EnemyCount int
	AllyCount  int

	UsedSkillIsBasic       bool
	UsedSkillTags          uint32
	UsedSkillIsBodySkill   bool
	UsedSkillIsWeaponSkill bool
}

// FillUnits sets Self and Other and derives the HP rates and status flags from them.
func (c *Context) FillUnits(self, other *unit.Unit) {
	c.Self = self
	c.Other = other
	if self != nil {
		c.SelfHPRate = self.HPRate()
	}
	if other != nil {
		c.OtherHPRate = other.HPRate()
		c.OtherHasAnyStatus = other.HasAnyStatus()
		c.OtherHasDebuff = other.HasDebuff()
	}
}
