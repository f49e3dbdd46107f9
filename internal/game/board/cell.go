// Package board models the field grid: cells with independent floor,
// blocker and actor slots, and one-step actor movement.
package board

import (
	"fmt"
	"strings"
)

// CubeKind classifies what occupies a slot.
type CubeKind int

const (
	Player CubeKind = iota
	EnemyNormal
	EnemyElite
	EnemyBoss
	GateKeeper
	Treasure
	Heal
	Event
	City
	RareBoss
)

var cubeKindNames = []string{
	"player", "enemy_normal", "enemy_elite", "enemy_boss", "gate_keeper",
	"treasure", "heal", "event", "city", "rare_boss",
}

func (k CubeKind) String() string {
	if k >= 0 && int(k) < len(cubeKindNames) {
		return cubeKindNames[k]
	}
	return fmt.Sprintf("cube(%d)", int(k))
}

// ParseCubeKind converts a snake_case label into a CubeKind.
func ParseCubeKind(s string) (CubeKind, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for i, n := range cubeKindNames {
		if n == want {
			return CubeKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown cube kind %q", s)
}

// Dir is a 4-connected step direction. North is +Y.
type Dir int

const (
	North Dir = iota
	East
	South
	West
)

func (d Dir) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return fmt.Sprintf("dir(%d)", int(d))
	}
}

// Delta returns the unit step for d; unknown directions return the zero point.
func (d Dir) Delta() Point {
	switch d {
	case North:
		return Point{0, 1}
	case East:
		return Point{1, 0}
	case South:
		return Point{0, -1}
	case West:
		return Point{-1, 0}
	default:
		return Point{}
	}
}

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Occupant fills one slot of a cell. An empty ID means the slot is free.
type Occupant struct {
	ID   string
	Kind CubeKind
}

// Present reports whether the slot is filled.
func (o Occupant) Present() bool { return o.ID != "" }

// Cell is one board square.
type Cell struct {
	Valid          bool
	TerrainBlocked bool
	Floor          Occupant
	Blocker        Occupant
	Actor          Occupant
}

// CanEnterTerrain reports whether the cell exists and is not innately impassable.
func (c *Cell) CanEnterTerrain() bool {
	return c.Valid && !c.TerrainBlocked
}

// IsEnterable reports whether an actor could step in, ignoring other actors.
// Floors never block.
func (c *Cell) IsEnterable() bool {
	return c.CanEnterTerrain() && !c.Blocker.Present()
}

// Reset sets the terrain flags and clears every slot.
func (c *Cell) Reset(valid, blocked bool) {
	*c = Cell{Valid: valid, TerrainBlocked: blocked}
}
