package board

import (
	"fmt"
	"maps"
	"slices"
)

// FailReason explains why TryMoveActor refused a move. Values are stable.
type FailReason int

const (
	FailNone FailReason = iota
	ActorNotFound
	OutOfBoard
	InvalidCell
	TerrainBlocked
	BlockerPresent
	ActorAlreadyThere
)

func (r FailReason) String() string {
	switch r {
	case FailNone:
		return "none"
	case ActorNotFound:
		return "actor_not_found"
	case OutOfBoard:
		return "out_of_board"
	case InvalidCell:
		return "invalid_cell"
	case TerrainBlocked:
		return "terrain_blocked"
	case BlockerPresent:
		return "blocker_present"
	case ActorAlreadyThere:
		return "actor_already_there"
	default:
		return fmt.Sprintf("fail(%d)", int(r))
	}
}

// MoveResult reports the outcome of one movement step.
type MoveResult struct {
	Moved      bool
	From       Point
	To         Point
	FailReason FailReason
	// Collided is set only when FailReason is BlockerPresent.
	Collided Occupant
}

// Board is a fixed-size grid of cells plus an actor position index.
// It is not safe for concurrent use.
type Board struct {
	width    int
	height   int
	cells    []Cell
	actors   map[string]Point
	listener Listener
}

// Option configures a Board.
type Option func(*Board)

// WithListener installs l to receive movement notifications.
func WithListener(l Listener) Option {
	return func(b *Board) { b.listener = l }
}

// New creates a width x height board of valid, open cells.
//
// Postcondition: returns an error when either dimension is not positive.
func New(width, height int, opts ...Option) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid board size: %dx%d", width, height)
	}
	b := &Board{
		width:    width,
		height:   height,
		cells:    make([]Cell, width*height),
		actors:   make(map[string]Point),
		listener: NopListener{},
	}
	for i := range b.cells {
		b.cells[i].Valid = true
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// NewNormal creates the standard 9x9 board whose border cells are terrain-blocked.
func NewNormal(opts ...Option) *Board {
	b, _ := New(9, 9, opts...)
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			border := x == 0 || y == 0 || x == b.width-1 || y == b.height-1
			c := b.cell(x, y)
			c.Valid = true
			c.TerrainBlocked = border
		}
	}
	return b
}

// SetListener replaces the movement listener; nil installs a no-op.
func (b *Board) SetListener(l Listener) {
	if l == nil {
		l = NopListener{}
	}
	b.listener = l
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// Inside reports whether (x, y) lies on the board.
func (b *Board) Inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

func (b *Board) cell(x, y int) *Cell {
	if !b.Inside(x, y) {
		return nil
	}
	return &b.cells[y*b.width+x]
}

// Cell returns a copy of the cell at (x, y).
func (b *Board) Cell(x, y int) (Cell, bool) {
	c := b.cell(x, y)
	if c == nil {
		return Cell{}, false
	}
	return *c, true
}

// SetInvalidCell removes the cell at (x, y) from play, clearing every slot.
func (b *Board) SetInvalidCell(x, y int) {
	c := b.cell(x, y)
	if c == nil {
		return
	}
	if c.Actor.Present() {
		delete(b.actors, c.Actor.ID)
	}
	c.Reset(false, true)
}

// SetValidCell restores the cell at (x, y) with the given terrain flag. Slots are kept.
func (b *Board) SetValidCell(x, y int, terrainBlocked bool) {
	c := b.cell(x, y)
	if c == nil {
		return
	}
	c.Valid = true
	c.TerrainBlocked = terrainBlocked
}

// TryPlaceActor puts an actor on an enterable cell with no actor.
func (b *Board) TryPlaceActor(id string, kind CubeKind, x, y int) bool {
	if id == "" {
		return false
	}
	if _, ok := b.actors[id]; ok {
		return false
	}
	c := b.cell(x, y)
	if c == nil || !c.CanEnterTerrain() || c.Actor.Present() || c.Blocker.Present() {
		return false
	}
	c.Actor = Occupant{ID: id, Kind: kind}
	b.actors[id] = Point{x, y}
	return true
}

// TryPlaceBlocker puts a blocker on an open cell holding no actor or blocker.
func (b *Board) TryPlaceBlocker(id string, kind CubeKind, x, y int) bool {
	if id == "" {
		return false
	}
	c := b.cell(x, y)
	if c == nil || !c.Valid || c.TerrainBlocked || c.Blocker.Present() || c.Actor.Present() {
		return false
	}
	c.Blocker = Occupant{ID: id, Kind: kind}
	return true
}

// TryPlaceFloor puts a floor occupant on an open cell without one.
func (b *Board) TryPlaceFloor(id string, kind CubeKind, x, y int) bool {
	if id == "" {
		return false
	}
	c := b.cell(x, y)
	if c == nil || !c.Valid || c.TerrainBlocked || c.Floor.Present() {
		return false
	}
	c.Floor = Occupant{ID: id, Kind: kind}
	return true
}

// RemoveActor clears an actor's slot and index entry.
func (b *Board) RemoveActor(id string) bool {
	p, ok := b.actors[id]
	if !ok {
		return false
	}
	delete(b.actors, id)
	if c := b.cell(p.X, p.Y); c != nil && c.Actor.ID == id {
		c.Actor = Occupant{}
	}
	return true
}

// ClearBlocker empties the blocker slot at (x, y).
func (b *Board) ClearBlocker(x, y int) {
	if c := b.cell(x, y); c != nil {
		c.Blocker = Occupant{}
	}
}

// ClearFloor empties the floor slot at (x, y).
func (b *Board) ClearFloor(x, y int) {
	if c := b.cell(x, y); c != nil {
		c.Floor = Occupant{}
	}
}

// ActorPos returns the indexed position of actor id.
func (b *Board) ActorPos(id string) (Point, bool) {
	p, ok := b.actors[id]
	return p, ok
}

// Actors returns the IDs of every placed actor in sorted order.
func (b *Board) Actors() []string {
	return slices.Sorted(maps.Keys(b.actors))
}

// TryMoveActor moves actor id one step in dir.
//
// Postcondition: on failure no cell or index entry changes. Checks run in
// order: ActorNotFound, OutOfBoard, InvalidCell, TerrainBlocked,
// ActorAlreadyThere, BlockerPresent. A blocker collision notifies the
// listener's OnBlocked before returning.
func (b *Board) TryMoveActor(id string, dir Dir) MoveResult {
	from, ok := b.actors[id]
	if id == "" || !ok {
		return MoveResult{FailReason: ActorNotFound}
	}
	to := from.Add(dir.Delta())
	fail := func(r FailReason) MoveResult {
		return MoveResult{From: from, To: to, FailReason: r}
	}

	dst := b.cell(to.X, to.Y)
	switch {
	case dst == nil:
		return fail(OutOfBoard)
	case !dst.Valid:
		return fail(InvalidCell)
	case dst.TerrainBlocked:
		return fail(TerrainBlocked)
	case dst.Actor.Present():
		return fail(ActorAlreadyThere)
	case dst.Blocker.Present():
		b.listener.OnBlocked(id, from, to, dst.Blocker)
		res := fail(BlockerPresent)
		res.Collided = dst.Blocker
		return res
	}

	src := b.cell(from.X, from.Y)
	if src == nil || src.Actor.ID != id {
		return fail(ActorNotFound)
	}

	dst.Actor = src.Actor
	src.Actor = Occupant{}
	b.actors[id] = to

	if dst.Floor.Present() {
		b.listener.OnEnterFloor(id, to, dst.Floor)
	}
	b.listener.OnAfterMove(id, from, to)
	return MoveResult{Moved: true, From: from, To: to}
}
