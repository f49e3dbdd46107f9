package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/kikitora/spacejourney/internal/game/board"
	"github.com/kikitora/spacejourney/internal/game/condition"
	"github.com/kikitora/spacejourney/internal/game/skill"
	"github.com/kikitora/spacejourney/internal/game/trigger"
	"github.com/kikitora/spacejourney/internal/game/unit"
)

type recorder struct {
	calls []string
}

func (r *recorder) OnBlocked(id string, _, _ board.Point, o board.Occupant) {
	r.calls = append(r.calls, "blocked:"+id+":"+o.ID)
}

func (r *recorder) OnEnterFloor(id string, _ board.Point, o board.Occupant) {
	r.calls = append(r.calls, "floor:"+id+":"+o.ID)
}

func (r *recorder) OnAfterMove(id string, from, to board.Point) {
	r.calls = append(r.calls, "move:"+id+":"+from.String()+"->"+to.String())
}

func TestNew_RejectsBadSize(t *testing.T) {
	_, err := board.New(0, 5)
	assert.Error(t, err)
	_, err = board.New(3, -1)
	assert.Error(t, err)
}

func TestNewNormal_BorderWalls(t *testing.T) {
	b := board.NewNormal()
	assert.Equal(t, 9, b.Width())
	assert.Equal(t, 9, b.Height())
	open := 0
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			c, ok := b.Cell(x, y)
			require.True(t, ok)
			if c.CanEnterTerrain() {
				open++
			}
		}
	}
	assert.Equal(t, 49, open)
	c, _ := b.Cell(0, 4)
	assert.True(t, c.TerrainBlocked)
	_, ok := b.Cell(9, 0)
	assert.False(t, ok)
}

func TestTryMoveActor_BlockedByBlocker(t *testing.T) {
	rec := &recorder{}
	b := board.NewNormal(board.WithListener(rec))
	require.True(t, b.TryPlaceActor("hero", board.Player, 4, 4))
	require.True(t, b.TryPlaceBlocker("chest", board.Treasure, 5, 4))

	res := b.TryMoveActor("hero", board.East)
	assert.False(t, res.Moved)
	assert.Equal(t, board.BlockerPresent, res.FailReason)
	assert.Equal(t, board.Occupant{ID: "chest", Kind: board.Treasure}, res.Collided)
	pos, ok := b.ActorPos("hero")
	require.True(t, ok)
	assert.Equal(t, board.Point{X: 4, Y: 4}, pos)
	c, _ := b.Cell(5, 4)
	assert.False(t, c.Actor.Present())
	assert.Equal(t, []string{"blocked:hero:chest"}, rec.calls)
}

func TestTryMoveActor_MovesExactlyOneCellPair(t *testing.T) {
	rec := &recorder{}
	b := board.NewNormal(board.WithListener(rec))
	require.True(t, b.TryPlaceActor("hero", board.Player, 4, 4))
	before := b.Snapshot()

	res := b.TryMoveActor("hero", board.North)
	require.True(t, res.Moved)
	assert.Equal(t, board.FailNone, res.FailReason)
	assert.Equal(t, board.Point{X: 4, Y: 4}, res.From)
	assert.Equal(t, board.Point{X: 4, Y: 5}, res.To)

	from, _ := b.Cell(4, 4)
	to, _ := b.Cell(4, 5)
	assert.False(t, from.Actor.Present())
	assert.Equal(t, board.Occupant{ID: "hero", Kind: board.Player}, to.Actor)
	pos, _ := b.ActorPos("hero")
	assert.Equal(t, board.Point{X: 4, Y: 5}, pos)

	after := b.Snapshot()
	changed := 0
	for i := range before.Cells {
		if before.Cells[i] != after.Cells[i] {
			changed++
		}
	}
	assert.Equal(t, 2, changed)
	assert.Equal(t, []string{"move:hero:(4,4)->(4,5)"}, rec.calls)
}

func TestTryMoveActor_FloorNotifies(t *testing.T) {
	rec := &recorder{}
	b := board.NewNormal(board.WithListener(rec))
	require.True(t, b.TryPlaceActor("hero", board.Player, 4, 4))
	require.True(t, b.TryPlaceFloor("spring", board.Heal, 3, 4))

	res := b.TryMoveActor("hero", board.West)
	require.True(t, res.Moved)
	assert.Equal(t, []string{"floor:hero:spring", "move:hero:(4,4)->(3,4)"}, rec.calls)
}

func TestTryMoveActor_FailReasons(t *testing.T) {
	b, err := board.New(4, 4)
	require.NoError(t, err)
	require.True(t, b.TryPlaceActor("a", board.Player, 0, 0))
	require.True(t, b.TryPlaceActor("b", board.EnemyNormal, 1, 1))
	b.SetValidCell(2, 1, true)
	b.SetInvalidCell(1, 2)

	assert.Equal(t, board.ActorNotFound, b.TryMoveActor("ghost", board.North).FailReason)
	assert.Equal(t, board.ActorNotFound, b.TryMoveActor("", board.North).FailReason)
	assert.Equal(t, board.OutOfBoard, b.TryMoveActor("a", board.South).FailReason)
	assert.Equal(t, board.OutOfBoard, b.TryMoveActor("a", board.West).FailReason)
	assert.Equal(t, board.InvalidCell, b.TryMoveActor("b", board.North).FailReason)
	assert.Equal(t, board.TerrainBlocked, b.TryMoveActor("b", board.East).FailReason)

	require.True(t, b.TryPlaceActor("c", board.Player, 1, 0))
	assert.Equal(t, board.ActorAlreadyThere, b.TryMoveActor("c", board.North).FailReason)
}

func TestTryMoveActor_OccupiedFloorCell(t *testing.T) {
	b, _ := board.New(3, 1)
	require.True(t, b.TryPlaceActor("a", board.Player, 0, 0))
	require.True(t, b.TryPlaceFloor("f", board.Event, 1, 0))
	require.True(t, b.TryPlaceActor("b", board.Player, 1, 0))
	assert.False(t, b.TryPlaceBlocker("x", board.City, 1, 0))
	assert.Equal(t, board.ActorAlreadyThere, b.TryMoveActor("a", board.East).FailReason)
}

func TestPlacementRules(t *testing.T) {
	b := board.NewNormal()
	assert.False(t, b.TryPlaceActor("", board.Player, 2, 2))
	assert.False(t, b.TryPlaceActor("w", board.Player, 0, 0))
	assert.False(t, b.TryPlaceActor("o", board.Player, 20, 20))

	require.True(t, b.TryPlaceBlocker("rock", board.Event, 2, 2))
	assert.False(t, b.TryPlaceBlocker("rock2", board.Event, 2, 2))
	assert.False(t, b.TryPlaceActor("hero", board.Player, 2, 2))
	assert.True(t, b.TryPlaceFloor("trap", board.Event, 2, 2))
	assert.False(t, b.TryPlaceFloor("trap2", board.Event, 2, 2))

	require.True(t, b.TryPlaceActor("hero", board.Player, 3, 3))
	assert.False(t, b.TryPlaceActor("hero", board.Player, 4, 4))
	assert.False(t, b.TryPlaceBlocker("box", board.Treasure, 3, 3))
	assert.True(t, b.TryPlaceFloor("rune", board.Event, 3, 3))
	assert.False(t, b.TryPlaceFloor("edge", board.Event, 0, 3))

	c, _ := b.Cell(2, 2)
	assert.False(t, c.IsEnterable())
}

func TestSetInvalidCell_ClearsSlotsAndIndex(t *testing.T) {
	b := board.NewNormal()
	require.True(t, b.TryPlaceActor("hero", board.Player, 3, 3))
	require.True(t, b.TryPlaceFloor("rune", board.Event, 3, 3))
	b.SetInvalidCell(3, 3)

	c, _ := b.Cell(3, 3)
	assert.Equal(t, board.Cell{Valid: false, TerrainBlocked: true}, c)
	_, ok := b.ActorPos("hero")
	assert.False(t, ok)
	assert.Empty(t, b.Actors())
}

func TestRemoveActor(t *testing.T) {
	b := board.NewNormal()
	require.True(t, b.TryPlaceActor("hero", board.Player, 3, 3))
	assert.True(t, b.RemoveActor("hero"))
	assert.False(t, b.RemoveActor("hero"))
	assert.True(t, b.TryPlaceActor("hero", board.Player, 3, 3))
}

func TestSnapshotRoundTrip(t *testing.T) {
	b := board.NewNormal()
	require.True(t, b.TryPlaceActor("hero", board.Player, 3, 3))
	require.True(t, b.TryPlaceActor("slime", board.EnemyNormal, 5, 5))
	require.True(t, b.TryPlaceBlocker("gate", board.GateKeeper, 4, 4))
	require.True(t, b.TryPlaceFloor("rune", board.Event, 2, 2))
	b.SetInvalidCell(6, 6)

	restored, err := board.FromSnapshot(b.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, b.Snapshot(), restored.Snapshot())
	assert.Equal(t, []string{"hero", "slime"}, restored.Actors())
	pos, _ := restored.ActorPos("slime")
	assert.Equal(t, board.Point{X: 5, Y: 5}, pos)
}

func TestFromSnapshot_Errors(t *testing.T) {
	_, err := board.FromSnapshot(board.Snapshot{Width: 0, Height: 1})
	assert.Error(t, err)
	_, err = board.FromSnapshot(board.Snapshot{Width: 2, Height: 2, Cells: []board.CellState{{X: 3, Y: 0}}})
	assert.Error(t, err)
	dup := board.Cell{Valid: true, Actor: board.Occupant{ID: "a"}}
	_, err = board.FromSnapshot(board.Snapshot{Width: 2, Height: 1, Cells: []board.CellState{
		{X: 0, Y: 0, Cell: dup}, {X: 1, Y: 0, Cell: dup},
	}})
	assert.Error(t, err)
}

func TestBusListener(t *testing.T) {
	bus := trigger.NewBus(zap.NewNop())
	var dispatched []bool
	bus.On(trigger.Board, func(ctx *trigger.Context) { dispatched = append(dispatched, ctx.SelfMoved) })
	var events []board.Notification
	l := board.NewBusListener(bus, zap.NewNop(), nil, func(e board.Notification) { events = append(events, e) })

	b := board.NewNormal(board.WithListener(l))
	require.True(t, b.TryPlaceActor("hero", board.Player, 4, 4))
	require.True(t, b.TryPlaceBlocker("boss", board.EnemyBoss, 4, 5))
	require.True(t, b.TryPlaceFloor("heal", board.Heal, 5, 4))

	b.TryMoveActor("hero", board.North)
	b.TryMoveActor("hero", board.East)

	require.Len(t, events, 3)
	assert.Equal(t, board.EventBlocked, events[0].Kind)
	assert.Equal(t, "boss", events[0].Occupant.ID)
	assert.Equal(t, board.EventEnterFloor, events[1].Kind)
	assert.Equal(t, board.EventAfterMove, events[2].Kind)
	assert.Equal(t, []bool{false, true, true}, dispatched)
}

func TestBusListener_BoardPassiveFiresForMovedActor(t *testing.T) {
	bus := trigger.NewBus(zap.NewNop())
	hero := unit.New("hero", "Hero", nil, &unit.Body{ID: "hero", MaxHP: 100})
	other := unit.New("scout", "Scout", nil, &unit.Body{ID: "scout", MaxHP: 100})
	units := map[string]*unit.Unit{"hero": hero, "scout": other}
	resolve := func(id string) *unit.Unit { return units[id] }

	stride := skill.NewDefinition("stride")
	stride.Category = skill.Passive
	stride.PassiveTimings = []trigger.Timing{trigger.Board}
	stride.PassiveConditions = []condition.Condition{{Kind: condition.SelfMoved}}

	var fired []string
	skill.BindPassives(bus, condition.NewEvaluator(nil), hero, []*skill.Definition{stride},
		func(def *skill.Definition, ctx *trigger.Context) {
			fired = append(fired, def.ID+":"+ctx.Self.ID())
		})

	b := board.NewNormal(board.WithListener(board.NewBusListener(bus, zap.NewNop(), resolve, nil)))
	require.True(t, b.TryPlaceActor("hero", board.Player, 4, 4))
	require.True(t, b.TryPlaceActor("scout", board.Player, 2, 2))
	require.True(t, b.TryPlaceBlocker("boss", board.EnemyBoss, 4, 5))

	b.TryMoveActor("hero", board.North)
	assert.Empty(t, fired, "a blocked move is not a move")
	b.TryMoveActor("scout", board.East)
	assert.Empty(t, fired, "another actor's move")
	b.TryMoveActor("hero", board.East)
	assert.Equal(t, []string{"stride:hero"}, fired)
}

func TestMoves_KeepIndexConsistent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := board.NewNormal()
		ids := []string{"a", "b", "c"}
		for i, id := range ids {
			b.TryPlaceActor(id, board.Player, 2+i, 2+i)
		}
		b.TryPlaceBlocker("wall", board.Event, 4, 2)
		steps := rapid.IntRange(1, 60).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			id := rapid.SampledFrom(ids).Draw(rt, "id")
			dir := board.Dir(rapid.IntRange(0, 3).Draw(rt, "dir"))
			b.TryMoveActor(id, dir)
		}
		for _, id := range ids {
			p, ok := b.ActorPos(id)
			if !ok {
				rt.Fatalf("%s lost", id)
			}
			c, _ := b.Cell(p.X, p.Y)
			if c.Actor.ID != id {
				rt.Fatalf("index says %s at %v but cell holds %q", id, p, c.Actor.ID)
			}
			if c.Blocker.Present() || !c.CanEnterTerrain() {
				rt.Fatalf("%s stands on an unenterable cell %v", id, p)
			}
		}
	})
}

func TestParseCubeKind(t *testing.T) {
	k, err := board.ParseCubeKind("Gate_Keeper")
	require.NoError(t, err)
	assert.Equal(t, board.GateKeeper, k)
	_, err = board.ParseCubeKind("dragon")
	assert.Error(t, err)
}
