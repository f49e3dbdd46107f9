package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kikitora/spacejourney/internal/game/board"
	"github.com/kikitora/spacejourney/internal/game/growth"
	"github.com/kikitora/spacejourney/internal/game/stat"
	"github.com/kikitora/spacejourney/internal/game/status"
	"github.com/kikitora/spacejourney/internal/game/unit"
	"github.com/kikitora/spacejourney/internal/storage/postgres"
	"github.com/kikitora/spacejourney/internal/testutil"
)

func sampleSoul() *unit.Soul {
	return &unit.Soul{
		ID:       uuid.NewString(),
		Name:     "Aria",
		Talent:   growth.TalentB,
		Tendency: "mage",
		MaxLevel: 50,
		Selected: 1,
		Reincarnations: []unit.Reincarnation{
			{
				ID: uuid.NewString(), Title: "Apprentice", Rank: 1, GrowthType: growth.Early,
				SoulJobID: "apprentice", Level: 12, CurrentExp: 340,
				Lv1:           stat.Block{10, 8, 9, 14, 12},
				GrowthTarget:  stat.FloatBlock{4.5, 3.25, 5, 7.75, 6},
				Bonus:         stat.Block{1, 0, 0, 2, 0},
				LearnedSkills: []string{"fire_bolt", "focus"},
			},
			{
				ID: uuid.NewString(), Title: "Sage", Rank: 3, GrowthType: growth.Late,
				SoulJobID: "sage", Level: 1,
				Lv1:          stat.Block{20, 18, 19, 30, 28},
				GrowthTarget: stat.FloatBlock{6, 5, 6, 9.5, 8},
			},
		},
	}
}

func TestSoulRepository_RoundTrip(t *testing.T) {
	repo := testutil.NewPool(t).Souls()
	ctx := context.Background()
	s := sampleSoul()

	require.NoError(t, repo.Save(ctx, s))
	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	s.Reincarnations = s.Reincarnations[:1]
	s.Reincarnations[0].Level = 13
	s.Selected = 0
	require.NoError(t, repo.Save(ctx, s))
	got, err = repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestSoulRepository_NotFound(t *testing.T) {
	repo := testutil.NewPool(t).Souls()
	_, err := repo.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, postgres.ErrSoulNotFound)
}

func TestBodyRepository_RoundTrip(t *testing.T) {
	repo := testutil.NewPool(t).Bodies()
	ctx := context.Background()
	b := &unit.Body{
		ID: uuid.NewString(), RaceID: "elf", BodyJobID: "scout", WeaponID: "bow",
		WeaponCandidates: []string{"bow", "dagger"}, Rank: 2, MaxHP: 140,
		Flat: stat.Block{12, 9, 20, 8, 7},
	}
	require.NoError(t, repo.Save(ctx, b))
	got, err := repo.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	b.MaxHP = 150
	b.WeaponCandidates = nil
	require.NoError(t, repo.Save(ctx, b))
	got, err = repo.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	_, err = repo.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, postgres.ErrBodyNotFound)
}

func TestUnitStateRepository_RoundTrip(t *testing.T) {
	repo := testutil.NewPool(t).UnitStates()
	ctx := context.Background()
	id := uuid.NewString()
	s := unit.State{
		HP: 33, BattleTime: 17,
		Effects: []status.Effect{
			{Type: status.BuffAt, ValuePercent: 20, ExpireTime: 25},
			{Type: status.Stun, ExpireTime: 19},
		},
	}
	require.NoError(t, repo.Save(ctx, id, s))
	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	dead := unit.State{Dead: true, BattleTime: 30}
	require.NoError(t, repo.Save(ctx, id, dead))
	got, err = repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, dead, got)

	_, err = repo.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, postgres.ErrUnitStateNotFound)
}

func TestBoardRepository_RoundTrip(t *testing.T) {
	repo := testutil.NewPool(t).Boards()
	ctx := context.Background()

	b, err := board.New(4, 3)
	require.NoError(t, err)
	b.SetInvalidCell(0, 0)
	b.SetValidCell(1, 1, true)
	require.True(t, b.TryPlaceActor("hero", board.Player, 2, 1))
	require.True(t, b.TryPlaceBlocker("gate", board.GateKeeper, 3, 2))
	require.True(t, b.TryPlaceFloor("chest", board.Treasure, 0, 2))

	want := b.Snapshot()
	require.NoError(t, repo.Save(ctx, "floor-1", want))
	got, err := repo.Get(ctx, "floor-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	restored, err := board.FromSnapshot(got)
	require.NoError(t, err)
	pos, ok := restored.ActorPos("hero")
	require.True(t, ok)
	assert.Equal(t, board.Point{X: 2, Y: 1}, pos)

	require.True(t, b.RemoveActor("hero"))
	require.NoError(t, repo.Save(ctx, "floor-1", b.Snapshot()))
	got, err = repo.Get(ctx, "floor-1")
	require.NoError(t, err)
	assert.Equal(t, b.Snapshot(), got)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, postgres.ErrBoardNotFound)
}

func TestRepositories_RejectEmptyIDs(t *testing.T) {
	ctx := context.Background()
	assert.Error(t, postgres.NewSoulRepository(nil).Save(ctx, &unit.Soul{}))
	assert.Error(t, postgres.NewBodyRepository(nil).Save(ctx, &unit.Body{}))
	assert.Error(t, postgres.NewUnitStateRepository(nil).Save(ctx, "", unit.State{}))
	assert.Error(t, postgres.NewBoardRepository(nil).Save(ctx, "", board.Snapshot{}))
}

func TestUnitStore_SaveUnit(t *testing.T) {
	store := testutil.NewPool(t).Units()
	ctx := context.Background()
	soul := sampleSoul()
	body := &unit.Body{ID: uuid.NewString(), RaceID: "human", BodyJobID: "soldier", Rank: 1, MaxHP: 80, Flat: stat.Block{8, 8, 8, 8, 8}}
	u := unit.New(uuid.NewString(), "Aria", soul, body)
	u.TakeDamage(30)

	require.NoError(t, store.SaveUnit(ctx, u))

	gotSoul, err := store.Souls.Get(ctx, soul.ID)
	require.NoError(t, err)
	assert.Equal(t, soul, gotSoul)
	gotBody, err := store.Bodies.Get(ctx, body.ID)
	require.NoError(t, err)
	assert.Equal(t, body, gotBody)
	state, err := store.States.Get(ctx, u.ID())
	require.NoError(t, err)
	assert.Equal(t, u.HP(), state.HP)
	assert.False(t, state.Dead)
	assert.Empty(t, state.Effects)
}

func TestPool_Health(t *testing.T) {
	pool := testutil.NewPool(t)
	require.NoError(t, pool.Health(context.Background(), 5*time.Second))
	assert.NotNil(t, pool.DB())
}
