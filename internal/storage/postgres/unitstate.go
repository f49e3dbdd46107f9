package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kikitora/spacejourney/internal/game/status"
	"github.com/kikitora/spacejourney/internal/game/unit"
)

// effectRow is the JSONB shape of one status effect.
type effectRow struct {
	Type       status.Type `json:"type"`
	Value      int         `json:"value"`
	ExpireTime int         `json:"expire_time"`
}

// UnitStateRepository persists the runtime state of units.
type UnitStateRepository struct {
	db *pgxpool.Pool
}

// NewUnitStateRepository creates a UnitStateRepository backed by the given pool.
func NewUnitStateRepository(db *pgxpool.Pool) *UnitStateRepository {
	return &UnitStateRepository{db: db}
}

// Save upserts the state of unitID.
func (r *UnitStateRepository) Save(ctx context.Context, unitID string, s unit.State) error {
	if unitID == "" {
		return errors.New("saving unit state: missing id")
	}
	effects := make([]effectRow, 0, len(s.Effects))
	for _, e := range s.Effects {
		effects = append(effects, effectRow{Type: e.Type, Value: e.ValuePercent, ExpireTime: e.ExpireTime})
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO unit_states (unit_id, hp, dead, battle_time, effects)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (unit_id) DO UPDATE SET
			hp = EXCLUDED.hp, dead = EXCLUDED.dead, battle_time = EXCLUDED.battle_time,
			effects = EXCLUDED.effects, updated_at = NOW()`,
		unitID, s.HP, s.Dead, s.BattleTime, effects,
	)
	if err != nil {
		return fmt.Errorf("upserting unit state: %w", err)
	}
	return nil
}

// Get loads the state of unitID.
//
// Postcondition: Returns the state or ErrUnitStateNotFound.
func (r *UnitStateRepository) Get(ctx context.Context, unitID string) (unit.State, error) {
	var (
		s       unit.State
		effects []effectRow
	)
	err := r.db.QueryRow(ctx, `
		SELECT hp, dead, battle_time, effects FROM unit_states WHERE unit_id = $1`, unitID,
	).Scan(&s.HP, &s.Dead, &s.BattleTime, &effects)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return unit.State{}, ErrUnitStateNotFound
		}
		return unit.State{}, fmt.Errorf("querying unit state: %w", err)
	}
	for _, e := range effects {
		s.Effects = append(s.Effects, status.Effect{Type: e.Type, ValuePercent: e.Value, ExpireTime: e.ExpireTime})
	}
	return s, nil
}
