package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kikitora/spacejourney/internal/game/unit"
)

// UnitStore saves a unit's soul, body and runtime state together.
type UnitStore struct {
	Souls  *SoulRepository
	Bodies *BodyRepository
	States *UnitStateRepository
}

// NewUnitStore creates a UnitStore whose repositories share db.
func NewUnitStore(db *pgxpool.Pool) *UnitStore {
	return &UnitStore{
		Souls:  NewSoulRepository(db),
		Bodies: NewBodyRepository(db),
		States: NewUnitStateRepository(db),
	}
}

// SaveUnit upserts the soul and body of u when present, then its state.
func (s *UnitStore) SaveUnit(ctx context.Context, u *unit.Unit) error {
	if soul := u.Soul(); soul != nil {
		if err := s.Souls.Save(ctx, soul); err != nil {
			return fmt.Errorf("unit %s: %w", u.ID(), err)
		}
	}
	if body := u.Body(); body != nil {
		if err := s.Bodies.Save(ctx, body); err != nil {
			return fmt.Errorf("unit %s: %w", u.ID(), err)
		}
	}
	if err := s.States.Save(ctx, u.ID(), u.Snapshot()); err != nil {
		return fmt.Errorf("unit %s: %w", u.ID(), err)
	}
	return nil
}
