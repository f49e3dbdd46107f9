package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kikitora/spacejourney/internal/game/stat"
	"github.com/kikitora/spacejourney/internal/game/unit"
)

// BodyRepository persists bodies.
type BodyRepository struct {
	db *pgxpool.Pool
}

// NewBodyRepository creates a BodyRepository backed by the given pool.
func NewBodyRepository(db *pgxpool.Pool) *BodyRepository {
	return &BodyRepository{db: db}
}

// Save upserts b keyed by its ID.
//
// Precondition: b.ID must be non-empty.
func (r *BodyRepository) Save(ctx context.Context, b *unit.Body) error {
	if b == nil || b.ID == "" {
		return errors.New("saving body: missing id")
	}
	candidates := b.WeaponCandidates
	if candidates == nil {
		candidates = []string{}
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO bodies (id, race_id, body_job_id, weapon_id, weapon_candidates, rank, max_hp, flat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			race_id = EXCLUDED.race_id, body_job_id = EXCLUDED.body_job_id,
			weapon_id = EXCLUDED.weapon_id, weapon_candidates = EXCLUDED.weapon_candidates,
			rank = EXCLUDED.rank, max_hp = EXCLUDED.max_hp, flat = EXCLUDED.flat,
			updated_at = NOW()`,
		b.ID, b.RaceID, b.BodyJobID, b.WeaponID, candidates, b.Rank, b.MaxHP, intSlice(b.Flat),
	)
	if err != nil {
		return fmt.Errorf("upserting body: %w", err)
	}
	return nil
}

// Get loads the body with id.
//
// Postcondition: Returns the body or ErrBodyNotFound.
func (r *BodyRepository) Get(ctx context.Context, id string) (*unit.Body, error) {
	var (
		b    unit.Body
		flat []int
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, race_id, body_job_id, weapon_id, weapon_candidates, rank, max_hp, flat
		FROM bodies WHERE id = $1`, id,
	).Scan(&b.ID, &b.RaceID, &b.BodyJobID, &b.WeaponID, &b.WeaponCandidates, &b.Rank, &b.MaxHP, &flat)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBodyNotFound
		}
		return nil, fmt.Errorf("querying body: %w", err)
	}
	b.Flat = stat.Block(toBlock(flat))
	if len(b.WeaponCandidates) == 0 {
		b.WeaponCandidates = nil
	}
	return &b, nil
}
