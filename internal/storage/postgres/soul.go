package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kikitora/spacejourney/internal/game/growth"
	"github.com/kikitora/spacejourney/internal/game/stat"
	"github.com/kikitora/spacejourney/internal/game/unit"
)

// SoulRepository persists souls and their reincarnations.
type SoulRepository struct {
	db *pgxpool.Pool
}

// NewSoulRepository creates a SoulRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSoulRepository(db *pgxpool.Pool) *SoulRepository {
	return &SoulRepository{db: db}
}

// Save upserts s and replaces its reincarnations in one transaction.
//
// Precondition: s.ID must be non-empty.
func (r *SoulRepository) Save(ctx context.Context, s *unit.Soul) error {
	if s == nil || s.ID == "" {
		return errors.New("saving soul: missing id")
	}
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO souls (id, name, talent, tendency, max_level, selected)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, talent = EXCLUDED.talent, tendency = EXCLUDED.tendency,
				max_level = EXCLUDED.max_level, selected = EXCLUDED.selected, updated_at = NOW()`,
			s.ID, s.Name, s.Talent.String(), s.Tendency, s.MaxLevel, s.Selected,
		)
		if err != nil {
			return fmt.Errorf("upserting soul: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM reincarnations WHERE soul_id = $1`, s.ID); err != nil {
			return fmt.Errorf("clearing reincarnations: %w", err)
		}
		batch := &pgx.Batch{}
		for i, re := range s.Reincarnations {
			skills := re.LearnedSkills
			if skills == nil {
				skills = []string{}
			}
			batch.Queue(`
				INSERT INTO reincarnations
					(soul_id, idx, id, title, rank, growth_type, soul_job_id, level, current_exp,
					 lv1, growth_target, bonus, learned_skills)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
				s.ID, i, re.ID, re.Title, re.Rank, re.GrowthType.String(), re.SoulJobID, re.Level, re.CurrentExp,
				intSlice(re.Lv1), floatSlice(re.GrowthTarget), intSlice(re.Bonus), skills,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting reincarnations: %w", err)
		}
		return nil
	})
}

// Get loads the soul with id and its reincarnations in order.
//
// Postcondition: Returns the soul or ErrSoulNotFound.
func (r *SoulRepository) Get(ctx context.Context, id string) (*unit.Soul, error) {
	var (
		s      unit.Soul
		talent string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, name, talent, tendency, max_level, selected
		FROM souls WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &talent, &s.Tendency, &s.MaxLevel, &s.Selected)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSoulNotFound
		}
		return nil, fmt.Errorf("querying soul: %w", err)
	}
	if s.Talent, err = growth.ParseTalentRank(talent); err != nil {
		return nil, fmt.Errorf("soul %s: %w", id, err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, title, rank, growth_type, soul_job_id, level, current_exp,
		       lv1, growth_target, bonus, learned_skills
		FROM reincarnations WHERE soul_id = $1 ORDER BY idx ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("listing reincarnations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			re         unit.Reincarnation
			gType      string
			lv1, bonus []int
			targets    []float64
		)
		if err := rows.Scan(&re.ID, &re.Title, &re.Rank, &gType, &re.SoulJobID, &re.Level, &re.CurrentExp,
			&lv1, &targets, &bonus, &re.LearnedSkills); err != nil {
			return nil, fmt.Errorf("scanning reincarnation row: %w", err)
		}
		if re.GrowthType, err = growth.ParseGrowthType(gType); err != nil {
			return nil, fmt.Errorf("soul %s: %w", id, err)
		}
		re.Lv1 = stat.Block(toBlock(lv1))
		re.Bonus = stat.Block(toBlock(bonus))
		re.GrowthTarget = stat.FloatBlock(toFloatBlock(targets))
		if len(re.LearnedSkills) == 0 {
			re.LearnedSkills = nil
		}
		s.Reincarnations = append(s.Reincarnations, re)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}
