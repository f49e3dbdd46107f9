package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kikitora/spacejourney/internal/game/board"
)

// BoardRepository persists board snapshots.
type BoardRepository struct {
	db *pgxpool.Pool
}

// NewBoardRepository creates a BoardRepository backed by the given pool.
func NewBoardRepository(db *pgxpool.Pool) *BoardRepository {
	return &BoardRepository{db: db}
}

func kindLabel(o board.Occupant) string {
	if !o.Present() {
		return ""
	}
	return o.Kind.String()
}

func occupant(id, kind string) (board.Occupant, error) {
	if id == "" {
		return board.Occupant{}, nil
	}
	k, err := board.ParseCubeKind(kind)
	if err != nil {
		return board.Occupant{}, err
	}
	return board.Occupant{ID: id, Kind: k}, nil
}

// Save replaces the stored snapshot for id with every cell of s.
//
// Precondition: id must be non-empty and s must have a positive size.
func (r *BoardRepository) Save(ctx context.Context, id string, s board.Snapshot) error {
	if id == "" {
		return errors.New("saving board: missing id")
	}
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO boards (id, width, height) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET width = EXCLUDED.width, height = EXCLUDED.height, updated_at = NOW()`,
			id, s.Width, s.Height,
		)
		if err != nil {
			return fmt.Errorf("upserting board: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM board_cells WHERE board_id = $1`, id); err != nil {
			return fmt.Errorf("clearing board cells: %w", err)
		}
		rows := make([][]any, 0, len(s.Cells))
		for _, c := range s.Cells {
			rows = append(rows, []any{
				id, c.X, c.Y, c.Cell.Valid, c.Cell.TerrainBlocked,
				c.Cell.Floor.ID, kindLabel(c.Cell.Floor),
				c.Cell.Blocker.ID, kindLabel(c.Cell.Blocker),
				c.Cell.Actor.ID, kindLabel(c.Cell.Actor),
			})
		}
		_, err = tx.CopyFrom(ctx, pgx.Identifier{"board_cells"}, []string{
			"board_id", "x", "y", "valid", "terrain_blocked",
			"floor_id", "floor_kind", "blocker_id", "blocker_kind", "actor_id", "actor_kind",
		}, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("copying board cells: %w", err)
		}
		return nil
	})
}

// Get loads the snapshot stored for id with cells in row-major order.
//
// Postcondition: Returns the snapshot or ErrBoardNotFound.
func (r *BoardRepository) Get(ctx context.Context, id string) (board.Snapshot, error) {
	var s board.Snapshot
	err := r.db.QueryRow(ctx, `SELECT width, height FROM boards WHERE id = $1`, id).Scan(&s.Width, &s.Height)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return board.Snapshot{}, ErrBoardNotFound
		}
		return board.Snapshot{}, fmt.Errorf("querying board: %w", err)
	}
	rows, err := r.db.Query(ctx, `
		SELECT x, y, valid, terrain_blocked, floor_id, floor_kind, blocker_id, blocker_kind, actor_id, actor_kind
		FROM board_cells WHERE board_id = $1 ORDER BY y ASC, x ASC`, id)
	if err != nil {
		return board.Snapshot{}, fmt.Errorf("listing board cells: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			c                               board.CellState
			floorID, floorKind, blockerID   string
			blockerKind, actorID, actorKind string
		)
		if err := rows.Scan(&c.X, &c.Y, &c.Cell.Valid, &c.Cell.TerrainBlocked,
			&floorID, &floorKind, &blockerID, &blockerKind, &actorID, &actorKind); err != nil {
			return board.Snapshot{}, fmt.Errorf("scanning board cell: %w", err)
		}
		if c.Cell.Floor, err = occupant(floorID, floorKind); err != nil {
			return board.Snapshot{}, err
		}
		if c.Cell.Blocker, err = occupant(blockerID, blockerKind); err != nil {
			return board.Snapshot{}, err
		}
		if c.Cell.Actor, err = occupant(actorID, actorKind); err != nil {
			return board.Snapshot{}, err
		}
		s.Cells = append(s.Cells, c)
	}
	return s, rows.Err()
}
