// Package postgres persists souls, bodies, unit states and boards in
// PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/kikitora/spacejourney/internal/config"
)

// Pool owns the connection pool shared by every repository.
type Pool struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPool connects to the database described by cfg and verifies it answers.
//
// Precondition: cfg must hold valid connection parameters; logger must be non-nil.
// Postcondition: Returns a pinged Pool or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Pool, error) {
	start := time.Now()
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	logger.Info("database connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &Pool{pool: pool, logger: logger}, nil
}

// Health pings the database within timeout.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.pool.Ping(ctx); err != nil {
		p.logger.Warn("database health check failed", zap.Error(err))
		return err
	}
	return nil
}

// Close releases every connection. The Pool is unusable afterwards.
func (p *Pool) Close() { p.pool.Close() }

// DB returns the raw pool.
func (p *Pool) DB() *pgxpool.Pool { return p.pool }

// Souls returns a SoulRepository on this pool.
func (p *Pool) Souls() *SoulRepository { return NewSoulRepository(p.pool) }

// Bodies returns a BodyRepository on this pool.
func (p *Pool) Bodies() *BodyRepository { return NewBodyRepository(p.pool) }

// UnitStates returns a UnitStateRepository on this pool.
func (p *Pool) UnitStates() *UnitStateRepository { return NewUnitStateRepository(p.pool) }

// Boards returns a BoardRepository on this pool.
func (p *Pool) Boards() *BoardRepository { return NewBoardRepository(p.pool) }

// Units returns a UnitStore on this pool.
func (p *Pool) Units() *UnitStore { return NewUnitStore(p.pool) }
