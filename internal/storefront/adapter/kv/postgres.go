package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hamburgueria/internal/xpkg/config"
	xerrors "hamburgueria/internal/xpkg/errors"
	"hamburgueria/internal/xpkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS counters (
	name  TEXT PRIMARY KEY,
	value BIGINT NOT NULL
);`

const postgresUpsert = `
	INSERT INTO kv (key, value, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (key) DO UPDATE SET
		value = EXCLUDED.value,
		updated_at = EXCLUDED.updated_at`

// Postgres shares one database between several storefront processes.
type Postgres struct {
	pool *pgxpool.Pool
}

func ConnectPostgres(ctx context.Context, cfg *config.Postgres, mylog logger.Logger) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", xerrors.ErrDBConn, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %w", xerrors.ErrDBConn, err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	mylog.Action("db_connected").Info("Connected to PostgreSQL database", "host", cfg.Host, "database", cfg.Database)
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := p.pool.QueryRow(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	if _, err := p.pool.Exec(ctx, postgresUpsert, key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Update locks the row with SELECT ... FOR UPDATE for the length of the
// transaction. A missing key is inserted empty first so there is a row to lock.
func (p *Postgres) Update(ctx context.Context, key string, fn func([]byte, bool) ([]byte, error)) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin update of %s: %w", key, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `INSERT INTO kv (key, value) VALUES ($1, ''::bytea) ON CONFLICT (key) DO NOTHING`, key); err != nil {
		return fmt.Errorf("failed to reserve %s: %w", key, err)
	}

	var value []byte
	if err := tx.QueryRow(ctx, `SELECT value FROM kv WHERE key = $1 FOR UPDATE`, key).Scan(&value); err != nil {
		return fmt.Errorf("failed to lock %s: %w", key, err)
	}

	next, err := fn(value, len(value) > 0)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, postgresUpsert, key, next); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Increment(ctx context.Context, key string, initial int64) (int64, error) {
	q := `
	INSERT INTO counters (name, value)
	VALUES ($1, $2)
	ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
	RETURNING value`

	var next int64
	if err := p.pool.QueryRow(ctx, q, key, initial+1).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", key, err)
	}
	return next, nil
}

// IsAlive pings the pool.
func (p *Postgres) IsAlive(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
