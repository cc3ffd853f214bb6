package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/willibrandon/irisconns/internal/globals"
)

// TableName is the table nodes are stored in.
const TableName = "irisconns_globals"

// GlobalsStore reads and writes nodes in one PostgreSQL database.
type GlobalsStore struct {
	pool *pgxpool.Pool
	id   string
}

// NewGlobalsStore wraps pool. EnsureSchema must have been run.
func NewGlobalsStore(pool *pgxpool.Pool) *GlobalsStore {
	return &GlobalsStore{
		pool: pool,
		id:   uuid.NewString(),
	}
}

// EnsureSchema creates the nodes table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+TableName+` (
			global TEXT NOT NULL,
			path TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (global, path)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", TableName, err)
	}
	return nil
}

// ID identifies this connection in logs.
func (s *GlobalsStore) ID() string {
	return s.id
}

// Pool returns the underlying pool.
func (s *GlobalsStore) Pool() *pgxpool.Pool {
	return s.pool
}

// Set stores value at global(subscripts...).
func (s *GlobalsStore) Set(ctx context.Context, value any, global string, subscripts ...any) error {
	if err := globals.Check(global, subscripts...); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO `+TableName+` (global, path, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (global, path) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = now()
	`, global, globals.Path(subscripts...), globals.Value(value))
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", globals.Ref(global, subscripts...), err)
	}
	return nil
}

// Get returns the value at global(subscripts...), or globals.ErrUndefined.
func (s *GlobalsStore) Get(ctx context.Context, global string, subscripts ...any) (string, error) {
	if err := globals.Check(global, subscripts...); err != nil {
		return "", err
	}

	var value string
	err := s.pool.QueryRow(ctx, `
		SELECT value FROM `+TableName+` WHERE global = $1 AND path = $2
	`, global, globals.Path(subscripts...)).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", globals.Ref(global, subscripts...), globals.ErrUndefined)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", globals.Ref(global, subscripts...), err)
	}
	return value, nil
}

// Kill removes global(subscripts...) and all its descendants.
func (s *GlobalsStore) Kill(ctx context.Context, global string, subscripts ...any) error {
	if err := globals.Check(global, subscripts...); err != nil {
		return err
	}

	var err error
	if len(subscripts) == 0 {
		_, err = s.pool.Exec(ctx, `DELETE FROM `+TableName+` WHERE global = $1`, global)
	} else {
		path := globals.Path(subscripts...)
		_, err = s.pool.Exec(ctx, `
			DELETE FROM `+TableName+`
			WHERE global = $1 AND (path = $2 OR starts_with(path, $3))
		`, global, path, globals.DescendantPrefix(path))
	}
	if err != nil {
		return fmt.Errorf("failed to kill %s: %w", globals.Ref(global, subscripts...), err)
	}
	return nil
}

// Close closes the pool.
func (s *GlobalsStore) Close() error {
	s.pool.Close()
	return nil
}
