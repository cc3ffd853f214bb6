package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/willibrandon/irisconns/internal/globals"
)

// GlobalsStore reads and writes the nodes of one namespace.
type GlobalsStore struct {
	db        *DB
	namespace string
	id        string
}

// NewGlobalsStore scopes db to namespace.
func NewGlobalsStore(db *DB, namespace string) *GlobalsStore {
	return &GlobalsStore{
		db:        db,
		namespace: namespace,
		id:        uuid.NewString(),
	}
}

// ID identifies this connection in logs.
func (s *GlobalsStore) ID() string {
	return s.id
}

// Set stores value at global(subscripts...).
func (s *GlobalsStore) Set(ctx context.Context, value any, global string, subscripts ...any) error {
	if err := globals.Check(global, subscripts...); err != nil {
		return err
	}

	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO globals (namespace, global, path, value, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(namespace, global, path) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, s.namespace, global, globals.Path(subscripts...), globals.Value(value))
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
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT value FROM globals
		WHERE namespace = ? AND global = ? AND path = ?
	`, s.namespace, global, globals.Path(subscripts...)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
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
		_, err = s.db.conn.ExecContext(ctx, `
			DELETE FROM globals WHERE namespace = ? AND global = ?
		`, s.namespace, global)
	} else {
		path := globals.Path(subscripts...)
		prefix := globals.DescendantPrefix(path)
		_, err = s.db.conn.ExecContext(ctx, `
			DELETE FROM globals
			WHERE namespace = ? AND global = ?
			  AND (path = ? OR substr(path, 1, length(?)) = ?)
		`, s.namespace, global, path, prefix, prefix)
	}
	if err != nil {
		return fmt.Errorf("failed to kill %s: %w", globals.Ref(global, subscripts...), err)
	}
	return nil
}

// Close closes the underlying database.
func (s *GlobalsStore) Close() error {
	return s.db.Close()
}
