package db

import (
	"context"

	"github.com/willibrandon/irisconns/internal/conns"
	"github.com/willibrandon/irisconns/internal/logger"
)

// Connector opens PostgreSQL globals stores.
type Connector struct {
	Options PoolOptions
}

// NewConnector creates a connector using opts for every pool.
func NewConnector(opts PoolOptions) *Connector {
	return &Connector{Options: opts}
}

// Connect opens a pool for p and makes sure the nodes table exists.
// Driver errors are returned as is.
func (c *Connector) Connect(ctx context.Context, p conns.Params) (conns.Handle, error) {
	pool, err := NewConnectionPool(ctx, p, c.Options)
	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	store := NewGlobalsStore(pool)
	logger.Debug("Opened postgres globals store", "id", store.ID(), "params", p)
	return store, nil
}
