// Package db provides a PostgreSQL-backed globals store.
package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/willibrandon/irisconns/internal/conns"
	"github.com/willibrandon/irisconns/internal/logger"
)

// PoolOptions tune the pools created by NewConnectionPool.
type PoolOptions struct {
	SSLMode     string
	MaxConns    int32
	MinConns    int32
	Application string
}

// DatabaseName maps a namespace to the database it lives in.
func DatabaseName(namespace string) string {
	return strings.ToLower(namespace)
}

// NewConnectionPool creates a PostgreSQL connection pool for p.
// The namespace selects the database.
func NewConnectionPool(ctx context.Context, p conns.Params, opts PoolOptions) (*pgxpool.Pool, error) {
	logger.Debug("Creating new database connection pool",
		"host", p.Hostname,
		"port", p.Port,
		"database", DatabaseName(p.Namespace),
		"user", p.Username,
		"sslmode", opts.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(ConnString(p, opts.SSLMode))
	if err != nil {
		logger.Error("Failed to parse connection string", "error", err)
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if opts.MaxConns > 0 {
		poolConfig.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		poolConfig.MinConns = opts.MinConns
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	application := opts.Application
	if application == "" {
		application = "irisconns"
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = application

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("Failed to create connection pool",
			"host", p.Hostname,
			"port", p.Port,
			"error", err,
		)
		return nil, err
	}

	// Validate connection with a simple query
	if err := ValidateConnection(ctx, pool); err != nil {
		logger.Error("Connection validation failed", "error", err)
		pool.Close()
		return nil, err
	}

	logger.Debug("Database connection pool created successfully",
		"host", p.Hostname,
		"port", p.Port,
		"database", DatabaseName(p.Namespace),
	)

	return pool, nil
}

// ValidateConnection validates the database connection by executing a version query
func ValidateConnection(ctx context.Context, pool *pgxpool.Pool) error {
	var version string
	return pool.QueryRow(ctx, "SELECT version()").Scan(&version)
}

// ConnString builds a keyword/value connection string for p.
func ConnString(p conns.Params, sslmode string) string {
	parts := []string{
		"host=" + quote(p.Hostname),
		fmt.Sprintf("port=%d", p.Port),
		"dbname=" + quote(DatabaseName(p.Namespace)),
		"sslmode=" + quote(sslMode(sslmode)),
	}
	if p.Username != "" {
		parts = append(parts, "user="+quote(p.Username))
	}
	if p.Password != "" {
		parts = append(parts, "password="+quote(p.Password))
	}
	return strings.Join(parts, " ")
}

// quote escapes a keyword/value connection string value.
func quote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func sslMode(mode string) string {
	if mode == "" {
		return "prefer"
	}
	return mode
}
