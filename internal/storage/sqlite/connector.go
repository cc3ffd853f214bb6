package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/willibrandon/irisconns/internal/conns"
	"github.com/willibrandon/irisconns/internal/logger"
)

// Connector opens file-backed globals stores under DataDir, one database
// file per hostname and port. SQLite has no authentication, so the username
// and password are accepted and ignored.
type Connector struct {
	DataDir string
}

// NewConnector creates a connector storing databases under dataDir.
func NewConnector(dataDir string) *Connector {
	return &Connector{DataDir: dataDir}
}

// FilePath returns the database file used for p.
func (c *Connector) FilePath(p conns.Params) string {
	host := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(p.Hostname)
	return filepath.Join(c.DataDir, fmt.Sprintf("%s-%d.db", host, p.Port))
}

// Connect opens the store for p.
func (c *Connector) Connect(ctx context.Context, p conns.Params) (conns.Handle, error) {
	path := c.FilePath(p)
	db, err := Open(path)
	if err != nil {
		return nil, err
	}

	store := NewGlobalsStore(db, p.Namespace)
	logger.Debug("Opened sqlite globals store",
		"id", store.ID(),
		"path", db.Path(),
		"namespace", p.Namespace,
	)
	return store, nil
}
