package conns

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/willibrandon/irisconns/internal/logger"
	"github.com/willibrandon/irisconns/internal/prompt"
)

// EnvDefaultConnection names the environment variable that selects the
// connection used when no name is given.
const EnvDefaultConnection = "CONN"

// DefaultConnectionName is used when EnvDefaultConnection is unset.
const DefaultConnectionName = "default"

// DefaultName returns $CONN, or "default" when it is unset or empty.
func DefaultName() string {
	if name := os.Getenv(EnvDefaultConnection); name != "" {
		return name
	}
	return DefaultConnectionName
}

// Resolver finds the declared configuration for a connection name.
// It returns an error wrapping ErrNotDeclared when there is none.
type Resolver interface {
	LoadConfig(name string) (*Config, error)
}

// Registry caches live handles by connection name and by identity key.
// At most one connection is opened per identity. A Registry is safe for
// concurrent use; lookups are serialized, prompting included.
type Registry struct {
	mu sync.Mutex

	connector   Connector
	resolver    Resolver
	console     *prompt.Console
	defaultName string

	byKey  map[Key]Handle
	byName map[string]Handle
}

// Option configures a Registry.
type Option func(*Registry)

// WithConsole sets the console used for prompting. Defaults to the process terminal.
func WithConsole(c *prompt.Console) Option {
	return func(r *Registry) {
		r.console = c
	}
}

// WithDefaultName overrides the connection name used for empty names.
func WithDefaultName(name string) Option {
	return func(r *Registry) {
		if name != "" {
			r.defaultName = name
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(connector Connector, resolver Resolver, opts ...Option) *Registry {
	r := &Registry{
		connector:   connector,
		resolver:    resolver,
		defaultName: DefaultName(),
		byKey:       make(map[Key]Handle),
		byName:      make(map[string]Handle),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.console == nil {
		r.console = prompt.Stdio()
	}
	return r
}

// DefaultName returns the name used when callers pass "".
func (r *Registry) DefaultName() string {
	return r.defaultName
}

func (r *Registry) nameOrDefault(name string) string {
	if name == "" {
		return r.defaultName
	}
	return name
}

// GetByName returns the handle registered under name, resolving, filling
// and connecting the declared configuration on first use. An empty name
// selects the default connection.
func (r *Registry) GetByName(ctx context.Context, name string) (Handle, error) {
	name = r.nameOrDefault(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.byName[name]; ok {
		return h, nil
	}

	cfg, err := r.resolver.LoadConfig(name)
	if err != nil {
		if errors.Is(err, ErrNotDeclared) {
			logger.Warn("Connection not declared", "name", name)
		}
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotDeclared, name)
	}

	r.console.Printf("# Connecting to %s\n", name)
	h, err := r.connectionFor(ctx, cfg)
	if err != nil {
		return nil, err
	}

	r.byName[name] = h
	logger.Info("Connection registered", "name", name, "key", cfg.IdentityKey())
	return h, nil
}

// SetByName registers h under name, replacing any previous entry.
func (r *Registry) SetByName(name string, h Handle) Handle {
	name = r.nameOrDefault(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName[name] = h
	logger.Debug("Connection set", "name", name)
	return h
}

// SetFromConfig connects cfg (through the identity cache) and registers the
// handle under name.
func (r *Registry) SetFromConfig(ctx context.Context, cfg *Config, name string) (Handle, error) {
	h, err := cfg.GetConnection(ctx, r)
	if err != nil {
		return nil, err
	}
	return r.SetByName(name, h), nil
}

// GetConnection is GetByName.
func (r *Registry) GetConnection(ctx context.Context, name string) (Handle, error) {
	return r.GetByName(ctx, name)
}

// SetConnection is SetByName.
func (r *Registry) SetConnection(h Handle, name string) Handle {
	return r.SetByName(name, h)
}

// SetConnectionFromConfig is SetFromConfig.
func (r *Registry) SetConnectionFromConfig(ctx context.Context, cfg *Config, name string) (Handle, error) {
	return r.SetFromConfig(ctx, cfg, name)
}

// Names returns the registered connection names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every distinct cached handle that implements io.Closer.
// It is meant for process shutdown; the registry must not be used afterwards.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[Handle]bool)
	var errs []error
	closeOnce := func(h Handle) {
		if seen[h] {
			return
		}
		seen[h] = true
		if c, ok := h.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	for _, h := range r.byKey {
		closeOnce(h)
	}
	for _, h := range r.byName {
		closeOnce(h)
	}
	return errors.Join(errs...)
}
