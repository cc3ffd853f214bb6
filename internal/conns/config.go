// Package conns resolves connection configurations into live handles and
// caches them by connection name and by connection identity.
package conns

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/willibrandon/irisconns/internal/logger"
	"github.com/willibrandon/irisconns/internal/prompt"
)

// Key identifies a connection target: hostname, port, namespace and username.
// The password is not part of it.
type Key string

// keySeparator joins the identity fields.
const keySeparator = ";"

// Config holds the attributes of one connection. Empty fields are asked for
// by Fill.
type Config struct {
	Hostname  string
	Port      string
	Namespace string
	Username  string
	Password  prompt.Masked

	// Confirm asks for masked fields twice when prompting.
	Confirm bool

	filled bool
}

// NewConfig returns a Config with the standard defaults: localhost:1972,
// namespace USER, no username or password, confirmation on.
func NewConfig() *Config {
	return &Config{
		Hostname:  DefaultHostname,
		Port:      DefaultPort,
		Namespace: DefaultNamespace,
		Confirm:   true,
	}
}

// Filled reports whether Fill has completed.
func (c *Config) Filled() bool {
	return c.filled
}

// IdentityKey returns the cache key for the connection target.
func (c *Config) IdentityKey() Key {
	return Key(strings.Join([]string{c.Hostname, c.Port, c.Namespace, c.Username}, keySeparator))
}

// Fill walks the declared fields in order, printing those already set and
// prompting for the rest. It does nothing once the config has been filled.
func (c *Config) Fill(con *prompt.Console) error {
	if c.filled {
		return nil
	}

	for _, f := range fields {
		if v := f.get(c); v != nil && v.Reveal() != "" {
			f.Print(con.Out(), v)
			continue
		}

		v, err := f.Prompt(con, c.Confirm)
		if err != nil {
			return err
		}
		f.set(c, v)
	}

	c.filled = true
	return nil
}

// Params converts the config into connector parameters.
func (c *Config) Params() (Params, error) {
	port, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil {
		return Params{}, fmt.Errorf("%w %q: %v", ErrInvalidPort, c.Port, err)
	}
	return Params{
		Hostname:  c.Hostname,
		Port:      port,
		Namespace: c.Namespace,
		Username:  c.Username,
		Password:  c.Password.Reveal(),
	}, nil
}

// GetConnection returns the registry's handle for this config's target,
// filling in missing fields and connecting only when no cached handle matches.
// A config whose current values already match a cached target is never
// prompted.
func (c *Config) GetConnection(ctx context.Context, reg *Registry) (Handle, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.connectionFor(ctx, c)
}

// String renders the config with the password masked.
func (c *Config) String() string {
	return fmt.Sprintf("Config(hostname=%s, port=%s, namespace=%s, username=%s, %s, confirm=%t)",
		c.Hostname, c.Port, c.Namespace, c.Username, prompt.MaskLiteral, c.Confirm)
}

// connectionFor fills the config, then connects through the registry's identity
// cache. The caller holds r.mu.
func (r *Registry) connectionFor(ctx context.Context, c *Config) (Handle, error) {
	key := c.IdentityKey()
	if h, ok := r.byKey[key]; ok {
		logger.Debug("Identity cache hit before fill", "key", key)
		return h, nil
	}

	if err := c.Fill(r.console); err != nil {
		return nil, err
	}

	// Filling may have changed the identity.
	key = c.IdentityKey()
	if h, ok := r.byKey[key]; ok {
		logger.Debug("Identity cache hit after fill", "key", key)
		return h, nil
	}

	params, err := c.Params()
	if err != nil {
		return nil, err
	}

	logger.Debug("Opening connection", "params", params)
	h, err := r.connector.Connect(ctx, params)
	if err != nil {
		logger.Error("Connection failed", "params", params, "error", err)
		return nil, err
	}

	r.byKey[key] = h
	logger.Debug("Connection cached", "key", key)
	return h, nil
}
