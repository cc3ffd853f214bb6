package conns

import (
	"context"
	"fmt"
	"log/slog"
)

// Params are the resolved values handed to a Connector.
type Params struct {
	Hostname  string
	Port      int
	Namespace string
	Username  string
	Password  string
}

// LogValue keeps the password out of structured logs.
func (p Params) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("hostname", p.Hostname),
		slog.Int("port", p.Port),
		slog.String("namespace", p.Namespace),
		slog.String("username", p.Username),
	)
}

// String renders the parameters without the password.
func (p Params) String() string {
	return fmt.Sprintf("%s@%s:%d/%s", p.Username, p.Hostname, p.Port, p.Namespace)
}

// Handle is a live connection to a globals store.
type Handle interface {
	// Set stores value at global(subscripts...).
	Set(ctx context.Context, value any, global string, subscripts ...any) error
	// Get returns the value at global(subscripts...).
	Get(ctx context.Context, global string, subscripts ...any) (string, error)
	// Kill removes global(subscripts...) and everything beneath it.
	Kill(ctx context.Context, global string, subscripts ...any) error
}

// Connector opens connections. Its errors are returned to callers unchanged.
type Connector interface {
	Connect(ctx context.Context, p Params) (Handle, error)
}

// ConnectorFunc adapts a function to the Connector interface.
type ConnectorFunc func(ctx context.Context, p Params) (Handle, error)

// Connect calls f(ctx, p).
func (f ConnectorFunc) Connect(ctx context.Context, p Params) (Handle, error) {
	return f(ctx, p)
}
