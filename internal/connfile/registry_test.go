package connfile

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willibrandon/irisconns/internal/conns"
	"github.com/willibrandon/irisconns/internal/prompt"
)

type stubHandle struct {
	params conns.Params
}

func (h *stubHandle) Set(ctx context.Context, value any, global string, subscripts ...any) error {
	return nil
}

func (h *stubHandle) Get(ctx context.Context, global string, subscripts ...any) (string, error) {
	return "", nil
}

func (h *stubHandle) Kill(ctx context.Context, global string, subscripts ...any) error {
	return nil
}

func TestRegistry_ResolvesFromFiles(t *testing.T) {
	l := newLayout(t)
	writeFile(t, filepath.Join(l.cwd, "irisconns"), "[default]\nhostname = iris\nusername = _SYSTEM\n")
	writeFile(t, filepath.Join(l.home, ".irisconns"), "[default]\nhostname = ignored\n")

	var calls []conns.Params
	connector := conns.ConnectorFunc(func(ctx context.Context, p conns.Params) (conns.Handle, error) {
		calls = append(calls, p)
		return &stubHandle{params: p}, nil
	})

	in := prompt.NewLines("SYS", "SYS")
	out := &bytes.Buffer{}
	reg := conns.NewRegistry(connector, l.resolver(),
		conns.WithConsole(prompt.NewConsole(in, out)),
		conns.WithDefaultName("default"),
	)
	ctx := context.Background()

	h1, err := reg.GetByName(ctx, "")
	require.NoError(t, err)

	require.Len(t, calls, 1)
	assert.Equal(t, conns.Params{
		Hostname:  "iris",
		Port:      1972,
		Namespace: "USER",
		Username:  "_SYSTEM",
		Password:  "SYS",
	}, calls[0])
	assert.Equal(t, 2, in.Secrets, "only the password is asked for, with confirmation")
	assert.Equal(t, 0, in.Plain)

	printed := out.String()
	assert.Contains(t, printed, "# Connecting to default\n")
	assert.Contains(t, printed, "Hostname    : iris\n")
	assert.Contains(t, printed, "Port        : 1972 (default)\n")
	assert.Contains(t, printed, "Namespace   : USER (default)\n")
	assert.Contains(t, printed, "Username    : _SYSTEM\n")
	assert.NotContains(t, printed, "SYS\n")

	out.Reset()
	h2, err := reg.GetByName(ctx, "default")
	require.NoError(t, err)
	assert.Same(t, h1, h2)
	assert.Len(t, calls, 1)
	assert.Empty(t, out.String(), "a cached connection is not prompted for again")

	_, err = reg.GetByName(ctx, "missing")
	assert.ErrorIs(t, err, conns.ErrNotDeclared)
}
