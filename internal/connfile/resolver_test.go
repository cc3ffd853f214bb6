package connfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willibrandon/irisconns/internal/conns"
)

// layout is a working directory nested two levels under a root, plus a
// separate home directory.
type layout struct {
	root, mid, cwd, home string
}

func newLayout(t *testing.T) layout {
	t.Helper()

	base := t.TempDir()
	l := layout{
		root: filepath.Join(base, "root"),
		home: filepath.Join(base, "home"),
	}
	l.mid = filepath.Join(l.root, "mid")
	l.cwd = filepath.Join(l.mid, "cwd")
	require.NoError(t, os.MkdirAll(l.cwd, 0755))
	require.NoError(t, os.MkdirAll(l.home, 0755))
	return l
}

func (l layout) resolver() *Resolver {
	return &Resolver{
		Getwd: func() (string, error) { return l.cwd, nil },
		Home:  func() (string, error) { return l.home, nil },
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCandidateDirectories_Order(t *testing.T) {
	l := newLayout(t)

	dirs, err := l.resolver().CandidateDirectories()
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(dirs), 4)
	assert.Equal(t, l.cwd, dirs[0], "working directory comes first")
	assert.Equal(t, l.home, dirs[len(dirs)-1], "home comes last")
	assert.Equal(t, l.mid, dirs[len(dirs)-2], "immediate parent is the last ancestor")
	assert.Equal(t, l.root, dirs[len(dirs)-3])

	root := dirs[1]
	assert.Equal(t, root, filepath.Dir(root), "first ancestor is the filesystem root")
	assert.NotContains(t, dirs[1:], l.cwd, "working directory is not repeated")
}

func TestCandidateDirectories_HomeOnChain(t *testing.T) {
	l := newLayout(t)
	r := l.resolver()
	r.Home = func() (string, error) { return l.root, nil }

	dirs, err := r.CandidateDirectories()
	require.NoError(t, err)

	assert.Equal(t, l.root, dirs[len(dirs)-1], "home is appended even when it is an ancestor")
	count := 0
	for _, d := range dirs {
		if d == l.root {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestCandidateDirectories_NoHome(t *testing.T) {
	l := newLayout(t)
	r := l.resolver()
	r.Home = func() (string, error) { return "", errors.New("no home") }

	dirs, err := r.CandidateDirectories()
	require.NoError(t, err)
	assert.Equal(t, l.mid, dirs[len(dirs)-1])
}

func TestCandidateFiles(t *testing.T) {
	l := newLayout(t)
	writeFile(t, filepath.Join(l.cwd, ".irisconns"), "")
	writeFile(t, filepath.Join(l.cwd, "irisconns"), "")
	writeFile(t, filepath.Join(l.root, "irisconns"), "")
	writeFile(t, filepath.Join(l.home, ".irisconns"), "")
	// Directories with the right name are not candidates.
	require.NoError(t, os.Mkdir(filepath.Join(l.mid, "irisconns"), 0755))

	files, err := l.resolver().CandidateFiles()
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(l.cwd, "irisconns"),
		filepath.Join(l.cwd, ".irisconns"),
		filepath.Join(l.root, "irisconns"),
		filepath.Join(l.home, ".irisconns"),
	}, files)
}

func TestLoadConfig_Defaults(t *testing.T) {
	l := newLayout(t)
	writeFile(t, filepath.Join(l.cwd, "irisconns"), "[default]\nhostname=iris\nusername=_SYSTEM\n")

	cfg, err := l.resolver().LoadConfig("default")
	require.NoError(t, err)

	assert.Equal(t, "iris", cfg.Hostname)
	assert.Equal(t, "1972", cfg.Port)
	assert.Equal(t, "USER", cfg.Namespace)
	assert.Equal(t, "_SYSTEM", cfg.Username)
	assert.False(t, cfg.Password.IsSet())
	assert.True(t, cfg.Confirm)
	assert.False(t, cfg.Filled())
}

func TestLoadConfig_NearestFileWins(t *testing.T) {
	l := newLayout(t)
	writeFile(t, filepath.Join(l.cwd, ".irisconns"), "[TEST]\nhostname=cwd-host\n")
	writeFile(t, filepath.Join(l.root, "irisconns"), "[TEST]\nhostname=root-host\n[ROOTONLY]\nhostname=root-host\n")
	writeFile(t, filepath.Join(l.home, "irisconns"), "[TEST]\nhostname=home-host\n[HOMEONLY]\nport=51773\n")

	r := l.resolver()

	cfg, err := r.LoadConfig("TEST")
	require.NoError(t, err)
	assert.Equal(t, "cwd-host", cfg.Hostname)

	cfg, err = r.LoadConfig("ROOTONLY")
	require.NoError(t, err)
	assert.Equal(t, "root-host", cfg.Hostname)

	cfg, err = r.LoadConfig("HOMEONLY")
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Hostname)
	assert.Equal(t, "51773", cfg.Port)
}

func TestLoadConfig_AncestorOrderRootFirst(t *testing.T) {
	l := newLayout(t)
	writeFile(t, filepath.Join(l.root, "irisconns"), "[X]\nnamespace=ROOT\n")
	writeFile(t, filepath.Join(l.mid, "irisconns"), "[X]\nnamespace=MID\n")

	cfg, err := l.resolver().LoadConfig("X")
	require.NoError(t, err)
	assert.Equal(t, "ROOT", cfg.Namespace)
}

func TestLoadConfig_FirstMatchingFileOnly(t *testing.T) {
	l := newLayout(t)
	// The winning file has no port; a later file's port must not leak in.
	writeFile(t, filepath.Join(l.cwd, "irisconns"), "[A]\nhostname=one\n")
	writeFile(t, filepath.Join(l.home, "irisconns"), "[A]\nhostname=two\nport=9999\n")

	cfg, err := l.resolver().LoadConfig("A")
	require.NoError(t, err)
	assert.Equal(t, "one", cfg.Hostname)
	assert.Equal(t, "1972", cfg.Port)
}

func TestLoadConfig_Syntax(t *testing.T) {
	l := newLayout(t)
	writeFile(t, filepath.Join(l.cwd, "irisconns"), `# comment
; another comment
[DEFAULT]
namespace = SHARED

[dev]
HostName : dev.example.com
port = 1973
username = app%(user)s # not a comment
confirm = no

[Dev]
hostname = upper
`)

	r := l.resolver()

	cfg, err := r.LoadConfig("dev")
	require.NoError(t, err)
	assert.Equal(t, "dev.example.com", cfg.Hostname, "keys are case-insensitive and ':' is a delimiter")
	assert.Equal(t, "1973", cfg.Port)
	assert.Equal(t, "SHARED", cfg.Namespace, "[DEFAULT] supplies missing keys")
	assert.Equal(t, "app%(user)s # not a comment", cfg.Username, "no interpolation, no inline comments")
	assert.False(t, cfg.Confirm)

	cfg, err = r.LoadConfig("Dev")
	require.NoError(t, err)
	assert.Equal(t, "upper", cfg.Hostname, "section names are case-sensitive")

	_, err = r.LoadConfig("DEFAULT")
	assert.ErrorIs(t, err, conns.ErrNotDeclared, "[DEFAULT] is not a connection")
}

func TestLoadConfig_ValuesAreRaw(t *testing.T) {
	l := newLayout(t)
	writeFile(t, filepath.Join(l.cwd, "irisconns"), "[q]\nhostname = \"iris\"\nusername = a\\\nnamespace = NS\nport = '1972'\n")

	cfg, err := l.resolver().LoadConfig("q")
	require.NoError(t, err)
	assert.Equal(t, `"iris"`, cfg.Hostname, "surrounding quotes are kept")
	assert.Equal(t, `a\`, cfg.Username, "a trailing backslash does not continue the line")
	assert.Equal(t, "NS", cfg.Namespace)
	assert.Equal(t, "'1972'", cfg.Port)
}

func TestParse_RejectsAmbiguousFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"well formed", "[a]\nhostname = x\n[b]\nhostname = y\n", false},
		{"explicit default section", "[DEFAULT]\nport = 1\n[a]\nhostname = x\n", false},
		{"sections differing in case", "[a]\nhostname = x\n[A]\nhostname = y\n", false},
		{"repeated section", "[a]\nhostname = x\n[b]\n[a]\nport = 2\n", true},
		{"repeated key", "[a]\nhostname = x\nhostname = y\n", true},
		{"repeated key differing in case", "[a]\nhostname = x\nHostName = x\n", true},
		{"key before any header", "hostname = x\n[a]\n", true},
		{"unclosed header", "[a\nhostname = x\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "irisconns")
			writeFile(t, path, tt.content)

			_, err := Parse(path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedFile)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_NotDeclared(t *testing.T) {
	l := newLayout(t)
	writeFile(t, filepath.Join(l.cwd, "irisconns"), "[other]\nhostname=x\n")

	cfg, err := l.resolver().LoadConfig("missing")
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, conns.ErrNotDeclared)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	l := newLayout(t)
	writeFile(t, filepath.Join(l.cwd, "irisconns"), "[broken\nthis is not ini\n")
	writeFile(t, filepath.Join(l.home, "irisconns"), "[default]\nhostname=home\n")

	t.Run("skipped by default", func(t *testing.T) {
		cfg, err := l.resolver().LoadConfig("default")
		require.NoError(t, err)
		assert.Equal(t, "home", cfg.Hostname)
	})

	t.Run("surfaced in strict mode", func(t *testing.T) {
		r := l.resolver()
		r.Strict = true
		_, err := r.LoadConfig("default")
		assert.ErrorIs(t, err, ErrMalformedFile)
	})

	t.Run("reported by Check", func(t *testing.T) {
		failures, err := l.resolver().Check()
		require.NoError(t, err)
		assert.Len(t, failures, 1)
		assert.Contains(t, failures, filepath.Join(l.cwd, "irisconns"))
	})
}

func TestParseConfirm(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"No", false},
		{"OFF", false},
		{"0", false},
		{"f", false},
		{"n", false},
		{" false ", false},
		{"FALSE", false},
		{"true", true},
		{"", true},
		{"yes", true},
		{"1", true},
		{"nope", true},
		{"disabled", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := ParseConfirm(tt.value); got != tt.want {
				t.Errorf("ParseConfirm(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
