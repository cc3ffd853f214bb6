// Package connfile locates irisconns files and loads connection
// declarations from them.
//
// Files are searched in the working directory, then in each ancestor from
// the filesystem root down to the working directory's parent, then in the
// home directory. In each directory "irisconns" is read before ".irisconns".
// The first file declaring the requested section wins.
package connfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/willibrandon/irisconns/internal/conns"
	"github.com/willibrandon/irisconns/internal/logger"
	"gopkg.in/ini.v1"
)

// FileNames are the names looked for in every candidate directory, in order.
var FileNames = []string{"irisconns", ".irisconns"}

// ErrMalformedFile wraps read and parse failures. LoadConfig returns it only
// in strict mode and skips the file otherwise.
var ErrMalformedFile = errors.New("malformed connections file")

// falseTokens are the confirm values that turn confirmation off.
var falseTokens = map[string]bool{
	"false": true,
	"no":    true,
	"off":   true,
	"f":     true,
	"n":     true,
	"0":     true,
}

// Resolver loads connection declarations from layered files.
type Resolver struct {
	// Getwd returns the working directory. Defaults to os.Getwd.
	Getwd func() (string, error)
	// Home returns the home directory. Defaults to os.UserHomeDir.
	Home func() (string, error)
	// Strict makes unreadable or unparseable files an error instead of
	// skipping them.
	Strict bool
}

// NewResolver returns a resolver rooted at the process working directory.
func NewResolver() *Resolver {
	return &Resolver{
		Getwd: os.Getwd,
		Home:  os.UserHomeDir,
	}
}

// CandidateDirectories returns the directories searched, in order.
func (r *Resolver) CandidateDirectories() ([]string, error) {
	getwd := r.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	home := r.Home
	if home == nil {
		home = os.UserHomeDir
	}

	cwd, err := getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}
	cwd, err = filepath.Abs(cwd)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	dirs := []string{cwd}

	var ancestors []string
	for dir := filepath.Dir(cwd); ; dir = filepath.Dir(dir) {
		ancestors = append(ancestors, dir)
		if filepath.Dir(dir) == dir {
			break
		}
	}
	if cwd == filepath.Dir(cwd) {
		// cwd is the root and has no ancestors.
		ancestors = nil
	}
	for i := len(ancestors) - 1; i >= 0; i-- {
		dirs = append(dirs, ancestors[i])
	}

	homeDir, err := home()
	if err != nil {
		logger.Debug("Home directory unavailable, skipping", "error", err)
		return dirs, nil
	}
	return append(dirs, homeDir), nil
}

// CandidateFiles returns the existing regular files searched, in order.
func (r *Resolver) CandidateFiles() ([]string, error) {
	dirs, err := r.CandidateDirectories()
	if err != nil {
		return nil, err
	}

	var files []string
	for _, dir := range dirs {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if IsRegularFile(path) {
				files = append(files, path)
			}
		}
	}
	return files, nil
}

// LoadConfig returns the configuration declared under name by the first
// candidate file that declares it. The search stops at that file.
func (r *Resolver) LoadConfig(name string) (*conns.Config, error) {
	// ini.v1 maps "" to the default section, which is never a connection.
	if name == "" || name == ini.DefaultSection {
		return nil, fmt.Errorf("%w: %q", conns.ErrNotDeclared, name)
	}

	files, err := r.CandidateFiles()
	if err != nil {
		return nil, err
	}

	for _, path := range files {
		f, err := Parse(path)
		if err != nil {
			if r.Strict {
				return nil, err
			}
			logger.Warn("Skipping unreadable connections file", "path", path, "error", err)
			continue
		}

		section, err := f.GetSection(name)
		if err != nil {
			continue
		}

		logger.Debug("Connection declared", "name", name, "path", path)
		return configFromSection(f, section), nil
	}

	return nil, fmt.Errorf("%w: %q", conns.ErrNotDeclared, name)
}

// loadOptions keep values as written: keys are case-insensitive, and there
// are no inline comments, continuations or quote stripping. Repeated
// sections and keys are kept apart so validate can reject them.
var loadOptions = ini.LoadOptions{
	InsensitiveKeys:            true,
	IgnoreInlineComment:        true,
	IgnoreContinuation:         true,
	PreserveSurroundedQuote:    true,
	AllowNonUniqueSections:     true,
	AllowShadows:               true,
	AllowDuplicateShadowValues: true,
}

// Parse reads one connections file.
func Parse(path string) (*ini.File, error) {
	f, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrMalformedFile, path, err)
	}
	if err := validate(f); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrMalformedFile, path, err)
	}
	return f, nil
}

// validate rejects keys above the first section header, repeated section
// headers and repeated keys within a section.
func validate(f *ini.File) error {
	sections := f.Sections()
	if len(sections) == 0 {
		return nil
	}

	// The parser always opens an implicit default section first.
	if keys := sections[0].Keys(); len(keys) > 0 {
		return fmt.Errorf("key %q appears before any section header", keys[0].Name())
	}

	seen := make(map[string]bool)
	for _, section := range sections[1:] {
		if seen[section.Name()] {
			return fmt.Errorf("section %q is repeated", section.Name())
		}
		seen[section.Name()] = true

		for _, key := range section.Keys() {
			if len(key.ValueWithShadows()) > 1 {
				return fmt.Errorf("key %q is repeated in section %q", key.Name(), section.Name())
			}
		}
	}
	return nil
}

// Check parses every candidate file and returns the errors for those that fail.
func (r *Resolver) Check() (map[string]error, error) {
	files, err := r.CandidateFiles()
	if err != nil {
		return nil, err
	}

	failures := make(map[string]error)
	for _, path := range files {
		if _, err := Parse(path); err != nil {
			failures[path] = err
		}
	}
	return failures, nil
}

// ParseConfirm maps a confirm setting to a bool. Only the tokens false, no,
// off, f, n and 0 (any case, surrounding space ignored) mean false.
func ParseConfirm(value string) bool {
	return !falseTokens[strings.ToLower(strings.TrimSpace(value))]
}

func configFromSection(f *ini.File, section *ini.Section) *conns.Config {
	// KeysHash holds raw values and only the section's own keys.
	own := section.KeysHash()
	defaults := make(map[string]string)
	if section.Name() != ini.DefaultSection {
		// An explicit [DEFAULT] header follows the implicit default section.
		if secs, err := f.SectionsByName(ini.DefaultSection); err == nil {
			for _, d := range secs {
				for k, v := range d.KeysHash() {
					defaults[k] = v
				}
			}
		}
	}

	get := func(key, def string) string {
		if v, ok := own[key]; ok {
			return v
		}
		// Values in [DEFAULT] apply to every section.
		if v, ok := defaults[key]; ok {
			return v
		}
		return def
	}

	return &conns.Config{
		Hostname:  get("hostname", conns.DefaultHostname),
		Port:      get("port", conns.DefaultPort),
		Namespace: get("namespace", conns.DefaultNamespace),
		Username:  get("username", ""),
		Confirm:   ParseConfirm(get("confirm", "true")),
	}
}

// IsRegularFile reports whether path exists and is a regular file.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
