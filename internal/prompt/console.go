package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Reader supplies operator input one line at a time.
type Reader interface {
	// ReadLine reads one echoed line without the trailing newline.
	ReadLine() (string, error)
	// ReadSecret reads one line without echoing it.
	ReadSecret() (string, error)
}

// Console pairs an input source with the writer prompts and labels go to.
type Console struct {
	in  Reader
	out io.Writer
}

// NewConsole creates a console reading from in and writing to out.
func NewConsole(in Reader, out io.Writer) *Console {
	if out == nil {
		out = io.Discard
	}
	return &Console{in: in, out: out}
}

// Stdio returns a console attached to the process terminal.
func Stdio() *Console {
	return NewConsole(NewTerminal(os.Stdin, os.Stdout), os.Stdout)
}

// Out returns the console's output writer.
func (c *Console) Out() io.Writer {
	return c.out
}

// Printf writes formatted text to the console.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Terminal reads from a file descriptor. Secrets are read with echo disabled
// when the file is a terminal and as plain lines otherwise, so piped input
// still works.
type Terminal struct {
	file   *os.File
	out    io.Writer
	reader *bufio.Reader
}

// NewTerminal creates a Terminal reading from f. The newline swallowed by a
// hidden read is written to out.
func NewTerminal(f *os.File, out io.Writer) *Terminal {
	return &Terminal{
		file:   f,
		out:    out,
		reader: bufio.NewReader(f),
	}
}

// ReadLine reads one line from the terminal.
func (t *Terminal) ReadLine() (string, error) {
	return readLine(t.reader)
}

// ReadSecret reads one line with echo disabled.
func (t *Terminal) ReadSecret() (string, error) {
	fd := int(t.file.Fd())
	if !term.IsTerminal(fd) {
		return readLine(t.reader)
	}

	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(t.out) // Print newline after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(secret), nil
}

// Lines is a scripted Reader. Each call to ReadLine or ReadSecret consumes
// the next entry; io.EOF is returned once they run out.
type Lines struct {
	lines   []string
	Secrets int // number of ReadSecret calls served
	Plain   int // number of ReadLine calls served
}

// NewLines creates a scripted Reader.
func NewLines(lines ...string) *Lines {
	return &Lines{lines: lines}
}

// ReadLine returns the next scripted line.
func (l *Lines) ReadLine() (string, error) {
	s, err := l.next()
	if err == nil {
		l.Plain++
	}
	return s, err
}

// ReadSecret returns the next scripted line.
func (l *Lines) ReadSecret() (string, error) {
	s, err := l.next()
	if err == nil {
		l.Secrets++
	}
	return s, err
}

// Remaining returns the number of unread lines.
func (l *Lines) Remaining() int {
	return len(l.lines)
}

func (l *Lines) next() (string, error) {
	if len(l.lines) == 0 {
		return "", io.EOF
	}
	s := l.lines[0]
	l.lines = l.lines[1:]
	return s, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		// A final unterminated line still counts.
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
