// Package globals holds what the globals stores share: subscript path
// encoding and the undefined-node error.
//
// A node is addressed by a global name and zero or more subscripts, e.g.
// ^test(1,"a"). Subscripts are stored as one string joined by Separator so
// that a node and all its descendants share a common prefix.
package globals

import (
	"errors"
	"fmt"
	"strings"
)

// Separator joins encoded subscripts.
const Separator = "\x1f"

// ErrUndefined is returned by Get for a node that holds no value.
var ErrUndefined = errors.New("undefined node")

// ErrInvalidName is returned for an empty global name.
var ErrInvalidName = errors.New("global name must not be empty")

// ErrInvalidSubscript is returned for a subscript that renders empty or
// contains Separator. Either would alias another node's path.
var ErrInvalidSubscript = errors.New("invalid subscript")

// Path returns the stored form of subscripts. The root node is "".
// Callers validate subscripts with Check first.
func Path(subscripts ...any) string {
	parts := make([]string, len(subscripts))
	for i, s := range subscripts {
		parts[i] = fmt.Sprint(s)
	}
	return strings.Join(parts, Separator)
}

// DescendantPrefix returns the prefix shared by every node below path.
func DescendantPrefix(path string) string {
	if path == "" {
		return ""
	}
	return path + Separator
}

// Value renders a value for storage.
func Value(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Ref renders a node reference for messages, e.g. ^test(1,a).
func Ref(global string, subscripts ...any) string {
	if len(subscripts) == 0 {
		return "^" + global
	}
	parts := make([]string, len(subscripts))
	for i, s := range subscripts {
		parts[i] = fmt.Sprint(s)
	}
	return "^" + global + "(" + strings.Join(parts, ",") + ")"
}

// Check validates a node reference before it is read or written.
func Check(global string, subscripts ...any) error {
	if err := CheckName(global); err != nil {
		return err
	}
	for i, s := range subscripts {
		part := fmt.Sprint(s)
		if part == "" || strings.Contains(part, Separator) {
			return fmt.Errorf("%w %d of %s: %q", ErrInvalidSubscript, i+1, Ref(global, subscripts...), part)
		}
	}
	return nil
}

// CheckName validates a global name.
func CheckName(global string) error {
	if strings.TrimSpace(global) == "" {
		return ErrInvalidName
	}
	return nil
}
