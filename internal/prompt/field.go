// Package prompt implements interactive collection of configuration fields,
// including masked (non-echoing, confirmed) entry of secrets.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// LabelWidth is the display width labels are padded to.
const LabelWidth = 12

// ErrMismatch is the validation failure raised when a confirmation entry
// differs from the first entry. Field.Prompt recovers from it by asking again.
var ErrMismatch = errors.New("values don't match")

// Field describes one configurable attribute.
type Field struct {
	Key     string
	Label   string
	Default *string
	Masked  bool
}

// NewField declares a field with a default value.
func NewField(key, label, def string, masked bool) Field {
	return Field{Key: key, Label: label, Default: &def, Masked: masked}
}

// Print writes "label: value", marking values equal to the default.
// Masked fields are compared in their masked form.
func (f Field) Print(w io.Writer, v Value) {
	display := ""
	if v != nil {
		display = v.String()
	}
	if f.Masked {
		display = MaskLiteral
	}

	suffix := ""
	if f.Default != nil && display == *f.Default {
		suffix = " (default)"
	}
	fmt.Fprintf(w, "%s: %s%s\n", PadLabel(f.Label), display, suffix)
}

type promptState int

const (
	awaitingInput promptState = iota
	validating
	accepted
	retry
)

// Prompt asks for the field's value until a usable one is entered.
// Blank input yields the default when there is one and is asked again
// otherwise. Masked fields are read without echo and, when confirm is set,
// entered twice. The result is Masked for masked fields and Plain otherwise.
//
// Errors from the console's Reader, io.EOF included, end the loop.
func (f Field) Prompt(c *Console, confirm bool) (Value, error) {
	var (
		input  string
		result string
		err    error
	)

	state := awaitingInput
	for state != accepted {
		switch state {
		case awaitingInput, retry:
			input, err = f.read(c, confirm)
			if errors.Is(err, ErrMismatch) {
				c.Printf("Values don't match. Try again.\n")
				state = retry
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", f.Key, err)
			}
			state = validating

		case validating:
			input = strings.TrimSpace(input)
			switch {
			case input == "" && f.Default != nil:
				result = *f.Default
				state = accepted
			case input != "":
				result = input
				state = accepted
			default:
				state = retry
			}
		}
	}

	if f.Masked {
		return NewMasked(result), nil
	}
	return Plain(result), nil
}

// read performs one round of input for the field.
func (f Field) read(c *Console, confirm bool) (string, error) {
	c.Printf("%s: ", PadLabel(f.Label))
	if !f.Masked {
		return c.in.ReadLine()
	}

	first, err := c.in.ReadSecret()
	if err != nil {
		return "", err
	}
	if !confirm {
		return first, nil
	}

	c.Printf("%s: ", PadLabel("Confirm"))
	second, err := c.in.ReadSecret()
	if err != nil {
		return "", err
	}
	if first != second {
		return "", ErrMismatch
	}
	return first, nil
}

// PadLabel pads label to LabelWidth display columns.
func PadLabel(label string) string {
	return runewidth.FillRight(label, LabelWidth)
}
