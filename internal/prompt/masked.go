package prompt

import (
	"fmt"
	"log/slog"
)

// MaskLiteral is what a Masked value displays as, whatever it holds.
const MaskLiteral = "****"

// Value is a field value produced by a prompt: either Plain or Masked.
type Value interface {
	// String returns the display form.
	String() string
	// Reveal returns the underlying value.
	Reveal() string
}

// Plain is an unmasked field value.
type Plain string

func (p Plain) String() string { return string(p) }

// Reveal returns the value itself.
func (p Plain) Reveal() string { return string(p) }

// Masked holds a secret that only ever displays as MaskLiteral.
// The zero value is an absent secret.
type Masked struct {
	value string
}

// NewMasked wraps value.
func NewMasked(value string) Masked {
	return Masked{value: value}
}

// String always returns MaskLiteral.
func (m Masked) String() string { return MaskLiteral }

// GoString keeps %#v from leaking the value.
func (m Masked) GoString() string { return MaskLiteral }

// Format renders MaskLiteral for every verb.
func (m Masked) Format(f fmt.State, _ rune) {
	_, _ = f.Write([]byte(MaskLiteral))
}

// LogValue implements slog.LogValuer.
func (m Masked) LogValue() slog.Value {
	return slog.StringValue(MaskLiteral)
}

// MarshalText renders MaskLiteral so encoders never see the secret.
func (m Masked) MarshalText() ([]byte, error) {
	return []byte(MaskLiteral), nil
}

// Reveal returns the wrapped secret.
func (m Masked) Reveal() string { return m.value }

// IsSet reports whether a non-empty secret is held.
func (m Masked) IsSet() bool { return m.value != "" }
