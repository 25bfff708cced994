package form

import (
	"strings"

	"github.com/goccy/go-json"
)

// Value is the current answer of one field. The implementations are Scalar
// and Multi.
type Value interface {
	// IsZero reports whether the value counts as "no answer".
	IsZero() bool
	// String coerces the value to text, joining Multi entries with ",".
	String() string
	// Strings returns the value as a list of strings.
	Strings() []string
	value()
}

// Scalar is the value of text, tel, email, date, textarea, dropdown and radio
// fields.
type Scalar string

// IsZero implements Value.
func (s Scalar) IsZero() bool { return s == "" }

// String implements Value.
func (s Scalar) String() string { return string(s) }

// Strings implements Value.
func (s Scalar) Strings() []string {
	if s == "" {
		return nil
	}
	return []string{string(s)}
}

func (Scalar) value() {}

// Multi is the value of checkbox groups, kept in selection order.
type Multi []string

// IsZero implements Value.
func (m Multi) IsZero() bool { return len(m) == 0 }

// String implements Value.
func (m Multi) String() string { return strings.Join(m, ",") }

// Strings implements Value.
func (m Multi) Strings() []string { return append([]string(nil), m...) }

// Contains reports whether option is selected.
func (m Multi) Contains(option string) bool {
	for _, v := range m {
		if v == option {
			return true
		}
	}
	return false
}

// Toggle returns a copy with option added (checked) or removed (unchecked).
// Adding an option already present is a no-op.
func (m Multi) Toggle(option string, checked bool) Multi {
	out := make(Multi, 0, len(m)+1)
	for _, v := range m {
		if v == option {
			if checked {
				out = append(out, v)
			}
			continue
		}
		out = append(out, v)
	}
	if checked && !m.Contains(option) {
		out = append(out, option)
	}
	return out
}

// MarshalJSON encodes an empty selection as [] rather than null.
func (m Multi) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(m))
}

func (Multi) value() {}

// Clone returns an independent copy of v. A nil Value clones to nil.
func Clone(v Value) Value {
	switch typed := v.(type) {
	case Multi:
		if typed == nil {
			return Multi(nil)
		}
		return append(Multi(nil), typed...)
	case Scalar:
		return typed
	default:
		return nil
	}
}
