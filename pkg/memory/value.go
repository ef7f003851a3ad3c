package memory

import (
	"strconv"
	"strings"
)

// ValueKind discriminates the representations a literal can take.
type ValueKind int

const (
	// ValueNone is the zero value: no value is known.
	ValueNone ValueKind = iota
	// ValueInt is an integer literal.
	ValueInt
	// ValueFloat is a decimal literal.
	ValueFloat
	// ValueString is a de-quoted string literal.
	ValueString
	// ValueText is raw token text that matched no literal lexeme
	// (e.g. an identifier on the right-hand side, or a mirrored address).
	ValueText
)

// Value is an immutable literal attached to a memory object for display.
// The zero value means "no value".
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	s    string
}

// IntValue returns an integer value.
func IntValue(i int64) Value { return Value{kind: ValueInt, i: i} }

// FloatValue returns a decimal value.
func FloatValue(f float64) Value { return Value{kind: ValueFloat, f: f} }

// StringValue returns a de-quoted string value.
func StringValue(s string) Value { return Value{kind: ValueString, s: s} }

// TextValue returns a raw-text value.
func TextValue(s string) Value { return Value{kind: ValueText, s: s} }

// ParseLiteral parses a literal token: integer first, then decimal, then a
// de-quoted string if the token is quoted, otherwise the raw token text.
func ParseLiteral(tok string) Value {
	if tok == "" {
		return Value{}
	}
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return IntValue(i)
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil && strings.ContainsAny(tok, ".eE") {
		return FloatValue(f)
	}
	if len(tok) >= 2 {
		if (tok[0] == '"' && tok[len(tok)-1] == '"') || (tok[0] == '\'' && tok[len(tok)-1] == '\'') {
			return StringValue(tok[1 : len(tok)-1])
		}
	}
	return TextValue(tok)
}

// Kind returns the value's representation kind.
func (v Value) Kind() ValueKind { return v.kind }

// IsZero reports whether no value is known.
func (v Value) IsZero() bool { return v.kind == ValueNone }

// Int returns the integer representation and true if the value is an integer.
func (v Value) Int() (int64, bool) { return v.i, v.kind == ValueInt }

// Float returns the decimal representation and true if the value is a decimal.
func (v Value) Float() (float64, bool) { return v.f, v.kind == ValueFloat }

// String returns the display form of the value. String values are rendered
// with surrounding quotes; absent values render as the empty string.
func (v Value) String() string {
	switch v.kind {
	case ValueInt:
		return strconv.FormatInt(v.i, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case ValueString:
		return `"` + v.s + `"`
	case ValueText:
		return v.s
	default:
		return ""
	}
}
