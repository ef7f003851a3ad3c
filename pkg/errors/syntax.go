package errors

import (
	"fmt"
	"strings"
)

// SyntaxError describes a single statement that matched none of the
// recognized declaration shapes. Line is 1-based and refers to the line of
// the input text where the statement starts; Snippet is the offending
// statement with surrounding whitespace trimmed.
type SyntaxError struct {
	Line    int
	Snippet string
	Reason  string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Snippet)
	}
	return fmt.Sprintf("line %d: unrecognized declaration: %q", e.Line, e.Snippet)
}

// SyntaxErrors aggregates every malformed statement found during one
// resolution pass. Resolution continues past malformed statements so all
// of them can be reported at once.
type SyntaxErrors []*SyntaxError

// Error implements the error interface.
func (e SyntaxErrors) Error() string {
	switch len(e) {
	case 0:
		return "no syntax errors"
	case 1:
		return e[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d syntax errors:", len(e))
	for _, se := range e {
		b.WriteString("\n\t")
		b.WriteString(se.Error())
	}
	return b.String()
}

// Unwrap exposes the individual syntax errors to errors.Is/As.
func (e SyntaxErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, se := range e {
		errs[i] = se
	}
	return errs
}
