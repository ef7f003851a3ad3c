package memory

import (
	"fmt"
	"strings"
)

// Description is the display text for one object, used by renderers for box
// labels and by the layout engine to estimate node footprints.
type Description struct {
	Title    string // "p : int*"
	Detail   string // "pointer to int, pointer const"
	ValueRow string // "= 42", "→ 0x1004", "nullptr", "?"
}

// Describe builds the display text for an object.
func Describe(o Object) Description {
	b := o.Common()
	d := Description{
		Title:  fmt.Sprintf("%s : %s", b.Name, TypeString(o)),
		Detail: detailLine(o),
	}

	switch o.Kind() {
	case KindVariable:
		if v := o.Value(); !v.IsZero() {
			d.ValueRow = "= " + v.String()
		}
	default:
		t := o.Target()
		switch {
		case t.IsNull():
			d.ValueRow = "nullptr"
		case t.IsAbsent():
			d.ValueRow = "?"
		default:
			addr, _ := t.Address()
			d.ValueRow = "→ " + string(addr)
		}
	}
	return d
}

// Lines returns the non-empty rows of the description, top to bottom.
func (d Description) Lines() []string {
	lines := make([]string, 0, 3)
	for _, s := range []string{d.Title, d.Detail, d.ValueRow} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

// Widest returns the rune length of the longest row. Renderless callers use
// this with a per-character width estimate to approximate the box footprint.
func (d Description) Widest() int {
	w := 0
	for _, s := range d.Lines() {
		if n := len([]rune(s)); n > w {
			w = n
		}
	}
	return w
}

func detailLine(o Object) string {
	b := o.Common()
	var parts []string
	switch v := o.(type) {
	case *Pointer:
		parts = append(parts, fmt.Sprintf("pointer to %s", pointeeType(b.Type, v.Indirection)))
		if b.ValueConst {
			parts = append(parts, "value const")
		}
		if v.PointerConst {
			parts = append(parts, "pointer const")
		}
	case *Reference:
		parts = append(parts, fmt.Sprintf("reference to %s", b.Type))
		if b.ValueConst {
			parts = append(parts, "read-only")
		}
	default:
		if b.ValueConst {
			parts = append(parts, "constant")
		}
	}
	return strings.Join(parts, ", ")
}

// pointeeType spells out what a pointer of the given indirection level
// ultimately points at, e.g. indirection 2 over "int" points to "int*".
func pointeeType(baseType string, indirection int) string {
	return baseType + strings.Repeat("*", indirection-1)
}
