package memory

import "fmt"

// Kind identifies the declaration kind of a memory object.
type Kind int

const (
	// KindVariable is a plain variable holding a literal value.
	KindVariable Kind = iota
	// KindPointer is a pointer variable with one or more levels of indirection.
	KindPointer
	// KindReference is a reference bound permanently to another object.
	KindReference
)

// String returns the lowercase kind name used in serialization and display.
func (k Kind) String() string {
	switch k {
	case KindPointer:
		return "pointer"
	case KindReference:
		return "reference"
	default:
		return "variable"
	}
}

// Address is a synthetic memory address assigned once at declaration time.
// Addresses are unique within a resolution run and never reused or mutated.
// The format ("0x1000", "0x1004", ...) is stable for identical input because
// the address counter restarts for every resolution.
type Address string

// Target is the resolved destination of a pointer or reference. It
// distinguishes three cases that renderers must treat differently:
//
//   - absent: the right-hand side could not be resolved (dangling), or the
//     object is a plain variable — no arrow is drawn
//   - null: the pointer was deliberately set to nullptr — no arrow is drawn
//   - address: a concrete earlier-declared object — an arrow is drawn
//
// The zero value is the absent target.
type Target struct {
	kind targetKind
	addr Address
}

type targetKind int

const (
	targetAbsent targetKind = iota
	targetNull
	targetAddress
)

// NullTarget returns the null sentinel, meaning "deliberately null" as
// opposed to "could not be resolved".
func NullTarget() Target { return Target{kind: targetNull} }

// AddressTarget returns a target pointing at a concrete address.
func AddressTarget(a Address) Target { return Target{kind: targetAddress, addr: a} }

// IsNull reports whether the target is the null sentinel.
func (t Target) IsNull() bool { return t.kind == targetNull }

// IsAbsent reports whether the target is absent (dangling or not applicable).
func (t Target) IsAbsent() bool { return t.kind == targetAbsent }

// Address returns the concrete target address and true, or "" and false for
// the null sentinel and the absent target.
func (t Target) Address() (Address, bool) {
	if t.kind == targetAddress {
		return t.addr, true
	}
	return "", false
}

// String returns a display form: the address, "nullptr", or "<unresolved>".
func (t Target) String() string {
	switch t.kind {
	case targetNull:
		return "nullptr"
	case targetAddress:
		return string(t.addr)
	default:
		return "<unresolved>"
	}
}

// Base holds the fields shared by every declared object. Objects are created
// exactly once by the resolver, in declaration order, and are immutable
// afterwards.
type Base struct {
	Name       string  // identifier as written; duplicates are legal
	Type       string  // base type name as written ("int", "double")
	Addr       Address // synthetic address, unique within a run
	ValueConst bool    // whether the held/pointed-to value is immutable
}

// Common returns the shared fields. It exists so that code holding an
// [Object] can reach the base fields without a type switch.
func (b *Base) Common() *Base { return b }

// Object is the closed set of declared entities: [Variable], [Pointer], or
// [Reference]. Fields that only make sense for one kind (indirection level,
// pointer constness) live on that variant alone, so invalid combinations are
// unrepresentable.
type Object interface {
	Common() *Base
	Kind() Kind
	// Target returns where the object points. Variables always return the
	// absent target.
	Target() Target
	// Value returns the display value: the literal for variables, the
	// target address or "nullptr" for pointers, and a copy of the bound
	// object's value for references.
	Value() Value

	object() // closed set marker
}

// Variable is a plain variable holding a literal value.
type Variable struct {
	Base
	Val Value
}

// Kind returns KindVariable.
func (v *Variable) Kind() Kind { return KindVariable }

// Target returns the absent target; variables do not point anywhere.
func (v *Variable) Target() Target { return Target{} }

// Value returns the variable's literal value.
func (v *Variable) Value() Value { return v.Val }

func (v *Variable) object() {}

// Pointer is a pointer variable. Indirection counts the '*' tokens in the
// declaration (>= 1). PointerConst marks a 'const' after the star sequence
// ("int* const p"), while Base.ValueConst marks a 'const' before the base
// type ("const int *p"); both may be set independently.
type Pointer struct {
	Base
	Val          Value
	To           Target
	PointerConst bool
	Indirection  int
}

// Kind returns KindPointer.
func (p *Pointer) Kind() Kind { return KindPointer }

// Target returns the resolved target, the null sentinel, or absent.
func (p *Pointer) Target() Target { return p.To }

// Value returns the pointer's display value (mirrors the target).
func (p *Pointer) Value() Value { return p.Val }

func (p *Pointer) object() {}

// Reference is a reference bound to another object at declaration time.
// The binding is permanently fixed by language rule; const qualifiers on a
// reference only ever affect Base.ValueConst.
type Reference struct {
	Base
	Val Value
	To  Target
}

// Kind returns KindReference.
func (r *Reference) Kind() Kind { return KindReference }

// Target returns the bound object's address, or absent if the right-hand
// side could not be resolved.
func (r *Reference) Target() Target { return r.To }

// Value returns a copy of the bound object's value.
func (r *Reference) Value() Value { return r.Val }

func (r *Reference) object() {}

// TypeString renders the declared type of an object the way it would appear
// in source, e.g. "const int", "int**", "double&".
func TypeString(o Object) string {
	b := o.Common()
	s := b.Type
	switch v := o.(type) {
	case *Pointer:
		for i := 0; i < v.Indirection; i++ {
			s += "*"
		}
		if v.PointerConst {
			s += " const"
		}
	case *Reference:
		s += "&"
	}
	if b.ValueConst {
		s = "const " + s
	}
	return s
}

// KindFromString parses a serialized kind name. It returns an error for
// unknown names so corrupted diagram files fail loudly.
func KindFromString(s string) (Kind, error) {
	switch s {
	case "variable":
		return KindVariable, nil
	case "pointer":
		return KindPointer, nil
	case "reference":
		return KindReference, nil
	}
	return 0, fmt.Errorf("unknown object kind %q", s)
}
