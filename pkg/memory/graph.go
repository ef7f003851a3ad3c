package memory

import "errors"

var (
	// ErrNilObject is returned by [Graph.Add] when the object is nil.
	ErrNilObject = errors.New("object must not be nil")

	// ErrInvalidAddress is returned by [Graph.Add] when the object has an
	// empty address. Every object must carry a synthetic address.
	ErrInvalidAddress = errors.New("object address must not be empty")

	// ErrDuplicateAddress is returned by [Graph.Add] when an object with
	// the same address already exists. Addresses are unique within a run.
	ErrDuplicateAddress = errors.New("duplicate object address")
)

// Graph is the ordered sequence of memory objects produced by one
// resolution, plus a derived address index. Declaration order is significant
// and preserved: lookups by name search the sequence front to back and
// return the first match, so duplicate names resolve to the earliest
// declaration.
//
// The zero value is not usable - use NewGraph. Graph is not safe for
// concurrent mutation; resolved graphs are effectively immutable and can be
// read from multiple goroutines.
type Graph struct {
	objects []Object
	byAddr  map[Address]Object
}

// Edge is a resolved pointer/reference link between two objects, identified
// by their addresses. Null and absent targets produce no edge.
type Edge struct {
	From Address
	To   Address
}

// NewGraph creates an empty memory graph.
func NewGraph() *Graph {
	return &Graph{byAddr: make(map[Address]Object)}
}

// Add appends an object to the declaration sequence and indexes it by
// address. Returns ErrNilObject, ErrInvalidAddress, or ErrDuplicateAddress
// on invalid input.
func (g *Graph) Add(o Object) error {
	if o == nil {
		return ErrNilObject
	}
	addr := o.Common().Addr
	if addr == "" {
		return ErrInvalidAddress
	}
	if _, exists := g.byAddr[addr]; exists {
		return ErrDuplicateAddress
	}
	g.objects = append(g.objects, o)
	g.byAddr[addr] = o
	return nil
}

// Objects returns the objects in declaration order. The returned slice is
// shared with the graph and must not be modified.
func (g *Graph) Objects() []Object { return g.objects }

// Len returns the number of objects.
func (g *Graph) Len() int { return len(g.objects) }

// ByAddress returns the object at the given address and true, or nil and
// false if no object has that address.
func (g *Graph) ByAddress(a Address) (Object, bool) {
	o, ok := g.byAddr[a]
	return o, ok
}

// ByName returns the first object with the given name in declaration order,
// and true, or nil and false if none matches. First-match semantics mean
// shadowing is not modeled: later duplicates are simply never found.
func (g *Graph) ByName(name string) (Object, bool) {
	for _, o := range g.objects {
		if o.Common().Name == name {
			return o, true
		}
	}
	return nil, false
}

// Edges returns the pointer/reference edges implied by resolved targets, in
// declaration order of the source objects. Null sentinels and absent targets
// contribute no edge; a resolved target always refers to an earlier-declared
// object because the language has no forward references.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, o := range g.objects {
		if to, ok := o.Target().Address(); ok {
			edges = append(edges, Edge{From: o.Common().Addr, To: to})
		}
	}
	return edges
}
