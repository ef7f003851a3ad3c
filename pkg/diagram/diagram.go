// Package diagram provides the canonical serialization format for resolved
// memory graphs and computed layouts.
//
// The format is the hand-off between pipeline stages (CLI commands, the
// HTTP API) and external renderers. It is human-readable JSON designed for
// round-trip fidelity: resolve → export → re-import produces a structurally
// identical graph. Nothing in this package persists diagrams anywhere; it
// only moves them between processes.
package diagram

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkranz/memviz/pkg/layout"
	"github.com/pkranz/memviz/pkg/memory"
)

// Object is the serialized form of one memory object.
type Object struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Kind         string `json:"kind"` // "variable", "pointer", "reference"
	Addr         string `json:"addr"`
	Value        string `json:"value,omitempty"`
	PointsTo     string `json:"points_to,omitempty"` // target address, if resolved
	Null         bool   `json:"null,omitempty"`      // deliberate nullptr, distinct from missing points_to
	ValueConst   bool   `json:"value_const,omitempty"`
	PointerConst bool   `json:"pointer_const,omitempty"`
	Indirection  int    `json:"indirection,omitempty"`
}

// Edge is a resolved pointer/reference link between two addresses.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Diagram bundles a resolved graph with its (optional) computed positions.
type Diagram struct {
	Objects   []Object                `json:"objects"`
	Edges     []Edge                  `json:"edges,omitempty"`
	Positions map[string]layout.Point `json:"positions,omitempty"`
}

// FromGraph converts a memory graph to its serialization format. Objects
// keep declaration order; edges are derived from resolved targets.
func FromGraph(g *memory.Graph) Diagram {
	d := Diagram{Objects: make([]Object, 0, g.Len())}
	for _, o := range g.Objects() {
		d.Objects = append(d.Objects, fromObject(o))
	}
	for _, e := range g.Edges() {
		d.Edges = append(d.Edges, Edge{From: string(e.From), To: string(e.To)})
	}
	return d
}

// WithLayout attaches computed positions to a copy of the diagram.
func (d Diagram) WithLayout(res layout.Result) Diagram {
	d.Positions = make(map[string]layout.Point, len(res))
	for addr, pt := range res {
		d.Positions[string(addr)] = pt
	}
	return d
}

// ToGraph reconstructs a memory graph from its serialized form. Values come
// back as display text (numeric typing is not preserved; the value is
// display-only downstream). Returns an error for unknown kinds or duplicate
// addresses.
func (d Diagram) ToGraph() (*memory.Graph, error) {
	g := memory.NewGraph()
	for _, so := range d.Objects {
		o, err := toObject(so)
		if err != nil {
			return nil, err
		}
		if err := g.Add(o); err != nil {
			return nil, fmt.Errorf("add object %s: %w", so.Name, err)
		}
	}
	return g, nil
}

// Layout extracts the attached positions as a layout result. Returns an
// empty result if no positions were attached.
func (d Diagram) Layout() layout.Result {
	res := make(layout.Result, len(d.Positions))
	for addr, pt := range d.Positions {
		res[memory.Address(addr)] = pt
	}
	return res
}

// Marshal serializes a diagram to pretty-printed JSON bytes.
func Marshal(d Diagram) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Unmarshal deserializes JSON bytes into a diagram.
func Unmarshal(data []byte) (Diagram, error) {
	var d Diagram
	if err := json.Unmarshal(data, &d); err != nil {
		return Diagram{}, fmt.Errorf("unmarshal diagram: %w", err)
	}
	return d, nil
}

// Read decodes a diagram from an io.Reader.
func Read(r io.Reader) (Diagram, error) {
	var d Diagram
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Diagram{}, fmt.Errorf("decode diagram: %w", err)
	}
	return d, nil
}

// ReadFile reads a diagram from a JSON file.
func ReadFile(path string) (Diagram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Diagram{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}

// WriteFile writes a diagram to a JSON file with 0644 permissions.
func WriteFile(d Diagram, path string) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func fromObject(o memory.Object) Object {
	b := o.Common()
	so := Object{
		Name:       b.Name,
		Type:       b.Type,
		Kind:       o.Kind().String(),
		Addr:       string(b.Addr),
		Value:      o.Value().String(),
		ValueConst: b.ValueConst,
	}
	if p, ok := o.(*memory.Pointer); ok {
		so.PointerConst = p.PointerConst
		so.Indirection = p.Indirection
	}
	t := o.Target()
	if addr, ok := t.Address(); ok {
		so.PointsTo = string(addr)
	}
	so.Null = t.IsNull()
	return so
}

func toObject(so Object) (memory.Object, error) {
	kind, err := memory.KindFromString(so.Kind)
	if err != nil {
		return nil, err
	}

	base := memory.Base{
		Name:       so.Name,
		Type:       so.Type,
		Addr:       memory.Address(so.Addr),
		ValueConst: so.ValueConst,
	}
	var val memory.Value
	if so.Value != "" {
		val = memory.TextValue(so.Value)
	}
	target := targetOf(so)

	switch kind {
	case memory.KindVariable:
		return &memory.Variable{Base: base, Val: val}, nil
	case memory.KindPointer:
		indirection := so.Indirection
		if indirection == 0 {
			indirection = 1
		}
		return &memory.Pointer{
			Base:         base,
			Val:          val,
			To:           target,
			PointerConst: so.PointerConst,
			Indirection:  indirection,
		}, nil
	default:
		return &memory.Reference{Base: base, Val: val, To: target}, nil
	}
}

func targetOf(so Object) memory.Target {
	switch {
	case so.Null:
		return memory.NullTarget()
	case so.PointsTo != "":
		return memory.AddressTarget(memory.Address(so.PointsTo))
	default:
		return memory.Target{}
	}
}
