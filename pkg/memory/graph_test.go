package memory

import (
	"errors"
	"testing"
)

func TestGraphAddValidation(t *testing.T) {
	g := NewGraph()

	if err := g.Add(nil); !errors.Is(err, ErrNilObject) {
		t.Errorf("Add(nil) = %v, want ErrNilObject", err)
	}
	if err := g.Add(&Variable{}); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("Add without address = %v, want ErrInvalidAddress", err)
	}

	v := &Variable{Base: Base{Name: "x", Type: "int", Addr: "0x1000"}, Val: IntValue(1)}
	if err := g.Add(v); err != nil {
		t.Fatalf("Add: %v", err)
	}
	dup := &Variable{Base: Base{Name: "y", Type: "int", Addr: "0x1000"}}
	if err := g.Add(dup); !errors.Is(err, ErrDuplicateAddress) {
		t.Errorf("duplicate add = %v, want ErrDuplicateAddress", err)
	}
	if g.Len() != 1 {
		t.Errorf("Len() = %d after rejected adds, want 1", g.Len())
	}
}

func TestGraphLookups(t *testing.T) {
	g := NewGraph()
	first := &Variable{Base: Base{Name: "x", Type: "int", Addr: "0x1000"}, Val: IntValue(1)}
	second := &Variable{Base: Base{Name: "x", Type: "int", Addr: "0x1004"}, Val: IntValue(2)}
	for _, o := range []Object{first, second} {
		if err := g.Add(o); err != nil {
			t.Fatal(err)
		}
	}

	o, ok := g.ByName("x")
	if !ok || o.Common().Addr != "0x1000" {
		t.Errorf("ByName returned %v, want first declaration", o)
	}
	if _, ok := g.ByName("ghost"); ok {
		t.Error("ByName should miss unknown names")
	}

	if o, ok := g.ByAddress("0x1004"); !ok || o != Object(second) {
		t.Errorf("ByAddress(0x1004) = %v, %v", o, ok)
	}
	if _, ok := g.ByAddress("0xdead"); ok {
		t.Error("ByAddress should miss unknown addresses")
	}
}

func TestGraphEdges(t *testing.T) {
	g := NewGraph()
	objs := []Object{
		&Variable{Base: Base{Name: "a", Type: "int", Addr: "0x1000"}, Val: IntValue(1)},
		&Pointer{Base: Base{Name: "p", Type: "int", Addr: "0x1004"}, Indirection: 1, To: AddressTarget("0x1000")},
		&Pointer{Base: Base{Name: "n", Type: "int", Addr: "0x1008"}, Indirection: 1, To: NullTarget()},
		&Pointer{Base: Base{Name: "d", Type: "int", Addr: "0x100C"}, Indirection: 1},
		&Reference{Base: Base{Name: "r", Type: "int", Addr: "0x1010"}, To: AddressTarget("0x1000")},
	}
	for _, o := range objs {
		if err := g.Add(o); err != nil {
			t.Fatal(err)
		}
	}

	edges := g.Edges()
	want := []Edge{
		{From: "0x1004", To: "0x1000"},
		{From: "0x1010", To: "0x1000"},
	}
	if len(edges) != len(want) {
		t.Fatalf("got %d edges, want %d: %v", len(edges), len(want), edges)
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Errorf("edge %d = %v, want %v", i, edges[i], want[i])
		}
	}
}
