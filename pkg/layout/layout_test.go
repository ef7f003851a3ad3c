package layout_test

import (
	"math"
	"testing"

	"github.com/pkranz/memviz/pkg/layout"
	"github.com/pkranz/memviz/pkg/memory"
)

func resolve(t *testing.T, src string) *memory.Graph {
	t.Helper()
	g, err := memory.Resolve(src)
	if err != nil {
		t.Fatalf("Resolve(%q): %v", src, err)
	}
	return g
}

func position(t *testing.T, res layout.Result, g *memory.Graph, name string) layout.Point {
	t.Helper()
	o, ok := g.ByName(name)
	if !ok {
		t.Fatalf("object %q not found", name)
	}
	p, ok := res[o.Common().Addr]
	if !ok {
		t.Fatalf("no position for %q (%s)", name, o.Common().Addr)
	}
	return p
}

func TestComputeEmptyGraph(t *testing.T) {
	res := layout.Compute(memory.NewGraph())
	if len(res) != 0 {
		t.Errorf("empty graph produced %d positions", len(res))
	}
}

func TestComputeEveryObjectPositioned(t *testing.T) {
	g := resolve(t, "int a = 1; int *p = &a; int &r = a; int *n = nullptr; int *bad = &ghost;")
	res := layout.Compute(g)
	if len(res) != g.Len() {
		t.Fatalf("got %d positions for %d objects", len(res), g.Len())
	}
	for _, o := range g.Objects() {
		if _, ok := res[o.Common().Addr]; !ok {
			t.Errorf("no position for %s", o.Common().Name)
		}
	}
}

func TestComputePointerChainLayers(t *testing.T) {
	g := resolve(t, "int value = 100; int *p1 = &value; int **p2 = &p1; int ***p3 = &p2;")
	res := layout.Compute(g)

	// Chains flow left to right: each pointer sits strictly left of what it
	// points at, and the ultimate referent is rightmost.
	p3 := position(t, res, g, "p3")
	p2 := position(t, res, g, "p2")
	p1 := position(t, res, g, "p1")
	value := position(t, res, g, "value")

	if !(p3.X < p2.X && p2.X < p1.X && p1.X < value.X) {
		t.Errorf("chain X positions not increasing: p3=%.0f p2=%.0f p1=%.0f value=%.0f",
			p3.X, p2.X, p1.X, value.X)
	}
}

func TestComputeFanout(t *testing.T) {
	g := resolve(t, "int x = 1; int *p = &x; int *q = &x; int &r = x;")
	res := layout.Compute(g)

	x := position(t, res, g, "x")
	for _, name := range []string{"p", "q", "r"} {
		pt := position(t, res, g, name)
		if pt.X >= x.X {
			t.Errorf("%s.X = %.0f, want left of x at %.0f", name, pt.X, x.X)
		}
	}

	// The three sources share a layer, hence the same column.
	p, q, r := position(t, res, g, "p"), position(t, res, g, "q"), position(t, res, g, "r")
	if p.X != q.X || q.X != r.X {
		t.Errorf("same-layer nodes in different columns: %.0f %.0f %.0f", p.X, q.X, r.X)
	}
	if p.Y == q.Y || q.Y == r.Y || p.Y == r.Y {
		t.Errorf("same-layer nodes overlap vertically: %.0f %.0f %.0f", p.Y, q.Y, r.Y)
	}
}

func TestComputeDanglingAtFirstLayer(t *testing.T) {
	g := resolve(t, "int x = 1; int *p = &x; int *bad = &ghost;")
	res := layout.Compute(g)

	p := position(t, res, g, "p")
	bad := position(t, res, g, "bad")
	if bad.X != p.X {
		t.Errorf("dangling pointer X = %.0f, want first layer at %.0f", bad.X, p.X)
	}
}

func TestComputeEdgesPointRight(t *testing.T) {
	g := resolve(t, `int a = 1;
int b = 2;
int *pa = &a;
int *pb = &b;
int **ppa = &pa;
int &ra = a;
int *alias = pa;
`)
	res := layout.Compute(g)

	// Every resolved edge crosses to a strictly deeper column.
	for _, e := range g.Edges() {
		from, to := res[e.From], res[e.To]
		if to.X <= from.X {
			t.Errorf("edge %s -> %s: target X %.0f not right of source X %.0f",
				e.From, e.To, to.X, from.X)
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	src := "int a = 1; int b = 2; int *p = &a; int *q = &b; int **pp = &p; int &r = b;"
	g1 := resolve(t, src)
	g2 := resolve(t, src)

	r1 := layout.Compute(g1)
	r2 := layout.Compute(g2)
	if len(r1) != len(r2) {
		t.Fatalf("result sizes differ: %d vs %d", len(r1), len(r2))
	}
	for addr, p1 := range r1 {
		if p2 := r2[addr]; p1 != p2 {
			t.Errorf("%s: %+v vs %+v", addr, p1, p2)
		}
	}
}

func TestComputeNormalizedToMargin(t *testing.T) {
	g := resolve(t, "int a = 1; int *p = &a;")
	res := layout.New(layout.Options{Margin: 40}).Layout(g)

	minX, minY := math.Inf(1), math.Inf(1)
	for _, p := range res {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
	}
	if minX <= 0 || minY <= 0 {
		t.Errorf("positions not offset from origin: minX=%.0f minY=%.0f", minX, minY)
	}
	if minX != minY {
		t.Errorf("minimum coordinates not normalized to a common margin: %.0f vs %.0f", minX, minY)
	}
}

func TestComputeCycleTerminates(t *testing.T) {
	// The declaration language cannot express cycles, but a hand-built graph
	// can; the engine must still terminate and position both nodes.
	g := memory.NewGraph()
	a := &memory.Pointer{
		Base:        memory.Base{Name: "a", Type: "int", Addr: "0x1000"},
		Indirection: 1,
		To:          memory.AddressTarget("0x1004"),
	}
	b := &memory.Pointer{
		Base:        memory.Base{Name: "b", Type: "int", Addr: "0x1004"},
		Indirection: 1,
		To:          memory.AddressTarget("0x1000"),
	}
	for _, o := range []memory.Object{a, b} {
		if err := g.Add(o); err != nil {
			t.Fatal(err)
		}
	}

	res := layout.Compute(g)
	if len(res) != 2 {
		t.Fatalf("got %d positions, want 2", len(res))
	}
	if res["0x1000"] == res["0x1004"] {
		t.Error("cycle members placed at the same point")
	}
}

func TestOptionsAffectSpacing(t *testing.T) {
	g := resolve(t, "int a = 1; int *p = &a;")

	narrow := layout.New(layout.Options{CharWidth: 4}).Layout(g)
	wide := layout.New(layout.Options{CharWidth: 16}).Layout(g)

	gap := func(res layout.Result) float64 {
		pa := res[mustAddr(t, g, "a")]
		pp := res[mustAddr(t, g, "p")]
		return math.Abs(pa.X - pp.X)
	}
	if gap(wide) <= gap(narrow) {
		t.Errorf("wider characters should spread layers: narrow=%.0f wide=%.0f",
			gap(narrow), gap(wide))
	}
}

func mustAddr(t *testing.T, g *memory.Graph, name string) memory.Address {
	t.Helper()
	o, ok := g.ByName(name)
	if !ok {
		t.Fatalf("object %q not found", name)
	}
	return o.Common().Addr
}
