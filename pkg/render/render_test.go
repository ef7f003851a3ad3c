package render

import (
	"strings"
	"testing"

	"github.com/pkranz/memviz/pkg/layout"
	"github.com/pkranz/memviz/pkg/memory"
)

func resolve(t *testing.T, src string) *memory.Graph {
	t.Helper()
	g, err := memory.Resolve(src)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return g
}

func TestBoxesSVG(t *testing.T) {
	g := resolve(t, "int x = 42; int* p = &x;")
	res := layout.Compute(g)

	svg := string(BoxesSVG(g, res, BoxesOptions{}))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Error("missing svg header")
	}
	for _, want := range []string{"x : int", "p : int*", "42", "marker-end", "</svg>"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	// One resolved edge, one arrow path.
	if got := strings.Count(svg, `marker-end="url(#arrow)"`); got != 1 {
		t.Errorf("arrow count = %d, want 1", got)
	}
}

func TestBoxesSVGNullPointerHasNoArrow(t *testing.T) {
	g := resolve(t, "int* p = nullptr;")
	res := layout.Compute(g)

	svg := string(BoxesSVG(g, res, BoxesOptions{}))
	if strings.Contains(svg, `marker-end="url(#arrow)"`) {
		t.Error("null pointer should not produce an arrow")
	}
	if !strings.Contains(svg, "nullptr") {
		t.Error("null pointer box should show nullptr")
	}
}

func TestBoxesSVGEscapesLabels(t *testing.T) {
	g := resolve(t, `string s = "<tag>";`)
	res := layout.Compute(g)

	svg := string(BoxesSVG(g, res, BoxesOptions{}))
	if strings.Contains(svg, "<tag>") {
		t.Error("label text must be escaped")
	}
	if !strings.Contains(svg, "&lt;tag&gt;") {
		t.Error("expected escaped label text")
	}
}

func TestToDOT(t *testing.T) {
	g := resolve(t, "int x = 1; int* p = &x; int* q = nullptr;")

	dot := ToDOT(g)

	if !strings.HasPrefix(dot, "digraph memory {") {
		t.Error("missing digraph header")
	}
	for _, want := range []string{`"0x1000"`, `"0x1004"`, `"0x1008"`, `"0x1004" -> "0x1000";`} {
		if !strings.Contains(dot, want) {
			t.Errorf("dot missing %q", want)
		}
	}
	// Null pointer contributes a node but no edge.
	if strings.Contains(dot, `"0x1008" ->`) {
		t.Error("null pointer should not produce an edge")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("unexpected viewBox in %q", out)
	}
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("unexpected size in %q", out)
	}

	// SVGs without a viewBox pass through untouched.
	plain := []byte("<svg><g/></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}
