package memory

import (
	"errors"
	"testing"

	memerr "github.com/pkranz/memviz/pkg/errors"
)

func mustResolve(t *testing.T, src string) *Graph {
	t.Helper()
	g, err := Resolve(src)
	if err != nil {
		t.Fatalf("Resolve(%q): %v", src, err)
	}
	return g
}

func byName(t *testing.T, g *Graph, name string) Object {
	t.Helper()
	o, ok := g.ByName(name)
	if !ok {
		t.Fatalf("object %q not found", name)
	}
	return o
}

func TestResolveVariablePointerReference(t *testing.T) {
	g := mustResolve(t, "int a = 42; int *p = &a; int &ref = a;")

	if g.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", g.Len())
	}

	a := byName(t, g, "a")
	p := byName(t, g, "p")
	ref := byName(t, g, "ref")

	if a.Kind() != KindVariable {
		t.Errorf("a.Kind() = %v, want variable", a.Kind())
	}
	if v, ok := a.Value().Int(); !ok || v != 42 {
		t.Errorf("a.Value() = %v, want 42", a.Value())
	}

	if p.Kind() != KindPointer {
		t.Errorf("p.Kind() = %v, want pointer", p.Kind())
	}
	if addr, ok := p.Target().Address(); !ok || addr != a.Common().Addr {
		t.Errorf("p targets %v, want %v", p.Target(), a.Common().Addr)
	}

	if ref.Kind() != KindReference {
		t.Errorf("ref.Kind() = %v, want reference", ref.Kind())
	}
	if addr, ok := ref.Target().Address(); !ok || addr != a.Common().Addr {
		t.Errorf("ref targets %v, want %v", ref.Target(), a.Common().Addr)
	}
	if ref.Value().String() != "42" {
		t.Errorf("ref.Value() = %q, want copy of a's value", ref.Value().String())
	}
}

func TestResolvePointerChain(t *testing.T) {
	g := mustResolve(t, "int value = 100; int *p1 = &value; int **p2 = &p1; int ***p3 = &p2;")

	value := byName(t, g, "value")
	p1 := byName(t, g, "p1").(*Pointer)
	p2 := byName(t, g, "p2").(*Pointer)
	p3 := byName(t, g, "p3").(*Pointer)

	if p1.Indirection != 1 || p2.Indirection != 2 || p3.Indirection != 3 {
		t.Errorf("indirection = %d,%d,%d, want 1,2,3", p1.Indirection, p2.Indirection, p3.Indirection)
	}

	wantTargets := []struct {
		p    *Pointer
		addr Address
	}{
		{p1, value.Common().Addr},
		{p2, p1.Addr},
		{p3, p2.Addr},
	}
	for _, wt := range wantTargets {
		if addr, ok := wt.p.Target().Address(); !ok || addr != wt.addr {
			t.Errorf("%s targets %v, want %v", wt.p.Name, wt.p.Target(), wt.addr)
		}
	}
}

func TestResolveNullPointer(t *testing.T) {
	for _, src := range []string{
		"int *p = nullptr;",
		"int *p = NULL;",
		"int *p = 0;",
	} {
		g := mustResolve(t, src)
		p := byName(t, g, "p")
		if !p.Target().IsNull() {
			t.Errorf("%q: target = %v, want null sentinel", src, p.Target())
		}
		if len(g.Edges()) != 0 {
			t.Errorf("%q: null pointer should produce no edge", src)
		}
	}
}

func TestResolveNullIsNotAbsent(t *testing.T) {
	g := mustResolve(t, "int *null_p = nullptr; int *dangling = &ghost;")

	if byName(t, g, "null_p").Target().IsAbsent() {
		t.Error("nullptr should be the null sentinel, not absent")
	}
	d := byName(t, g, "dangling")
	if !d.Target().IsAbsent() {
		t.Errorf("dangling target = %v, want absent", d.Target())
	}
	if d.Target().IsNull() {
		t.Error("dangling should not be confused with null")
	}
}

func TestResolveConstPlacement(t *testing.T) {
	g := mustResolve(t, "int val = 1; const int *cp = &val; int* const pc = &val; const int* const both = &val;")

	cp := byName(t, g, "cp").(*Pointer)
	if !cp.ValueConst || cp.PointerConst {
		t.Errorf("cp: valueConst=%v pointerConst=%v, want true/false", cp.ValueConst, cp.PointerConst)
	}

	pc := byName(t, g, "pc").(*Pointer)
	if pc.ValueConst || !pc.PointerConst {
		t.Errorf("pc: valueConst=%v pointerConst=%v, want false/true", pc.ValueConst, pc.PointerConst)
	}

	both := byName(t, g, "both").(*Pointer)
	if !both.ValueConst || !both.PointerConst {
		t.Errorf("both: valueConst=%v pointerConst=%v, want true/true", both.ValueConst, both.PointerConst)
	}
}

func TestResolveConstReference(t *testing.T) {
	g := mustResolve(t, "int x = 5; const int &cr = x; int& const rc = x;")

	cr := byName(t, g, "cr")
	if !cr.Common().ValueConst {
		t.Error("leading const on a reference should set value const")
	}
	rc := byName(t, g, "rc")
	if !rc.Common().ValueConst {
		t.Error("const after '&' should set value const")
	}
}

func TestResolveDanglingPointer(t *testing.T) {
	g := mustResolve(t, "int x = 3; int *bad = &missing;")

	bad := byName(t, g, "bad")
	if !bad.Target().IsAbsent() {
		t.Errorf("bad target = %v, want absent", bad.Target())
	}
	if len(g.Edges()) != 0 {
		t.Error("dangling pointer should produce no edge")
	}
}

func TestResolveNoForwardReferences(t *testing.T) {
	g := mustResolve(t, "int *p = &later; int later = 1;")

	p := byName(t, g, "p")
	if !p.Target().IsAbsent() {
		t.Errorf("forward lookup should fail, target = %v", p.Target())
	}
}

func TestResolveDuplicateNamesFirstMatchWins(t *testing.T) {
	g := mustResolve(t, "int x = 1; int x = 2; int *p = &x;")

	first := g.Objects()[0]
	p := byName(t, g, "p")
	if addr, ok := p.Target().Address(); !ok || addr != first.Common().Addr {
		t.Errorf("p targets %v, want the first x at %v", p.Target(), first.Common().Addr)
	}
}

func TestResolveAddressesDeterministic(t *testing.T) {
	src := "int a = 1; int *b = &a; int &c = a;"
	g1 := mustResolve(t, src)
	g2 := mustResolve(t, src)

	want := []Address{"0x1000", "0x1004", "0x1008"}
	for i, o := range g1.Objects() {
		if o.Common().Addr != want[i] {
			t.Errorf("object %d addr = %s, want %s", i, o.Common().Addr, want[i])
		}
		if g2.Objects()[i].Common().Addr != o.Common().Addr {
			t.Errorf("object %d addr differs between runs", i)
		}
	}
}

func TestResolvePointerAliasing(t *testing.T) {
	g := mustResolve(t, "int x = 7; int *p = &x; int *q = p;")

	p := byName(t, g, "p")
	q := byName(t, g, "q")
	pAddr, _ := p.Target().Address()
	qAddr, ok := q.Target().Address()
	if !ok || qAddr != pAddr {
		t.Errorf("q should copy p's target, got %v want %v", q.Target(), p.Target())
	}
}

func TestResolvePointerFromVariableName(t *testing.T) {
	// A bare variable name is not an address; the pointer stays unresolved.
	g := mustResolve(t, "int x = 7; int *p = x;")

	p := byName(t, g, "p")
	if !p.Target().IsAbsent() {
		t.Errorf("p target = %v, want absent", p.Target())
	}
}

func TestResolveDerefExpression(t *testing.T) {
	g := mustResolve(t, "int x = 9; int *p = &x; int &r = *p; int *q = *p;")

	x := byName(t, g, "x")
	r := byName(t, g, "r")
	if addr, ok := r.Target().Address(); !ok || addr != x.Common().Addr {
		t.Errorf("r = *p should bind to x, got %v", r.Target())
	}
	if r.Value().String() != "9" {
		t.Errorf("r should copy the pointee's value, got %q", r.Value().String())
	}
	q := byName(t, g, "q")
	if addr, ok := q.Target().Address(); !ok || addr != x.Common().Addr {
		t.Errorf("q = *p should point at x, got %v", q.Target())
	}
}

func TestResolveCommentsAndBlankStatements(t *testing.T) {
	src := `// setup
int x = 1; // trailing comment

int *p = &x;
`
	g := mustResolve(t, src)
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}
}

func TestResolveSlashesInStringLiteral(t *testing.T) {
	g := mustResolve(t, `string url = "http://example.com"; // homepage`)
	if g.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", g.Len())
	}
	if got := byName(t, g, "url").Value().String(); got != `"http://example.com"` {
		t.Errorf("url value = %s, want %q", got, "http://example.com")
	}
}

func TestResolveSemicolonInStringLiteral(t *testing.T) {
	g := mustResolve(t, `string sep = "a;b";`)
	if g.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", g.Len())
	}
	if got := byName(t, g, "sep").Value().String(); got != `"a;b"` {
		t.Errorf("sep value = %s, want %q", got, "a;b")
	}
}

func TestResolveMultiLineStatement(t *testing.T) {
	g := mustResolve(t, "int\n  wrapped\n  = 42;")
	if g.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", g.Len())
	}
	if v, ok := byName(t, g, "wrapped").Value().Int(); !ok || v != 42 {
		t.Errorf("wrapped value = %v, want 42", byName(t, g, "wrapped").Value())
	}
}

func TestResolveSyntaxErrorsAggregated(t *testing.T) {
	src := "int = 5;\nint ok = 1;\nbogus;\n"
	g, err := Resolve(src)
	if err == nil {
		t.Fatal("expected syntax errors")
	}

	var serrs memerr.SyntaxErrors
	if !errors.As(err, &serrs) {
		t.Fatalf("error type = %T, want SyntaxErrors", err)
	}
	if len(serrs) != 2 {
		t.Fatalf("got %d syntax errors, want 2: %v", len(serrs), serrs)
	}
	if serrs[0].Line != 1 {
		t.Errorf("first error line = %d, want 1", serrs[0].Line)
	}
	if serrs[1].Line != 3 {
		t.Errorf("second error line = %d, want 3", serrs[1].Line)
	}

	// The valid statement still resolves into the partial graph.
	if g == nil {
		t.Fatal("partial graph should be returned alongside the errors")
	}
	if g.Len() != 1 {
		t.Fatalf("partial graph Len() = %d, want 1", g.Len())
	}
	if _, ok := g.ByName("ok"); !ok {
		t.Error("valid statement missing from partial graph")
	}
}

func TestResolveTrailingTokensRejected(t *testing.T) {
	_, err := Resolve("int x = 1 2;")
	if err == nil {
		t.Error("trailing tokens after the expression should be a syntax error")
	}
}

func TestResolveUnterminatedStatement(t *testing.T) {
	// A final statement without ';' is still processed.
	g := mustResolve(t, "int x = 1")
	if g.Len() != 1 {
		t.Errorf("Len() = %d, want 1", g.Len())
	}
}

func TestResolveEmptyInput(t *testing.T) {
	for _, src := range []string{"", "   \n\n", "// only a comment\n"} {
		g := mustResolve(t, src)
		if g.Len() != 0 {
			t.Errorf("%q: Len() = %d, want 0", src, g.Len())
		}
	}
}

func TestResolveIdempotent(t *testing.T) {
	src := "double pi = 3.14; double *p = &pi;"
	r := NewResolver()

	g1, err := r.Resolve(src)
	if err != nil {
		t.Fatal(err)
	}
	g2, err := r.Resolve(src)
	if err != nil {
		t.Fatal(err)
	}

	if g1.Len() != g2.Len() {
		t.Fatalf("lengths differ: %d vs %d", g1.Len(), g2.Len())
	}
	for i := range g1.Objects() {
		a, b := g1.Objects()[i], g2.Objects()[i]
		if a.Common().Addr != b.Common().Addr {
			t.Errorf("object %d: addr %s vs %s", i, a.Common().Addr, b.Common().Addr)
		}
		if a.Value().String() != b.Value().String() {
			t.Errorf("object %d: value %q vs %q", i, a.Value().String(), b.Value().String())
		}
	}
}

func TestTypeString(t *testing.T) {
	g := mustResolve(t, "const int lim = 9; int n = 1; int **pp = &n; int* const pc = &n; double &r = lim;")

	tests := []struct {
		name string
		want string
	}{
		{"lim", "const int"},
		{"pp", "int**"},
		{"pc", "int* const"},
		{"r", "double&"},
	}
	for _, tt := range tests {
		o := byName(t, g, tt.name)
		if got := TypeString(o); got != tt.want {
			t.Errorf("TypeString(%s) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
