package memory

import (
	"fmt"

	memerr "github.com/pkranz/memviz/pkg/errors"
)

// addrBase is the first synthetic address handed out in a resolution run.
// addrStep spaces consecutive addresses so they read like word-aligned
// memory locations.
const (
	addrBase = 0x1000
	addrStep = 4
)

// resolution carries the per-call state of one Resolve invocation: the
// monotonically increasing address counter. A fresh resolution is created at
// the start of every call, so concurrent resolutions never interfere and
// identical input always yields identical addresses.
type resolution struct {
	next int
}

func (rc *resolution) nextAddr() Address {
	a := Address(fmt.Sprintf("0x%04X", addrBase+addrStep*rc.next))
	rc.next++
	return a
}

// Resolver turns declaration text into a memory graph. A Resolver holds no
// cross-call state; the zero value is ready to use and a single instance is
// safe for concurrent use.
type Resolver struct{}

// NewResolver creates a resolver.
func NewResolver() *Resolver { return &Resolver{} }

// Resolve parses the source text into an ordered memory graph. Statements
// are processed in source order; comments and blank statements produce no
// object. Identifier lookups see only objects declared strictly earlier, so
// the language has no forward references.
//
// Malformed statements do not abort resolution: they are collected as
// [errors.SyntaxError] values and returned as an aggregated
// [errors.SyntaxErrors] alongside the partial graph. Unresolved identifiers
// are not errors - they yield objects with an absent target.
func (r *Resolver) Resolve(src string) (*Graph, error) {
	g := NewGraph()
	rc := resolution{}
	var errs memerr.SyntaxErrors

	for _, stmt := range splitStatements(src) {
		obj, err := parseStatement(stmt.text, g, &rc)
		if err != nil {
			errs = append(errs, &memerr.SyntaxError{
				Line:    stmt.line,
				Snippet: stmt.text,
				Reason:  err.Error(),
			})
			continue
		}
		// Add cannot fail here: addresses come from the run counter.
		_ = g.Add(obj)
	}

	if len(errs) > 0 {
		return g, errs
	}
	return g, nil
}

// Resolve is a convenience wrapper around a throwaway [Resolver].
func Resolve(src string) (*Graph, error) {
	return NewResolver().Resolve(src)
}

// expr is the parsed right-hand side of a declaration.
type expr struct {
	kind    exprKind
	ident   string // for exprIdent, exprAddrOf, exprDeref
	literal string // for exprLiteral
}

type exprKind int

const (
	exprLiteral exprKind = iota // number, float, or string literal
	exprIdent                   // bare identifier
	exprAddrOf                  // &IDENT
	exprDeref                   // *IDENT
	exprNull                    // nullptr, NULL, or 0
)

// parseStatement parses and resolves a single declaration against the
// already-resolved prefix of the graph.
func parseStatement(text string, g *Graph, rc *resolution) (Object, error) {
	toks, err := scanStatement(text)
	if err != nil {
		return nil, err
	}
	p := parser{toks: toks}

	leadingConst := p.accept(tokConst)

	typeName, ok := p.ident()
	if !ok {
		return nil, fmt.Errorf("expected type name")
	}

	stars := 0
	starConst := false
	for p.accept(tokStar) {
		stars++
		if p.accept(tokConst) {
			starConst = true
		}
	}

	isRef := p.accept(tokAmp)
	refConst := false
	if isRef {
		refConst = p.accept(tokConst)
	}

	name, ok := p.ident()
	if !ok {
		return nil, fmt.Errorf("expected identifier")
	}
	if !p.accept(tokAssign) {
		return nil, fmt.Errorf("expected '='")
	}

	rhs, err := p.expr()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fmt.Errorf("unexpected %s after expression", p.peek())
	}

	base := Base{
		Name:       name,
		Type:       typeName,
		Addr:       rc.nextAddr(),
		ValueConst: leadingConst || (isRef && refConst),
	}

	switch {
	case isRef:
		return resolveReference(base, rhs, g), nil
	case stars > 0:
		return resolvePointer(base, rhs, g, stars, starConst), nil
	default:
		return resolveVariable(base, rhs), nil
	}
}

// resolveVariable builds a plain variable. Literals are parsed integer →
// float → de-quoted string; anything else keeps its raw token text.
func resolveVariable(base Base, rhs expr) Object {
	var val Value
	switch rhs.kind {
	case exprLiteral, exprNull:
		// "0" is a null sentinel only for pointers; for a variable it is
		// just the integer literal.
		val = ParseLiteral(rhs.literal)
	case exprIdent:
		val = TextValue(rhs.ident)
	case exprAddrOf:
		val = TextValue("&" + rhs.ident)
	case exprDeref:
		val = TextValue("*" + rhs.ident)
	}
	return &Variable{Base: base, Val: val}
}

// resolvePointer builds a pointer. The target is an earlier-declared
// object's address for "&ident", the null sentinel for nullptr/NULL/0, a
// copy of another pointer's target for a bare identifier, or absent when
// the right-hand side cannot be resolved. The display value mirrors the
// target.
func resolvePointer(base Base, rhs expr, g *Graph, stars int, starConst bool) Object {
	p := &Pointer{Base: base, Indirection: stars, PointerConst: starConst}
	switch rhs.kind {
	case exprNull:
		p.To = NullTarget()
		p.Val = TextValue("nullptr")
	case exprAddrOf:
		if target, ok := g.ByName(rhs.ident); ok {
			p.To = AddressTarget(target.Common().Addr)
			p.Val = TextValue(string(target.Common().Addr))
		}
	case exprIdent:
		// Pointer-to-pointer assignment aliases the earlier pointer's
		// target.
		if src, ok := g.ByName(rhs.ident); ok {
			if src.Kind() != KindVariable {
				p.To = src.Target()
				p.Val = src.Value()
			}
		}
	case exprDeref:
		if addr, ok := derefOnce(g, rhs.ident); ok {
			p.To = AddressTarget(addr)
			p.Val = TextValue(string(addr))
		}
	}
	return p
}

// resolveReference builds a reference. A bare identifier binds directly to
// that object's address and copies its value; "*ident" follows the named
// object's target one level and binds there.
func resolveReference(base Base, rhs expr, g *Graph) Object {
	r := &Reference{Base: base}
	switch rhs.kind {
	case exprIdent:
		if target, ok := g.ByName(rhs.ident); ok {
			r.To = AddressTarget(target.Common().Addr)
			r.Val = target.Value()
		}
	case exprDeref:
		if addr, ok := derefOnce(g, rhs.ident); ok {
			r.To = AddressTarget(addr)
			if pointee, ok := g.ByAddress(addr); ok {
				r.Val = pointee.Value()
			}
		}
	}
	return r
}

// derefOnce follows the named object's target one level and returns the
// address it points at, if resolvable.
func derefOnce(g *Graph, ident string) (Address, bool) {
	o, ok := g.ByName(ident)
	if !ok {
		return "", false
	}
	return o.Target().Address()
}

// parser is a minimal cursor over a token slice.
type parser struct {
	toks []token
	pos  int
}

func (p *parser) done() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() string {
	if p.done() {
		return "end of statement"
	}
	return p.toks[p.pos].kind.String()
}

func (p *parser) accept(k tokenKind) bool {
	if !p.done() && p.toks[p.pos].kind == k {
		p.pos++
		return true
	}
	return false
}

func (p *parser) ident() (string, bool) {
	if !p.done() && p.toks[p.pos].kind == tokIdent {
		t := p.toks[p.pos].text
		p.pos++
		return t, true
	}
	return "", false
}

// expr parses the right-hand side of a declaration.
func (p *parser) expr() (expr, error) {
	if p.done() {
		return expr{}, fmt.Errorf("expected expression")
	}
	t := p.toks[p.pos]
	switch t.kind {
	case tokAmp:
		p.pos++
		id, ok := p.ident()
		if !ok {
			return expr{}, fmt.Errorf("expected identifier after '&'")
		}
		return expr{kind: exprAddrOf, ident: id}, nil
	case tokStar:
		p.pos++
		id, ok := p.ident()
		if !ok {
			return expr{}, fmt.Errorf("expected identifier after '*'")
		}
		return expr{kind: exprDeref, ident: id}, nil
	case tokIdent:
		p.pos++
		if t.text == "nullptr" || t.text == "NULL" {
			return expr{kind: exprNull, literal: t.text}, nil
		}
		return expr{kind: exprIdent, ident: t.text}, nil
	case tokNumber:
		p.pos++
		if t.text == "0" {
			return expr{kind: exprNull, literal: t.text}, nil
		}
		return expr{kind: exprLiteral, literal: t.text}, nil
	case tokString:
		p.pos++
		return expr{kind: exprLiteral, literal: t.text}, nil
	default:
		return expr{}, fmt.Errorf("unexpected %s in expression", t.kind)
	}
}
