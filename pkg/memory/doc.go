// Package memory resolves a small declaration language into a typed
// memory-object graph for pointer/reference teaching diagrams.
//
// # Overview
//
// The input language is a simplified subset of C++ declarations: plain
// variables, pointers (with arbitrary indirection levels and positional
// const qualifiers), and references. Each statement declares exactly one
// object; the resolver assigns every object a deterministic synthetic
// address and resolves right-hand sides against the objects declared
// strictly earlier in the text.
//
//	int value = 100;
//	int *p1 = &value;
//	int **p2 = &p1;
//	const int &ref = value;
//
// # Resolution semantics
//
// Identifier lookup is first-match-by-name over the declared prefix: the
// language has no forward references and no block scoping, and duplicate
// names legally shadow nothing - later duplicates are simply never found.
//
// Pointers distinguish three target states: a concrete earlier-declared
// address, the null sentinel ("nullptr", "NULL", or the literal 0), and the
// absent target for right-hand sides that could not be resolved. A dangling
// reference is representable, not fatal, so partially-invalid snippets
// still produce a graph.
//
// Malformed statements are collected as structured syntax errors with line
// numbers and returned alongside the partial graph; see [Resolver.Resolve].
//
// # Concurrency
//
// Resolvers hold no cross-call state: the address counter lives in a
// per-call resolution context, so concurrent Resolve calls never interfere.
// Resolved graphs are immutable and safe for concurrent reads.
package memory
