// Package layout computes positioned diagrams for memory graphs using a
// simplified Sugiyama-style hierarchical pipeline.
//
// # Overview
//
// Each memory object becomes a node keyed by its address; each resolved,
// non-null pointer or reference target becomes a directed edge from the
// pointing object to its pointee. The engine assigns every node a discrete
// layer so that targets always sit strictly deeper than the objects
// pointing at them - a chain like pp → p → value reads left to right.
//
// Within layers, nodes start in deterministic name order and are then
// reordered by a small fixed number of alternating median sweeps to reduce
// edge crossings. Spacing adapts to the widest node footprint and to
// structural density, with every factor clamped to a fixed band. A final
// alignment pass straightens single-in/single-out chains, and coordinates
// are normalized so the diagram hugs its margin.
//
// # Cycles
//
// A pointer graph is not guaranteed acyclic. The layering traversal marks
// each node unvisited, visiting, or done; a node revisited while still
// being computed contributes layer 0 instead of recursing, which breaks
// cycles deterministically without rejecting the input. The traversal is
// iterative, so arbitrarily long indirection chains cannot overflow the
// stack.
//
// # Determinism
//
// The engine never mutates the input graph, holds no state between calls,
// and uses only ordered traversals, so identical graphs always produce
// identical coordinates.
package layout
