// Package render turns resolved graphs and computed layouts into output
// artifacts.
//
// Two visualization types are supported:
//
//   - boxes: the canonical memory-diagram view. Each object is a labeled
//     box placed at the coordinates the layout engine computed; resolved
//     pointers and references become arrows between boxes. The SVG is
//     built directly, no external tool involved.
//   - nodelink: a compact graph view rendered through Graphviz. Positions
//     come from Graphviz itself, so this view ignores the computed layout.
//
// All renderers are pure functions of their inputs.
package render
