package layout

import (
	"math"

	"github.com/pkranz/memviz/pkg/memory"
)

// Point is a node position in diagram coordinates. X grows with the layer
// index (left to right along indirection chains), Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Result maps each object address to its final position. The layout engine
// never mutates the input graph; the result is owned by the caller.
type Result map[memory.Address]Point

// Options tunes the spacing heuristics. Zero fields fall back to the
// corresponding Default* constant.
type Options struct {
	// CharWidth is the per-character width estimate used to approximate a
	// node's footprint from its longest display string.
	CharWidth float64
	// Padding is the horizontal padding inside a node box.
	Padding float64
	// Margin is the base outer margin; it scales with graph size within a
	// fixed band.
	Margin float64
	// AlignThreshold caps the vertical nudge applied to pass-through
	// nodes during alignment refinement.
	AlignThreshold float64
}

// Default spacing parameters.
const (
	DefaultCharWidth      = 8.0
	DefaultPadding        = 24.0
	DefaultMargin         = 40.0
	DefaultAlignThreshold = 56.0
)

// withDefaults fills zero fields with defaults.
func (o Options) withDefaults() Options {
	if o.CharWidth == 0 {
		o.CharWidth = DefaultCharWidth
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.AlignThreshold == 0 {
		o.AlignThreshold = DefaultAlignThreshold
	}
	return o
}

// Engine computes positioned layouts for memory graphs. An Engine holds
// only its options: every call is a pure function of the input graph, so a
// single instance is safe for concurrent use.
type Engine struct {
	opts Options
}

// New creates a layout engine. Zero option fields use defaults.
func New(opts Options) *Engine {
	return &Engine{opts: opts.withDefaults()}
}

// Compute lays out a graph with default options.
func Compute(g *memory.Graph) Result {
	return New(Options{}).Layout(g)
}

// node is the engine's working view of one memory object.
type node struct {
	addr       memory.Address
	name       string
	labelWidth int   // longest display row, in runes
	layer      int   // assigned by assignLayers
	in         []int // indices of nodes pointing at this one
	out        []int // indices of nodes this one points at
	x, y       float64
}

// Layout computes a position for every object in the graph:
//
//  1. Layering: each node sits one layer past its deepest incoming source;
//     cycles are broken deterministically during the traversal.
//  2. Initial ordering: name-sorted within each layer.
//  3. Crossing reduction: alternating median sweeps.
//  4. Adaptive spacing from footprint and density signals.
//  5. Placement on the layer grid, layers centered vertically.
//  6. Alignment refinement for single-in/single-out pass-through nodes.
//  7. Normalization so the minimum coordinates equal the margin.
//
// Given an identical graph, repeated calls produce identical coordinates.
func (e *Engine) Layout(g *memory.Graph) Result {
	objects := g.Objects()
	if len(objects) == 0 {
		return Result{}
	}

	nodes, edgeCount := buildNodes(g)
	assignLayers(nodes)
	groups := layerGroups(nodes)
	orderLayers(nodes, groups)

	sp := computeSpacing(e.opts, nodes, groups, edgeCount)
	place(nodes, groups, sp)
	alignChains(nodes, groups, e.opts.AlignThreshold)
	normalize(nodes, sp.margin)

	result := make(Result, len(nodes))
	for _, n := range nodes {
		result[n.addr] = Point{X: n.x, Y: n.y}
	}
	return result
}

// buildNodes converts graph objects into working nodes with index-based
// adjacency. Only resolved, non-null targets become edges.
func buildNodes(g *memory.Graph) ([]*node, int) {
	objects := g.Objects()
	nodes := make([]*node, len(objects))
	index := make(map[memory.Address]int, len(objects))
	for i, o := range objects {
		b := o.Common()
		nodes[i] = &node{
			addr:       b.Addr,
			name:       b.Name,
			labelWidth: memory.Describe(o).Widest(),
		}
		index[b.Addr] = i
	}

	edgeCount := 0
	for i, o := range objects {
		to, ok := o.Target().Address()
		if !ok {
			continue
		}
		j, ok := index[to]
		if !ok {
			continue
		}
		nodes[i].out = append(nodes[i].out, j)
		nodes[j].in = append(nodes[j].in, i)
		edgeCount++
	}
	return nodes, edgeCount
}

// place positions each node on the layer grid. A layer's column sits at
// margin + layer*xSpacing; within a layer, nodes are centered against the
// tallest layer's vertical extent and stacked at ySpacing increments.
func place(nodes []*node, groups [][]int, sp spacing) {
	tallest := 0
	for _, layer := range groups {
		if len(layer) > tallest {
			tallest = len(layer)
		}
	}
	extent := float64(tallest-1) * sp.y

	for l, layer := range groups {
		top := sp.margin + (extent-float64(len(layer)-1)*sp.y)/2
		for i, idx := range layer {
			nodes[idx].x = sp.margin + float64(l)*sp.x
			nodes[idx].y = top + float64(i)*sp.y
		}
	}
}

// alignChains nudges pass-through nodes (exactly one incoming and one
// outgoing edge) toward the vertical midpoint of their two neighbors, but
// only when the nudge stays below the threshold - large jumps would fight
// the layer-centered placement.
func alignChains(nodes []*node, groups [][]int, threshold float64) {
	for _, layer := range groups {
		for _, idx := range layer {
			n := nodes[idx]
			if len(n.in) != 1 || len(n.out) != 1 {
				continue
			}
			mid := (nodes[n.in[0]].y + nodes[n.out[0]].y) / 2
			if math.Abs(mid-n.y) < threshold {
				n.y = mid
			}
		}
	}
}

// normalize translates all coordinates uniformly so that the minimum x and
// minimum y both equal the margin.
func normalize(nodes []*node, margin float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	for _, n := range nodes {
		minX = math.Min(minX, n.x)
		minY = math.Min(minY, n.y)
	}
	dx, dy := margin-minX, margin-minY
	for _, n := range nodes {
		n.x += dx
		n.y += dy
	}
}
