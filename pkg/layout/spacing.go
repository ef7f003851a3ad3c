package layout

// Spacing heuristics. All thresholds are fixed band edges, not learned:
// structural density signals scale the base footprint-derived spacing, and
// every factor is clamped to its band so degenerate graphs cannot produce
// absurd gaps.

// nodeHeight estimates the rendered height of a node box: up to three text
// rows plus padding.
const nodeHeight = 64.0

// spacing holds the resolved spacing parameters for one layout run.
type spacing struct {
	x      float64
	y      float64
	margin float64
}

// computeSpacing derives horizontal and vertical spacing from the widest
// node's estimated footprint and from structural density:
//
//   - fewer layers ⇒ wider horizontal spacing, more layers ⇒ narrower
//     (stay compact on deep indirection chains)
//   - higher edge density (edges per node) ⇒ wider spacing to reduce
//     visual clutter
//   - more nodes sharing a layer ⇒ tighter vertical spacing
//   - the margin scales up for large graphs and down for small ones
func computeSpacing(opts Options, nodes []*node, groups [][]int, edgeCount int) spacing {
	widest := 0
	for _, n := range nodes {
		if n.labelWidth > widest {
			widest = n.labelWidth
		}
	}
	nodeWidth := float64(widest)*opts.CharWidth + 2*opts.Padding

	layerCount := len(groups)
	layerFactor := clamp(1.9-0.15*float64(layerCount-1), 1.1, 1.9)

	density := 0.0
	if len(nodes) > 0 {
		density = float64(edgeCount) / float64(len(nodes))
	}
	densityFactor := clamp(1.0+0.4*density, 1.0, 1.6)

	maxOccupancy := 0
	for _, layer := range groups {
		if len(layer) > maxOccupancy {
			maxOccupancy = len(layer)
		}
	}
	occupancyFactor := clamp(1.6-0.1*float64(maxOccupancy-1), 1.05, 1.6)
	countFactor := clamp(1.4-0.02*float64(len(nodes)), 1.0, 1.4)

	return spacing{
		x:      nodeWidth * layerFactor * densityFactor,
		y:      nodeHeight * occupancyFactor * countFactor,
		margin: clamp(opts.Margin*(0.75+0.05*float64(len(nodes))), 0.5*opts.Margin, 2*opts.Margin),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
