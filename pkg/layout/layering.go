package layout

// assignLayers computes a layer index for every node: one plus the maximum
// layer of all nodes pointing to it, with nodes that have no incoming edge
// at layer 0. This pushes the ultimate referent of an indirection chain to
// the deepest layer.
//
// The traversal follows incoming edges iteratively with an explicit stack
// and a three-state marker per node (unvisited / visiting / done), so long
// pointer chains cannot overflow the call stack and cycles terminate: a
// node revisited while still being computed contributes 0 instead of
// recursing. Each node's layer is computed exactly once.
func assignLayers(nodes []*node) {
	const (
		unvisited = iota
		visiting
		done
	)

	state := make([]int, len(nodes))

	// frame tracks how many incoming sources of a node have been folded
	// into its layer so far.
	type frame struct {
		idx  int
		next int
	}

	for start := range nodes {
		if state[start] != unvisited {
			continue
		}
		stack := []frame{{idx: start}}
		state[start] = visiting

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			n := nodes[f.idx]

			if f.next >= len(n.in) {
				state[f.idx] = done
				stack = stack[:len(stack)-1]
				continue
			}

			src := n.in[f.next]
			switch state[src] {
			case done:
				if l := nodes[src].layer + 1; l > n.layer {
					n.layer = l
				}
				f.next++
			case visiting:
				// Cycle: this source is still being computed somewhere
				// below us on the stack; it contributes layer 0.
				f.next++
			default:
				state[src] = visiting
				stack = append(stack, frame{idx: src})
			}
		}
	}
}

// layerGroups partitions node indices by layer. Layers are contiguous from
// 0 through the maximum assigned layer; intermediate layers may be empty
// only if every chain skips them, which assignLayers never produces.
func layerGroups(nodes []*node) [][]int {
	maxLayer := 0
	for _, n := range nodes {
		if n.layer > maxLayer {
			maxLayer = n.layer
		}
	}
	groups := make([][]int, maxLayer+1)
	for i, n := range nodes {
		groups[n.layer] = append(groups[n.layer], i)
	}
	return groups
}
