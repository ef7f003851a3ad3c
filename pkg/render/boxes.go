package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/pkranz/memviz/pkg/layout"
	"github.com/pkranz/memviz/pkg/memory"
)

// Box geometry mirrored from the layout engine so arrows attach to edges,
// not corners.
const (
	boxHeight  = 64.0
	lineHeight = 18.0
	fontSize   = 13
)

// BoxesOptions configures the box-diagram renderer. CharWidth and Padding
// must match the values the layout was computed with or box widths drift
// away from the spacing the layout reserved.
type BoxesOptions struct {
	CharWidth float64
	Padding   float64
}

func (o BoxesOptions) withDefaults() BoxesOptions {
	if o.CharWidth <= 0 {
		o.CharWidth = layout.DefaultCharWidth
	}
	if o.Padding <= 0 {
		o.Padding = layout.DefaultPadding
	}
	return o
}

// BoxesSVG renders the classic memory-diagram view: one labeled box per
// object at its computed position, with arrows along resolved pointer and
// reference targets. Null and unresolved targets produce no arrow.
func BoxesSVG(g *memory.Graph, res layout.Result, opts BoxesOptions) []byte {
	opts = opts.withDefaults()

	widest := 0
	for _, o := range g.Objects() {
		if w := memory.Describe(o).Widest(); w > widest {
			widest = w
		}
	}
	boxWidth := float64(widest)*opts.CharWidth + 2*opts.Padding

	width, height := canvasSize(res, boxWidth)

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	buf.WriteString(arrowDefs)
	buf.WriteString(`  <rect width="100%" height="100%" fill="white"/>` + "\n")

	// Arrows first so boxes paint over their endpoints.
	for _, e := range g.Edges() {
		from, okFrom := res[e.From]
		to, okTo := res[e.To]
		if !okFrom || !okTo {
			continue
		}
		writeArrow(&buf, from, to, boxWidth)
	}

	for _, o := range g.Objects() {
		pt, ok := res[o.Common().Addr]
		if !ok {
			continue
		}
		writeBox(&buf, o, pt, boxWidth)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

const arrowDefs = `  <defs>
    <marker id="arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse">
      <path d="M 0 0 L 10 5 L 0 10 z" fill="#374151"/>
    </marker>
  </defs>
`

func canvasSize(res layout.Result, boxWidth float64) (w, h float64) {
	for _, pt := range res {
		if right := pt.X + boxWidth; right > w {
			w = right
		}
		if bottom := pt.Y + boxHeight; bottom > h {
			h = bottom
		}
	}
	// Symmetric trailing margin; positions are already normalized to a
	// leading margin of at least this much.
	return w + layout.DefaultMargin, h + layout.DefaultMargin
}

func writeBox(buf *bytes.Buffer, o memory.Object, pt layout.Point, boxWidth float64) {
	fill := "#eef2ff"
	if o.Kind() == memory.KindVariable {
		fill = "#ecfdf5"
	}
	fmt.Fprintf(buf,
		`  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill="%s" stroke="#374151" stroke-width="1.5"/>`+"\n",
		pt.X, pt.Y, boxWidth, boxHeight, fill)

	d := memory.Describe(o)
	cx := pt.X + boxWidth/2
	y := pt.Y + lineHeight
	fmt.Fprintf(buf,
		`  <text x="%.1f" y="%.1f" font-family="monospace" font-size="%d" font-weight="bold" text-anchor="middle">%s</text>`+"\n",
		cx, y, fontSize, html.EscapeString(d.Title))
	y += lineHeight
	fmt.Fprintf(buf,
		`  <text x="%.1f" y="%.1f" font-family="monospace" font-size="%d" fill="#6b7280" text-anchor="middle">%s</text>`+"\n",
		cx, y, fontSize-2, html.EscapeString(d.Detail))
	y += lineHeight
	fmt.Fprintf(buf,
		`  <text x="%.1f" y="%.1f" font-family="monospace" font-size="%d" text-anchor="middle">%s</text>`+"\n",
		cx, y, fontSize, html.EscapeString(d.ValueRow))
}

func writeArrow(buf *bytes.Buffer, from, to layout.Point, boxWidth float64) {
	x1 := from.X + boxWidth
	y1 := from.Y + boxHeight/2
	x2 := to.X
	y2 := to.Y + boxHeight/2
	if x2 < x1 {
		// Back-edge (cycle): leave from the left side instead.
		x1 = from.X
		x2 = to.X + boxWidth
	}
	mx := (x1 + x2) / 2
	fmt.Fprintf(buf,
		`  <path d="M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f" fill="none" stroke="#374151" stroke-width="1.5" marker-end="url(#arrow)"/>`+"\n",
		x1, y1, mx, y1, mx, y2, x2, y2)
}
