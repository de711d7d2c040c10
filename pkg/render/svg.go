package render

import (
	"bytes"
	"fmt"
	"html"
	"strconv"

	"github.com/matzehuels/albumgrid/pkg/grouped"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	radius     float64
	background string
	labels     bool
	hrefs      []string
}

// WithRadius sets the corner radius of the group outline.
func WithRadius(r float64) SVGOption { return func(s *svgRenderer) { s.radius = r } }

// WithBackground fills the group bounds with a color before drawing tiles.
func WithBackground(color string) SVGOption {
	return func(s *svgRenderer) { s.background = color }
}

// WithLabels draws the item index in the center of each tile.
func WithLabels() SVGOption { return func(s *svgRenderer) { s.labels = true } }

// WithImageHrefs references one image per item. Tiles with an empty href
// fall back to a placeholder color.
func WithImageHrefs(hrefs []string) SVGOption { return func(s *svgRenderer) { s.hrefs = hrefs } }

// RenderSVG draws the layout as an SVG document sized to the group bounds.
func RenderSVG(res grouped.Result, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(res.Width), num(res.Height), num(res.Width), num(res.Height))

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="%s" height="%s" rx="%s" fill="%s"/>`+"\n",
			num(res.Width), num(res.Height), num(r.radius), html.EscapeString(r.background))
	}

	for i, it := range res.Items {
		g := it.Geometry
		d := tilePath(g, cornerRadii(Corners(it.Sides), r.radius, g.Width, g.Height))
		href := ""
		if i < len(r.hrefs) {
			href = r.hrefs[i]
		}

		if href == "" {
			fmt.Fprintf(&buf, `  <path id="item-%d" class="tile" d="%s" fill="%s"/>`+"\n", i, d, tileColor(i))
		} else {
			fmt.Fprintf(&buf, `  <clipPath id="clip-%d"><path d="%s"/></clipPath>`+"\n", i, d)
			fmt.Fprintf(&buf, `  <image id="item-%d" class="tile" href="%s" x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="xMidYMid slice" clip-path="url(#clip-%d)"/>`+"\n",
				i, html.EscapeString(href), num(g.X), num(g.Y), num(g.Width), num(g.Height), i)
		}

		if r.labels {
			fmt.Fprintf(&buf, `  <text x="%s" y="%s" text-anchor="middle" dominant-baseline="central" font-family="sans-serif" font-size="%s" fill="#ffffff">%d</text>`+"\n",
				num(g.X+g.Width/2), num(g.Y+g.Height/2), num(labelSize(g)), i+1)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// tilePath builds a closed path around g with elliptical arcs at the
// rounded corners.
func tilePath(g grouped.Rect, rr radii) string {
	x0, y0, x1, y1 := g.X, g.Y, g.Right(), g.Bottom()

	var b bytes.Buffer
	fmt.Fprintf(&b, "M%s,%s", num(x0+rr.topLeft), num(y0))
	fmt.Fprintf(&b, " H%s", num(x1-rr.topRight))
	if rr.topRight > 0 {
		fmt.Fprintf(&b, " A%s,%s 0 0 1 %s,%s", num(rr.topRight), num(rr.topRight), num(x1), num(y0+rr.topRight))
	}
	fmt.Fprintf(&b, " V%s", num(y1-rr.bottomRight))
	if rr.bottomRight > 0 {
		fmt.Fprintf(&b, " A%s,%s 0 0 1 %s,%s", num(rr.bottomRight), num(rr.bottomRight), num(x1-rr.bottomRight), num(y1))
	}
	fmt.Fprintf(&b, " H%s", num(x0+rr.bottomLeft))
	if rr.bottomLeft > 0 {
		fmt.Fprintf(&b, " A%s,%s 0 0 1 %s,%s", num(rr.bottomLeft), num(rr.bottomLeft), num(x0), num(y1-rr.bottomLeft))
	}
	fmt.Fprintf(&b, " V%s", num(y0+rr.topLeft))
	if rr.topLeft > 0 {
		fmt.Fprintf(&b, " A%s,%s 0 0 1 %s,%s", num(rr.topLeft), num(rr.topLeft), num(x0+rr.topLeft), num(y0))
	}
	b.WriteString(" Z")
	return b.String()
}

func labelSize(g grouped.Rect) float64 {
	return max(8, min(g.Width, g.Height)/4)
}

// num formats a coordinate without trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 32)
}
