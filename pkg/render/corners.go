package render

import (
	"strings"

	"github.com/matzehuels/albumgrid/pkg/grouped"
)

// Corner is a bitmask of rectangle corners.
type Corner int

// Corner flags.
const (
	CornerTopLeft Corner = 1 << iota
	CornerTopRight
	CornerBottomRight
	CornerBottomLeft

	CornerNone Corner = 0
	CornerAll         = CornerTopLeft | CornerTopRight | CornerBottomRight | CornerBottomLeft
)

var cornerNames = []struct {
	corner Corner
	name   string
}{
	{CornerTopLeft, "top_left"},
	{CornerTopRight, "top_right"},
	{CornerBottomRight, "bottom_right"},
	{CornerBottomLeft, "bottom_left"},
}

// Corners returns the corners of a tile that lie on the group outline.
func Corners(s grouped.Side) Corner {
	var c Corner
	if s.Has(grouped.SideTop | grouped.SideLeft) {
		c |= CornerTopLeft
	}
	if s.Has(grouped.SideTop | grouped.SideRight) {
		c |= CornerTopRight
	}
	if s.Has(grouped.SideBottom | grouped.SideRight) {
		c |= CornerBottomRight
	}
	if s.Has(grouped.SideBottom | grouped.SideLeft) {
		c |= CornerBottomLeft
	}
	return c
}

// Has reports whether all corners in f are set.
func (c Corner) Has(f Corner) bool { return c&f == f }

// Names lists the set corners in clockwise order starting at the top left.
func (c Corner) Names() []string {
	names := []string{}
	for _, cn := range cornerNames {
		if c.Has(cn.corner) {
			names = append(names, cn.name)
		}
	}
	return names
}

func (c Corner) String() string {
	if c == CornerNone {
		return "none"
	}
	return strings.Join(c.Names(), "|")
}

// sideNames lists the set sides in the same order as grouped.Side.String.
func sideNames(s grouped.Side) []string {
	if s == grouped.SideNone {
		return []string{}
	}
	return strings.Split(s.String(), "|")
}

// radii resolves the per-corner radius of a tile. The radius is clamped to
// half the shorter tile edge so that arcs never overlap.
type radii struct {
	topLeft, topRight, bottomRight, bottomLeft float64
}

func cornerRadii(c Corner, r, w, h float64) radii {
	r = min(r, w/2, h/2)
	if r <= 0 {
		return radii{}
	}
	pick := func(f Corner) float64 {
		if c.Has(f) {
			return r
		}
		return 0
	}
	return radii{
		topLeft:     pick(CornerTopLeft),
		topRight:    pick(CornerTopRight),
		bottomRight: pick(CornerBottomRight),
		bottomLeft:  pick(CornerBottomLeft),
	}
}

// palette colors placeholder tiles when no image is drawn.
var palette = []string{
	"#5b8def", "#f2994a", "#27ae60", "#eb5757",
	"#9b51e0", "#2d9cdb", "#f2c94c", "#6fcf97",
	"#bb6bd9", "#56ccf2", "#e0805b", "#828282",
}

func tileColor(i int) string { return palette[i%len(palette)] }
