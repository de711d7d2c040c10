package grouped

import "strings"

// Size is the natural size of one media item.
type Size struct {
	W float64 `json:"w" toml:"w" bson:"w"`
	H float64 `json:"h" toml:"h" bson:"h"`
}

// Ratio returns the width to height ratio of the item.
func (s Size) Ratio() float64 { return s.W / s.H }

// Constraints bound the layout of a group.
//
// MaxHeight is optional. When zero, simple layouts use MaxWidth and the
// row-partition search uses MaxWidth*4/3.
type Constraints struct {
	MaxWidth  float64 `json:"max_width" toml:"max_width" bson:"max_width"`
	MinWidth  float64 `json:"min_width" toml:"min_width" bson:"min_width"`
	Spacing   float64 `json:"spacing" toml:"spacing" bson:"spacing"`
	MaxHeight float64 `json:"max_height,omitempty" toml:"max_height,omitempty" bson:"max_height,omitempty"`
}

// simpleMaxHeight returns the height bound used by the closed-form layouts.
func (c Constraints) simpleMaxHeight() float64 {
	if c.MaxHeight > 0 {
		return c.MaxHeight
	}
	return c.MaxWidth
}

// complexMaxHeight returns the target height used by the row-partition search.
func (c Constraints) complexMaxHeight() float64 {
	if c.MaxHeight > 0 {
		return c.MaxHeight
	}
	return c.MaxWidth * 4 / 3
}

// Side is a bitmask of rectangle edges that touch the outline of the group.
type Side int

// Side flags. They combine with bitwise OR.
const (
	SideNone   Side = 0
	SideTop    Side = 1
	SideRight  Side = 2
	SideBottom Side = 4
	SideLeft   Side = 8

	SideAll = SideTop | SideRight | SideBottom | SideLeft
)

// Has reports whether all flags in f are set.
func (s Side) Has(f Side) bool { return s&f == f }

// String renders the flags as a compact list such as "top|left".
func (s Side) String() string {
	if s == SideNone {
		return "none"
	}
	var parts []string
	for _, f := range []struct {
		flag Side
		name string
	}{
		{SideTop, "top"},
		{SideRight, "right"},
		{SideBottom, "bottom"},
		{SideLeft, "left"},
	} {
		if s.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

// Rect is a rectangle with its origin at the top-left corner, y growing down.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Item is the placement of one media item.
type Item struct {
	Geometry Rect `json:"geometry" bson:"geometry"`
	Sides    Side `json:"sides" bson:"sides"`
}

// Strategy names the arrangement chosen for a group.
type Strategy string

// Strategies, in the order the engine considers them.
const (
	StrategyEmpty         Strategy = "empty"
	StrategyOne           Strategy = "one"
	StrategyTwoTopBottom  Strategy = "two_top_bottom"
	StrategyTwoEqual      Strategy = "two_left_right_equal"
	StrategyTwoLeftRight  Strategy = "two_left_right"
	StrategyThreeLeft     Strategy = "three_left_and_other"
	StrategyThreeTop      Strategy = "three_top_and_other"
	StrategyFourTop       Strategy = "four_top_and_other"
	StrategyFourLeft      Strategy = "four_left_and_other"
	StrategyRowPartitions Strategy = "row_partitions"
)

// Result is a computed layout together with its bounds.
type Result struct {
	Items    []Item   `json:"items" bson:"items"`
	Strategy Strategy `json:"strategy" bson:"strategy"`
	Width    float64  `json:"width" bson:"width"`
	Height   float64  `json:"height" bson:"height"`
	// Rows holds the item count of every row when Strategy is
	// StrategyRowPartitions.
	Rows []int `json:"rows,omitempty" bson:"rows,omitempty"`
}

// bounds derives the group size from the items touching the right and bottom
// edges of the outline.
func bounds(items []Item) (width, height float64) {
	for _, it := range items {
		if it.Sides.Has(SideRight) {
			width = max(width, it.Geometry.Right())
		}
		if it.Sides.Has(SideBottom) {
			height = max(height, it.Geometry.Bottom())
		}
	}
	return width, height
}
