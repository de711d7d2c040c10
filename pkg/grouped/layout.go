package grouped

import (
	"math"

	"github.com/matzehuels/albumgrid/pkg/errors"
)

// complexRatioLimit is the ratio above which an item forces the row-partition
// search even for two to four items.
const complexRatioLimit = 2

// Layout arranges sizes under c and returns one item per size, in input order.
//
// It returns an error when a size is not strictly positive and finite, when
// the constraints are negative or inconsistent, or when no row partition can
// hold the group (more than 12 items).
func Layout(sizes []Size, c Constraints) ([]Item, error) {
	res, err := Compute(sizes, c)
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// Compute is like [Layout] but also reports the chosen strategy and the
// bounds of the group.
func Compute(sizes []Size, c Constraints) (Result, error) {
	if err := Validate(sizes, c); err != nil {
		return Result{}, err
	}

	l := newLayouter(sizes, c)
	res, err := l.layout()
	if err != nil {
		return Result{}, err
	}
	res.Width, res.Height = bounds(res.Items)
	return res, nil
}

// Validate checks that sizes and constraints can be laid out.
func Validate(sizes []Size, c Constraints) error {
	if err := errors.ValidateConstraints(c.MaxWidth, c.MinWidth, c.Spacing, c.MaxHeight); err != nil {
		return err
	}
	for i, s := range sizes {
		if err := errors.ValidateSize(s.W, s.H); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSize, err, "item %d", i)
		}
	}
	return nil
}

// layouter holds the analysed input of a single Layout call.
type layouter struct {
	aspects
	sizes []Size
	count int

	maxWidth     float64
	minWidth     float64
	spacing      float64
	maxHeight    float64
	maxSizeRatio float64

	constraints Constraints
}

func newLayouter(sizes []Size, c Constraints) *layouter {
	maxHeight := c.simpleMaxHeight()
	return &layouter{
		aspects:      analyze(sizes),
		sizes:        sizes,
		count:        len(sizes),
		maxWidth:     c.MaxWidth,
		minWidth:     c.MinWidth,
		spacing:      c.Spacing,
		maxHeight:    maxHeight,
		maxSizeRatio: c.MaxWidth / maxHeight,
		constraints:  c,
	}
}

func (l *layouter) layout() (Result, error) {
	switch {
	case l.count == 0:
		return Result{Items: []Item{}, Strategy: StrategyEmpty}, nil
	case l.count == 1:
		return l.layoutOne(), nil
	case l.count >= 5 || l.hasRatioAbove(complexRatioLimit):
		return newPartitionLayouter(l.ratios, l.averageRatio, l.constraints).layout()
	case l.count == 2:
		return l.layoutTwo(), nil
	case l.count == 3:
		return l.layoutThree(), nil
	default:
		return l.layoutFour(), nil
	}
}

func (l *layouter) layoutOne() Result {
	width := l.maxWidth
	height := width * l.sizes[0].H / l.sizes[0].W
	return Result{
		Strategy: StrategyOne,
		Items:    []Item{{Geometry: Rect{0, 0, width, height}, Sides: SideAll}},
	}
}

// round is the single rounding primitive of the engine. All geometry is
// non-negative, so half-away-from-zero matches half-up.
func round(v float64) float64 { return math.Round(v) }
