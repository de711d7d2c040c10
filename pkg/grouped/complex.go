package grouped

import (
	"math"

	"github.com/matzehuels/albumgrid/pkg/errors"
)

// Ratio cropping bounds for the row-partition search.
const (
	wideGroupAverage = 1.1
	wideMinRatio     = 1.0
	wideMaxRatio     = 2.75
	tallMinRatio     = 0.6667
	tallMaxRatio     = 1.0
)

// Row capacity limits.
const (
	maxRowItems       = 3
	maxMiddleRowItems = 4    // middle row of a three-row partition in tall groups
	tallGroupAverage  = 0.85 // below this average the middle row may hold maxMiddleRowItems
	penalty           = 1.5
)

// attempt is one candidate partition of the group into rows.
type attempt struct {
	lineCounts []int
	heights    []float64
}

// partitionLayouter searches row partitions for groups the closed-form
// layouts cannot handle.
type partitionLayouter struct {
	ratios       []float64
	count        int
	averageRatio float64

	maxWidth  float64
	minWidth  float64
	spacing   float64
	maxHeight float64
}

func newPartitionLayouter(ratios []float64, averageRatio float64, c Constraints) *partitionLayouter {
	return &partitionLayouter{
		ratios:       cropRatios(ratios, averageRatio),
		count:        len(ratios),
		averageRatio: averageRatio,
		maxWidth:     c.MaxWidth,
		minWidth:     c.MinWidth,
		spacing:      c.Spacing,
		maxHeight:    c.complexMaxHeight(),
	}
}

// cropRatios clamps every ratio so that one extreme item cannot dominate the
// row heights.
func cropRatios(ratios []float64, averageRatio float64) []float64 {
	lo, hi := tallMinRatio, tallMaxRatio
	if averageRatio > wideGroupAverage {
		lo, hi = wideMinRatio, wideMaxRatio
	}
	out := make([]float64, len(ratios))
	for i, r := range ratios {
		out[i] = min(max(r, lo), hi)
	}
	return out
}

// rowHeight is the uniform height of count consecutive items starting at
// offset when they exactly fill the width.
func (p *partitionLayouter) rowHeight(offset, count int) float64 {
	var sum float64
	for _, r := range p.ratios[offset : offset+count] {
		sum += r
	}
	return (p.maxWidth - float64(count-1)*p.spacing) / sum
}

func (p *partitionLayouter) newAttempt(lineCounts ...int) attempt {
	heights := make([]float64, len(lineCounts))
	offset := 0
	for i, n := range lineCounts {
		heights[i] = p.rowHeight(offset, n)
		offset += n
	}
	return attempt{lineCounts: lineCounts, heights: heights}
}

// attempts enumerates two-, three- and four-row partitions in that order.
// The order is part of the contract: ties keep the earliest candidate.
func (p *partitionLayouter) attempts() []attempt {
	n := p.count
	middleCap := maxRowItems
	if p.averageRatio < tallGroupAverage {
		middleCap = maxMiddleRowItems
	}

	var out []attempt
	for first := 1; first < n; first++ {
		second := n - first
		if first > maxRowItems || second > maxRowItems {
			continue
		}
		out = append(out, p.newAttempt(first, second))
	}
	for first := 1; first < n-1; first++ {
		for second := 1; second < n-first; second++ {
			third := n - first - second
			if first > maxRowItems || second > middleCap || third > maxRowItems {
				continue
			}
			out = append(out, p.newAttempt(first, second, third))
		}
	}
	for first := 1; first < n-1; first++ {
		for second := 1; second < n-first; second++ {
			for third := 1; third < n-first-second; third++ {
				fourth := n - first - second - third
				if first > maxRowItems || second > maxRowItems || third > maxRowItems || fourth > maxRowItems {
					continue
				}
				out = append(out, p.newAttempt(first, second, third, fourth))
			}
		}
	}
	return out
}

// score is the deviation of a partition from the target height, scaled by
// the penalties for short rows and for rows heavier than the row below.
func (p *partitionLayouter) score(a attempt) float64 {
	rows := len(a.lineCounts)
	total := p.spacing * float64(rows-1)
	minHeight := math.Inf(1)
	for _, h := range a.heights {
		total += h
		minHeight = min(minHeight, h)
	}

	bad1 := 1.0
	if minHeight < p.minWidth {
		bad1 = penalty
	}
	bad2 := 1.0
	for i := 1; i < rows; i++ {
		if a.lineCounts[i-1] > a.lineCounts[i] {
			bad2 = penalty
			break
		}
	}
	return math.Abs(total-p.maxHeight) * bad1 * bad2
}

// best returns the lowest-scoring attempt, keeping the first on ties.
func (p *partitionLayouter) best() (attempt, bool) {
	var (
		optimal   attempt
		optimalSc float64
		found     bool
	)
	for _, a := range p.attempts() {
		sc := p.score(a)
		if !found || sc < optimalSc {
			optimal, optimalSc, found = a, sc, true
		}
	}
	return optimal, found
}

func (p *partitionLayouter) layout() (Result, error) {
	optimal, ok := p.best()
	if !ok {
		return Result{}, errors.New(errors.ErrCodeUnsatisfiable,
			"no row partition fits %d items", p.count)
	}

	items := make([]Item, p.count)
	rowCount := len(optimal.lineCounts)
	index := 0
	y := 0.0
	for row, colCount := range optimal.lineCounts {
		lineHeight := optimal.heights[row]
		height := round(lineHeight)

		x := 0.0
		for col := 0; col < colCount; col++ {
			sides := SideNone
			if row == 0 {
				sides |= SideTop
			}
			if row == rowCount-1 {
				sides |= SideBottom
			}
			if col == 0 {
				sides |= SideLeft
			}
			if col == colCount-1 {
				sides |= SideRight
			}

			width := round(p.ratios[index] * lineHeight)
			if col == colCount-1 {
				width = p.maxWidth - x
			}
			items[index] = Item{Geometry: Rect{x, y, width, height}, Sides: sides}

			x += width + p.spacing
			index++
		}
		y += height + p.spacing
	}

	return Result{
		Items:    items,
		Strategy: StrategyRowPartitions,
		Rows:     append([]int(nil), optimal.lineCounts...),
	}, nil
}
