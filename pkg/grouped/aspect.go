package grouped

// Proportion is the coarse shape of one item.
type Proportion uint8

const (
	Square Proportion = iota
	Wide
	Narrow
)

// Shape thresholds on the width/height ratio.
const (
	wideRatio   = 1.2
	narrowRatio = 0.8
)

// ProportionOf classifies a width/height ratio.
func ProportionOf(ratio float64) Proportion {
	switch {
	case ratio > wideRatio:
		return Wide
	case ratio < narrowRatio:
		return Narrow
	default:
		return Square
	}
}

// String returns the single-letter code of the proportion.
func (p Proportion) String() string {
	switch p {
	case Wide:
		return "w"
	case Narrow:
		return "n"
	default:
		return "q"
	}
}

// aspects is the per-group ratio analysis every strategy starts from.
type aspects struct {
	ratios       []float64
	proportions  []Proportion
	averageRatio float64
}

func analyze(sizes []Size) aspects {
	a := aspects{
		ratios:      make([]float64, len(sizes)),
		proportions: make([]Proportion, len(sizes)),
	}
	var sum float64
	for i, s := range sizes {
		r := s.Ratio()
		a.ratios[i] = r
		a.proportions[i] = ProportionOf(r)
		sum += r
	}
	if len(sizes) > 0 {
		a.averageRatio = sum / float64(len(sizes))
	}
	return a
}

// all reports whether every proportion equals p.
func (a aspects) all(p Proportion) bool {
	for _, q := range a.proportions {
		if q != p {
			return false
		}
	}
	return true
}

// hasRatioAbove reports whether any item is wider than limit.
func (a aspects) hasRatioAbove(limit float64) bool {
	for _, r := range a.ratios {
		if r > limit {
			return true
		}
	}
	return false
}
