package grouped

import "math"

// Two-item thresholds.
const (
	topBottomAverageFactor = 1.4
	topBottomRatioDelta    = 0.2
	minimalWidthFactor     = 1.5
	secondWidthShare       = 0.4
)

// Strip-plus-row layouts cap the strip at this share of the usable height.
const topStripShare = 0.66

// Four-item shares of the usable width.
const (
	fourFirstShare = 0.4
	fourLastShare  = 0.33
	fourLeftShare  = 0.6
)

func (l *layouter) layoutTwo() Result {
	p := l.proportions
	switch {
	case p[0] == Wide && p[1] == Wide &&
		l.averageRatio > topBottomAverageFactor*l.maxSizeRatio &&
		math.Abs(l.ratios[1]-l.ratios[0]) < topBottomRatioDelta:
		return l.layoutTwoTopBottom()
	case l.all(Wide) || l.all(Square):
		return l.layoutTwoLeftRightEqual()
	default:
		return l.layoutTwoLeftRight()
	}
}

func (l *layouter) layoutTwoTopBottom() Result {
	r := l.ratios
	width := l.maxWidth
	height := round(min(width/r[0], width/r[1], (l.maxHeight-l.spacing)/2))
	return Result{
		Strategy: StrategyTwoTopBottom,
		Items: []Item{
			{Rect{0, 0, width, height}, SideLeft | SideTop | SideRight},
			{Rect{0, height + l.spacing, width, height}, SideLeft | SideBottom | SideRight},
		},
	}
}

func (l *layouter) layoutTwoLeftRightEqual() Result {
	r := l.ratios
	width := (l.maxWidth - l.spacing) / 2
	height := round(min(width/r[0], width/r[1], l.maxHeight))
	return Result{
		Strategy: StrategyTwoEqual,
		Items: []Item{
			{Rect{0, 0, width, height}, SideTop | SideLeft | SideBottom},
			{Rect{width + l.spacing, 0, width, height}, SideTop | SideRight | SideBottom},
		},
	}
}

func (l *layouter) layoutTwoLeftRight() Result {
	r := l.ratios
	usable := l.maxWidth - l.spacing
	minimalWidth := round(l.minWidth * minimalWidthFactor)
	secondWidth := min(
		round(max(secondWidthShare*usable, usable/r[0]/(1/r[0]+1/r[1]))),
		usable-minimalWidth,
	)
	firstWidth := l.maxWidth - secondWidth - l.spacing
	height := min(l.maxHeight, round(min(firstWidth/r[0], secondWidth/r[1])))
	return Result{
		Strategy: StrategyTwoLeftRight,
		Items: []Item{
			{Rect{0, 0, firstWidth, height}, SideTop | SideLeft | SideBottom},
			{Rect{firstWidth + l.spacing, 0, secondWidth, height}, SideTop | SideRight | SideBottom},
		},
	}
}

func (l *layouter) layoutThree() Result {
	if l.proportions[0] == Narrow {
		return l.layoutThreeLeftAndOther()
	}
	return l.layoutThreeTopAndOther()
}

func (l *layouter) layoutThreeLeftAndOther() Result {
	r := l.ratios
	s := l.spacing
	usable := l.maxWidth - s

	firstHeight := l.maxHeight
	thirdHeight := round(min((l.maxHeight-s)/2, r[1]*usable/(r[2]+r[1])))
	secondHeight := firstHeight - thirdHeight - s
	rightWidth := max(l.minWidth, round(min(usable/2, thirdHeight*r[2], secondHeight*r[1])))
	leftWidth := min(round(firstHeight*r[0]), usable-rightWidth)

	return Result{
		Strategy: StrategyThreeLeft,
		Items: []Item{
			{Rect{0, 0, leftWidth, firstHeight}, SideTop | SideLeft | SideBottom},
			{Rect{leftWidth + s, 0, rightWidth, secondHeight}, SideTop | SideRight},
			{Rect{leftWidth + s, secondHeight + s, rightWidth, thirdHeight}, SideBottom | SideRight},
		},
	}
}

func (l *layouter) layoutThreeTopAndOther() Result {
	r := l.ratios
	s := l.spacing

	firstWidth := l.maxWidth
	firstHeight := round(min(firstWidth/r[0], (l.maxHeight-s)*topStripShare))
	secondWidth := (l.maxWidth - s) / 2
	secondHeight := min(l.maxHeight-firstHeight-s, round(min(secondWidth/r[1], secondWidth/r[2])))
	thirdWidth := firstWidth - secondWidth - s

	return Result{
		Strategy: StrategyThreeTop,
		Items: []Item{
			{Rect{0, 0, firstWidth, firstHeight}, SideLeft | SideTop | SideRight},
			{Rect{0, firstHeight + s, secondWidth, secondHeight}, SideBottom | SideLeft},
			{Rect{secondWidth + s, firstHeight + s, thirdWidth, secondHeight}, SideBottom | SideRight},
		},
	}
}

func (l *layouter) layoutFour() Result {
	if l.proportions[0] == Wide {
		return l.layoutFourTopAndOther()
	}
	return l.layoutFourLeftAndOther()
}

func (l *layouter) layoutFourTopAndOther() Result {
	r := l.ratios
	s := l.spacing
	usable := l.maxWidth - 2*s

	w := l.maxWidth
	h0 := round(min(w/r[0], (l.maxHeight-s)*topStripShare))
	h := round(usable / (r[1] + r[2] + r[3]))
	w0 := max(l.minWidth, round(min(usable*fourFirstShare, h*r[1])))
	w2 := round(max(l.minWidth, usable*fourLastShare, h*r[3]))
	w1 := w - w0 - w2 - 2*s
	h1 := min(l.maxHeight-h0-s, h)

	return Result{
		Strategy: StrategyFourTop,
		Items: []Item{
			{Rect{0, 0, w, h0}, SideLeft | SideTop | SideRight},
			{Rect{0, h0 + s, w0, h1}, SideBottom | SideLeft},
			{Rect{w0 + s, h0 + s, w1, h1}, SideBottom},
			{Rect{w0 + s + w1 + s, h0 + s, w2, h1}, SideBottom | SideRight},
		},
	}
}

func (l *layouter) layoutFourLeftAndOther() Result {
	r := l.ratios
	s := l.spacing

	h := l.maxHeight
	w0 := round(min(h*r[0], (l.maxWidth-s)*fourLeftShare))
	w := round((l.maxHeight - 2*s) / (1/r[1] + 1/r[2] + 1/r[3]))
	h0 := round(w / r[1])
	h1 := round(w / r[2])
	h2 := h - h0 - h1 - 2*s
	w1 := max(l.minWidth, min(l.maxWidth-w0-s, w))

	return Result{
		Strategy: StrategyFourLeft,
		Items: []Item{
			{Rect{0, 0, w0, h}, SideTop | SideLeft | SideBottom},
			{Rect{w0 + s, 0, w1, h0}, SideTop | SideRight},
			{Rect{w0 + s, h0 + s, w1, h1}, SideRight},
			{Rect{w0 + s, h0 + h1 + 2*s, w1, h2}, SideBottom | SideRight},
		},
	}
}
