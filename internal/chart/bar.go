package chart

import (
	"math"

	"github.com/AngelCh415/leadpane/internal/models"
)

const barColor = "#2563eb"

var barMargins = margins{top: 10, right: 10, bottom: 40, left: 60}

// Bar draws one vertical bar per item on a categorical x axis. Negative
// values draw as empty bars.
func Bar(s Surface, items []models.Item) {
	w, h := dims(s, 400, 280)
	m := barMargins
	x := newBand(len(items), m.left, w-m.right, 0.2)
	y := valueScale(items, h-m.bottom, m.top)
	labels := keysOf(items)

	s.Begin(ViewBox{Width: w, Height: h})

	pos := make([]float64, len(items))
	for i := range items {
		pos[i] = x.center(i)
	}
	bottomAxis(s, h-m.bottom, m.left, w-m.right, pos, labels, crowded(labels, x.step))
	leftAxis(s, m.left, y)

	for i, it := range items {
		top := y.at(math.Max(it.Value, 0))
		s.Rect(x.at(i), top, x.bandwidth, y.at(0)-top, Style{Fill: barColor})
	}
	s.End()
}
