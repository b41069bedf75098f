package chart

import (
	"strings"

	"github.com/AngelCh415/leadpane/internal/models"
)

const lineColor = "#22c55e"

var lineMargins = margins{top: 10, right: 10, bottom: 40, left: 50}

// Line connects the items in slice order and marks each point. It is meant
// for chronological series, so it never re-sorts.
func Line(s Surface, items []models.Item) {
	w, h := dims(s, 800, 360)
	m := lineMargins
	x := newPoint(len(items), m.left, w-m.right)
	y := valueScale(items, h-m.bottom, m.top)

	s.Begin(ViewBox{Width: w, Height: h})

	pos := make([]float64, len(items))
	for i := range items {
		pos[i] = x.at(i)
	}
	bottomAxis(s, h-m.bottom, m.left, w-m.right, pos, keysOf(items), false)
	leftAxis(s, m.left, y)

	if len(items) > 0 {
		var d strings.Builder
		for i, it := range items {
			if i == 0 {
				d.WriteString("M")
			} else {
				d.WriteString("L")
			}
			d.WriteString(num(pos[i]) + "," + num(y.at(it.Value)))
		}
		s.Path(d.String(), Style{Stroke: lineColor, StrokeWidth: 2})
	}
	for i, it := range items {
		s.Circle(pos[i], y.at(it.Value), 3, Style{Fill: lineColor})
	}
	s.End()
}
