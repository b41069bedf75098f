package chart

import (
	"fmt"
	"unicode/utf8"
)

const (
	axisColor    = "#333333"
	tickSize     = 6
	tickFontSize = 10
	tickRotation = -20
)

var axisStroke = Style{Stroke: axisColor, StrokeWidth: 1}

type margins struct{ top, right, bottom, left float64 }

// bottomAxis draws a categorical axis along y with one tick per position.
func bottomAxis(s Surface, y, x0, x1 float64, pos []float64, labels []string, rotate bool) {
	s.Path(fmt.Sprintf("M%s,%sV%sH%sV%s", num(x0), num(y+tickSize), num(y), num(x1), num(y+tickSize)), axisStroke)
	ts := TextStyle{Anchor: "middle", Size: tickFontSize, Fill: axisColor}
	if rotate {
		ts.Anchor = "end"
		ts.Rotate = tickRotation
	}
	for i, x := range pos {
		s.Line(x, y, x, y+tickSize, axisStroke)
		s.Text(x, y+tickSize+10, labels[i], ts)
	}
}

// leftAxis draws the value axis at x for a linear scale.
func leftAxis(s Surface, x float64, sc linearScale) {
	s.Path(fmt.Sprintf("M%s,%sH%sV%sH%s", num(x-tickSize), num(sc.r0), num(x), num(sc.r1), num(x-tickSize)), axisStroke)
	ts := TextStyle{Anchor: "end", Size: tickFontSize, Fill: axisColor}
	for _, v := range sc.ticks(tickCount) {
		y := sc.at(v)
		s.Line(x-tickSize, y, x, y, axisStroke)
		s.Text(x-tickSize-3, y+3, formatValue(v), ts)
	}
}

// crowded reports whether any label is wider than the space per category.
// Glyphs are estimated at 0.6em.
func crowded(labels []string, step float64) bool {
	for _, l := range labels {
		if float64(utf8.RuneCountInString(l))*tickFontSize*0.6 > step {
			return true
		}
	}
	return false
}
