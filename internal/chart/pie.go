package chart

import (
	"fmt"
	"math"

	"github.com/AngelCh415/leadpane/internal/models"
)

const (
	emptyRingColor = "#e5e7eb"
	legendSwatch   = 12
	legendRow      = 18
	legendFontSize = 12
)

// Pie draws a donut with one arc per item, proportional to its share of the
// total, plus a legend. A nil colors map is filled from Tableau10.
func Pie(s Surface, items []models.Item, colors ColorMap) {
	w, h := dims(s, 400, 280)
	r := math.Max(math.Min(w, h)/2-10, 1)
	inner := r * 0.5
	if colors == nil {
		colors = AssignColors(keysOf(items), Tableau10)
	}

	s.Begin(ViewBox{MinX: -w / 2, MinY: -h / 2, Width: w, Height: h})

	total := 0.0
	for _, it := range items {
		total += math.Max(it.Value, 0)
	}
	if total <= 0 {
		s.Path(ringPath(inner, r), Style{Fill: emptyRingColor})
	} else {
		a0 := 0.0
		for _, it := range items {
			v := math.Max(it.Value, 0)
			if v == 0 {
				continue
			}
			a1 := a0 + v/total*2*math.Pi
			s.Group(fmt.Sprintf("%s: %s", it.Key, formatValue(it.Value)))
			s.Path(arcPath(inner, r, a0, a1), Style{Fill: colors.Color(it.Key)})
			s.EndGroup()
			a0 = a1
		}
	}

	lx, ly := r+20, -r
	for i, it := range items {
		y := ly + float64(i*legendRow)
		s.Rect(lx, y, legendSwatch, legendSwatch, Style{Fill: colors.Color(it.Key)})
		s.Text(lx+18, y+10, fmt.Sprintf("%s (%s)", it.Key, formatValue(it.Value)), TextStyle{Size: legendFontSize})
	}
	s.End()
}

func keysOf(items []models.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Key
	}
	return out
}

// polar converts an angle measured clockwise from 12 o'clock.
func polar(radius, angle float64) (float64, float64) {
	return radius * math.Sin(angle), -radius * math.Cos(angle)
}

func arcPath(inner, outer, a0, a1 float64) string {
	if a1-a0 >= 2*math.Pi-1e-9 {
		return ringPath(inner, outer)
	}
	large := 0
	if a1-a0 > math.Pi {
		large = 1
	}
	ox0, oy0 := polar(outer, a0)
	ox1, oy1 := polar(outer, a1)
	ix1, iy1 := polar(inner, a1)
	ix0, iy0 := polar(inner, a0)
	return fmt.Sprintf("M%s,%sA%s,%s 0 %d,1 %s,%sL%s,%sA%s,%s 0 %d,0 %s,%sZ",
		num(ox0), num(oy0), num(outer), num(outer), large, num(ox1), num(oy1),
		num(ix1), num(iy1), num(inner), num(inner), large, num(ix0), num(iy0))
}

// ringPath is a full annulus; the inner circle runs the other way so it
// stays a hole under the nonzero fill rule.
func ringPath(inner, outer float64) string {
	o, i := num(outer), num(inner)
	return fmt.Sprintf("M0,-%sA%s,%s 0 1,1 0,%sA%s,%s 0 1,1 0,-%sZM0,-%sA%s,%s 0 1,0 0,%sA%s,%s 0 1,0 0,-%sZ",
		o, o, o, o, o, o, o, i, i, i, i, i, i, i)
}
