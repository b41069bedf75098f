package chart

import (
	"math"
	"strconv"

	"github.com/AngelCh415/leadpane/internal/models"
)

const tickCount = 10

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// linearScale maps [d0,d1] onto [r0,r1].
type linearScale struct {
	d0, d1, r0, r1 float64
}

func (s linearScale) at(v float64) float64 {
	if s.d1 == s.d0 {
		return s.r0
	}
	return s.r0 + (v-s.d0)/(s.d1-s.d0)*(s.r1-s.r0)
}

// nice widens the domain to round tick boundaries.
func (s linearScale) nice(count int) linearScale {
	start, stop := s.d0, s.d1
	if !(stop > start) || count <= 0 {
		return s
	}
	var prev float64
	for i := 0; i < 10; i++ {
		step := tickIncrement(start, stop, count)
		if step == prev {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			return s
		}
		prev = step
	}
	s.d0, s.d1 = start, stop
	return s
}

func (s linearScale) ticks(count int) []float64 {
	start, stop := s.d0, s.d1
	if !(stop > start) || count <= 0 {
		return []float64{start}
	}
	step := tickIncrement(start, stop, count)
	if step == 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil
	}
	var out []float64
	if step > 0 {
		i0, i1 := math.Ceil(start/step), math.Floor(stop/step)
		for i := i0; i <= i1; i++ {
			out = append(out, i*step)
		}
		return out
	}
	inv := -step
	i0, i1 := math.Ceil(start*inv), math.Floor(stop*inv)
	for i := i0; i <= i1; i++ {
		out = append(out, i/inv)
	}
	return out
}

// tickIncrement returns a 1-2-5 step; negative results are inverted
// fractional steps, which keeps tick values exact.
func tickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / math.Max(0, float64(count))
	power := math.Floor(math.Log10(step))
	err := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case err >= e10:
		factor = 10
	case err >= e5:
		factor = 5
	case err >= e2:
		factor = 2
	}
	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}

// valueScale is the shared y axis of the bar and line charts: 0 to the
// rounded-up maximum, or 0 to 1 when nothing is positive.
func valueScale(items []models.Item, bottom, top float64) linearScale {
	hi := 0.0
	for _, it := range items {
		if it.Value > hi {
			hi = it.Value
		}
	}
	if hi <= 0 || math.IsInf(hi, 0) {
		hi = 1
	}
	return linearScale{d0: 0, d1: hi, r0: bottom, r1: top}.nice(tickCount)
}

// bandScale lays out n equal bands, as d3.scaleBand with symmetric padding.
type bandScale struct {
	start, step, bandwidth float64
}

func newBand(n int, r0, r1, padding float64) bandScale {
	fn := float64(n)
	step := (r1 - r0) / math.Max(1, fn-padding+padding*2)
	start := r0 + (r1-r0-step*(fn-padding))*0.5
	return bandScale{start: start, step: step, bandwidth: step * (1 - padding)}
}

func (b bandScale) at(i int) float64 { return b.start + b.step*float64(i) }

func (b bandScale) center(i int) float64 { return b.at(i) + b.bandwidth/2 }

// newPoint spaces n points across the range; a single point sits centred.
func newPoint(n int, r0, r1 float64) bandScale {
	fn := float64(n)
	step := (r1 - r0) / math.Max(1, fn-1)
	start := r0 + (r1-r0-step*(fn-1))*0.5
	return bandScale{start: start, step: step}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// num formats a coordinate for path data and attributes.
func num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
