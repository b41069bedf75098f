// Package chart draws aggregated views onto a 2D surface. Renderers keep no
// state between calls: each one starts with Begin, which wipes the surface,
// and ends with End.
package chart

type ViewBox struct {
	MinX, MinY, Width, Height float64
}

type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
}

type TextStyle struct {
	Anchor string  // start, middle or end
	Size   float64 // font size in px
	Rotate float64 // degrees, around the text anchor point
	Fill   string
}

// Surface is a drawing target of known size. A zero width or height lets the
// renderer pick its default.
type Surface interface {
	Size() (width, height float64)
	Begin(vb ViewBox)
	// Group opens a group whose elements share a hover title (may be empty).
	Group(title string)
	EndGroup()
	Path(d string, st Style)
	Rect(x, y, w, h float64, st Style)
	Circle(cx, cy, r float64, st Style)
	Line(x1, y1, x2, y2 float64, st Style)
	Text(x, y float64, s string, st TextStyle)
	End()
}

func dims(s Surface, defW, defH float64) (float64, float64) {
	w, h := s.Size()
	if w <= 0 {
		w = defW
	}
	if h <= 0 {
		h = defH
	}
	return w, h
}
