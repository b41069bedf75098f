package chart

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo/float"
)

// SVG renders onto an in-memory SVG document.
type SVG struct {
	width, height float64
	buf           bytes.Buffer
	canvas        *svg.SVG
}

func NewSVG(width, height float64) *SVG {
	return &SVG{width: width, height: height}
}

func (s *SVG) Size() (float64, float64) { return s.width, s.height }

func (s *SVG) Begin(vb ViewBox) {
	s.buf.Reset()
	s.canvas = svg.New(&s.buf)
	s.canvas.Start(vb.Width, vb.Height,
		fmt.Sprintf(`viewBox="%s %s %s %s"`, num(vb.MinX), num(vb.MinY), num(vb.Width), num(vb.Height)))
}

func (s *SVG) Group(title string) {
	s.canvas.Group(`class="mark"`)
	if title != "" {
		s.canvas.Title(title)
	}
}

func (s *SVG) EndGroup() { s.canvas.Gend() }

func (s *SVG) Path(d string, st Style) { s.canvas.Path(d, styleAttrs(st)...) }

func (s *SVG) Rect(x, y, w, h float64, st Style) { s.canvas.Rect(x, y, w, h, styleAttrs(st)...) }

func (s *SVG) Circle(cx, cy, r float64, st Style) { s.canvas.Circle(cx, cy, r, styleAttrs(st)...) }

func (s *SVG) Line(x1, y1, x2, y2 float64, st Style) {
	s.canvas.Line(x1, y1, x2, y2, styleAttrs(st)...)
}

func (s *SVG) Text(x, y float64, text string, st TextStyle) {
	attrs := []string{`font-family="sans-serif"`}
	if st.Size > 0 {
		attrs = append(attrs, fmt.Sprintf(`font-size="%spx"`, num(st.Size)))
	}
	if st.Anchor != "" {
		attrs = append(attrs, fmt.Sprintf(`text-anchor="%s"`, st.Anchor))
	}
	if st.Fill != "" {
		attrs = append(attrs, fmt.Sprintf(`fill="%s"`, st.Fill))
	}
	if st.Rotate != 0 {
		attrs = append(attrs, fmt.Sprintf(`transform="rotate(%s %s %s)"`, num(st.Rotate), num(x), num(y)))
	}
	s.canvas.Text(x, y, text, attrs...)
}

func (s *SVG) End() { s.canvas.End() }

// Bytes returns the last completed document.
func (s *SVG) Bytes() []byte { return bytes.Clone(s.buf.Bytes()) }

func styleAttrs(st Style) []string {
	fill := st.Fill
	if fill == "" {
		fill = "none"
	}
	attrs := []string{fmt.Sprintf(`fill="%s"`, fill)}
	if st.Stroke != "" {
		attrs = append(attrs, fmt.Sprintf(`stroke="%s"`, st.Stroke))
		if st.StrokeWidth > 0 {
			attrs = append(attrs, fmt.Sprintf(`stroke-width="%s"`, num(st.StrokeWidth)))
		}
	}
	return attrs
}
