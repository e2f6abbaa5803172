package state

import "fmt"

// stubRenderer records calls and hands out numbered handles.
type stubRenderer struct {
	n     int
	calls []string
}

type stubDrawable struct {
	id   string
	segs []Segment
}

func (d stubDrawable) ID() string           { return d.id }
func (d stubDrawable) Segments() []Segment  { return d.segs }
func (d stubDrawable) StrokeWidth() float64 { return 1 }

func (r *stubRenderer) next(kind string, segs ...Segment) Drawable {
	r.n++
	return stubDrawable{id: fmt.Sprintf("%s-%d", kind, r.n), segs: segs}
}

func (r *stubRenderer) Line(x1, y1, x2, y2 float64) Drawable {
	r.calls = append(r.calls, fmt.Sprintf("line %g,%g %g,%g", x1, y1, x2, y2))
	return r.next("line", Segment{Point{x1, y1}, Point{x2, y2}})
}

func (r *stubRenderer) Rectangle(x, y, w, h float64) Drawable {
	r.calls = append(r.calls, fmt.Sprintf("rect %g,%g %gx%g", x, y, w, h))
	return r.next("rect")
}

type fixedTool Tool

func (f *fixedTool) Tool() Tool { return Tool(*f) }

func newTestController(tool Tool) (*Controller, *fixedTool) {
	ft := fixedTool(tool)
	return NewController(NewBoard(&stubRenderer{}), &ft), &ft
}
