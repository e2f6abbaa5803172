package rough

import "SketchBoard/internal/state"

type OpKind int

const (
	OpMove OpKind = iota
	OpLineTo
	OpBCurveTo
)

// Op is one path command. Move and LineTo carry x,y; BCurveTo carries two
// control points and the end point.
type Op struct {
	Kind OpKind
	Data []float64
}

type OpSetType int

const (
	OpSetPath OpSetType = iota
)

type OpSet struct {
	Type OpSetType
	Ops  []Op
}

// Drawable is the generated form of one shape.
type Drawable struct {
	id     string
	shape  string
	stroke float64
	steps  int
	Sets   []OpSet
}

var _ state.Drawable = (*Drawable)(nil)

func (d *Drawable) ID() string           { return d.id }
func (d *Drawable) Shape() string        { return d.shape }
func (d *Drawable) StrokeWidth() float64 { return d.stroke }

// Segments flattens every op set into straight segments.
func (d *Drawable) Segments() []state.Segment {
	return d.Flatten(d.steps)
}

// Flatten approximates each cubic with steps straight pieces.
func (d *Drawable) Flatten(steps int) []state.Segment {
	if steps < 1 {
		steps = 1
	}
	var segs []state.Segment
	for _, set := range d.Sets {
		var cur state.Point
		for _, op := range set.Ops {
			switch op.Kind {
			case OpMove:
				cur = state.Point{X: op.Data[0], Y: op.Data[1]}
			case OpLineTo:
				next := state.Point{X: op.Data[0], Y: op.Data[1]}
				segs = append(segs, state.Segment{A: cur, B: next})
				cur = next
			case OpBCurveTo:
				c1 := state.Point{X: op.Data[0], Y: op.Data[1]}
				c2 := state.Point{X: op.Data[2], Y: op.Data[3]}
				end := state.Point{X: op.Data[4], Y: op.Data[5]}
				prev := cur
				for i := 1; i <= steps; i++ {
					p := cubic(cur, c1, c2, end, float64(i)/float64(steps))
					segs = append(segs, state.Segment{A: prev, B: p})
					prev = p
				}
				cur = end
			}
		}
	}
	return segs
}

func cubic(p0, p1, p2, p3 state.Point, t float64) state.Point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return state.Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}
