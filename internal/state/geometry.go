package state

import "math"

// lineTolerance is how far the detour through a point may exceed a line's
// length for the point to count as on the line.
const lineTolerance = 1.0

func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// PointInShape reports whether (x, y) hits s. Rectangles use their
// normalized bounding box with inclusive edges; lines accept points whose
// distances to both endpoints sum to within lineTolerance of the length.
func PointInShape(x, y float64, s Shape) bool {
	switch s.Type {
	case ShapeRectangle:
		return Bounds(s).Contains(Point{x, y})
	case ShapeLine:
		a, b, c := Point{s.X1, s.Y1}, Point{s.X2, s.Y2}, Point{x, y}
		offset := Distance(a, b) - (Distance(a, c) + Distance(b, c))
		return math.Abs(offset) < lineTolerance
	}
	return false
}

// Rect is an axis-aligned box given by its min and max corners.
type Rect struct{ Min, Max Point }

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Union returns the smallest rect covering both.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Point{math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)},
		Max: Point{math.Max(r.Max.X, o.Max.X), math.Max(r.Max.Y, o.Max.Y)},
	}
}

// Bounds normalizes the shape's endpoints into a Rect, whichever corner
// order they were drawn in.
func Bounds(s Shape) Rect {
	return Rect{
		Min: Point{math.Min(s.X1, s.X2), math.Min(s.Y1, s.Y2)},
		Max: Point{math.Max(s.X1, s.X2), math.Max(s.Y1, s.Y2)},
	}
}
