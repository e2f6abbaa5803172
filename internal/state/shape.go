package state

// MakeShape builds a shape record and its drawable. Rectangles are handed to
// the renderer as origin plus signed width and height, so a rectangle dragged
// up or left keeps its first corner fixed. An unknown type gets a nil handle
// and is never drawn.
func MakeShape(r Renderer, id int, x1, y1, x2, y2 float64, typ ShapeType) Shape {
	var h Drawable
	if r != nil {
		switch typ {
		case ShapeLine:
			h = r.Line(x1, y1, x2, y2)
		case ShapeRectangle:
			h = r.Rectangle(x1, y1, x2-x1, y2-y1)
		}
	}
	return Shape{ID: id, X1: x1, Y1: y1, X2: x2, Y2: y2, Type: typ, Handle: h}
}

// Translate returns s moved so that its first endpoint sits at (x1, y1),
// keeping its width and height.
func (s Shape) Translate(r Renderer, x1, y1 float64) Shape {
	w, h := s.X2-s.X1, s.Y2-s.Y1
	return MakeShape(r, s.ID, x1, y1, x1+w, y1+h, s.Type)
}

// SameGeometry reports whether two shapes have equal id, type and endpoints,
// ignoring their handles.
func (s Shape) SameGeometry(o Shape) bool {
	return s.ID == o.ID && s.Type == o.Type &&
		s.X1 == o.X1 && s.Y1 == o.Y1 && s.X2 == o.X2 && s.Y2 == o.Y2
}
