package state

type Point struct{ X, Y float64 }

// Segment is one straight piece of a flattened drawable.
type Segment struct{ A, B Point }

// Tool is what the pointer does on press. Line and Rectangle double as
// shape types.
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolLine      Tool = "line"
	ToolRectangle Tool = "rectangle"
)

type ShapeType string

const (
	ShapeLine      ShapeType = "line"
	ShapeRectangle ShapeType = "rectangle"
)

// ShapeType returns the shape a drawing tool produces; the select tool
// produces none.
func (t Tool) ShapeType() (ShapeType, bool) {
	switch t {
	case ToolLine:
		return ShapeLine, true
	case ToolRectangle:
		return ShapeRectangle, true
	}
	return "", false
}

type Mode int

const (
	ModeIdle Mode = iota
	ModeDrawing
	ModeMoving
)

func (m Mode) String() string {
	switch m {
	case ModeDrawing:
		return "drawing"
	case ModeMoving:
		return "moving"
	default:
		return "idle"
	}
}

// Drawable is the render bridge's opaque form of a shape.
type Drawable interface {
	// ID is unique per generated handle, even for identical geometry.
	ID() string
	Segments() []Segment
	StrokeWidth() float64
}

// Renderer produces drawables from geometry.
type Renderer interface {
	Line(x1, y1, x2, y2 float64) Drawable
	Rectangle(x, y, w, h float64) Drawable
}

// Shape is an immutable line or rectangle record. ID is always the shape's
// index in its Board.
type Shape struct {
	ID     int       `json:"id"`
	X1     float64   `json:"x1"`
	Y1     float64   `json:"y1"`
	X2     float64   `json:"x2"`
	Y2     float64   `json:"y2"`
	Type   ShapeType `json:"type"`
	Handle Drawable  `json:"-"`
}

// Snapshot is the board contents after one change, stamped with the
// producing session and its revision.
type Snapshot struct {
	Site     string  `json:"site"`
	Revision uint64  `json:"revision"`
	Shapes   []Shape `json:"shapes"`
}
