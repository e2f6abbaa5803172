package state

import (
	"log/slog"

	"SketchBoard/internal/log"
)

// Board is the ordered shape collection. Index is id and z-order. Every
// mutation builds a new backing slice, so slices handed to listeners or
// returned by Shapes are never written to afterwards.
//
// Board is not safe for concurrent use; it belongs to the UI goroutine.
type Board struct {
	shapes    []Shape
	renderer  Renderer
	clock     *Clock
	listeners []func(Snapshot)
	logger    *slog.Logger
}

func NewBoard(r Renderer) *Board {
	return &Board{
		renderer: r,
		clock:    NewClock(),
		logger:   log.WithComponent("board"),
	}
}

func (b *Board) Renderer() Renderer { return b.renderer }
func (b *Board) Clock() *Clock      { return b.clock }

// OnChange registers fn to be called synchronously after every mutation.
func (b *Board) OnChange(fn func(Snapshot)) {
	b.listeners = append(b.listeners, fn)
}

func (b *Board) Len() int { return len(b.shapes) }

// Shapes returns the current shapes. The slice must not be modified.
func (b *Board) Shapes() []Shape { return b.shapes }

func (b *Board) At(id int) (Shape, bool) {
	if id < 0 || id >= len(b.shapes) {
		return Shape{}, false
	}
	return b.shapes[id], true
}

func (b *Board) Last() (Shape, bool) {
	return b.At(len(b.shapes) - 1)
}

// Append adds s on top, overriding its ID with its new index.
func (b *Board) Append(s Shape) int {
	s.ID = len(b.shapes)
	next := make([]Shape, len(b.shapes), len(b.shapes)+1)
	copy(next, b.shapes)
	b.commit(append(next, s))
	return s.ID
}

// Replace swaps the shape at id for s. Out-of-range ids are ignored.
func (b *Board) Replace(id int, s Shape) bool {
	if id < 0 || id >= len(b.shapes) {
		b.logger.Warn("replace ignored", "id", id, "len", len(b.shapes))
		return false
	}
	s.ID = id
	next := make([]Shape, len(b.shapes))
	copy(next, b.shapes)
	next[id] = s
	b.commit(next)
	return true
}

func (b *Board) Clear() {
	b.commit(nil)
}

// Load replaces the whole collection with the given geometry, renumbering
// ids by position and regenerating every handle with this board's renderer.
func (b *Board) Load(shapes []Shape) {
	next := make([]Shape, len(shapes))
	for i, s := range shapes {
		next[i] = MakeShape(b.renderer, i, s.X1, s.Y1, s.X2, s.Y2, s.Type)
	}
	b.commit(next)
}

// FindShapeAt hit-tests the current shapes.
func (b *Board) FindShapeAt(x, y float64) (Shape, bool) {
	return FindShapeAt(x, y, b.shapes)
}

// Snapshot returns the current contents stamped with the latest revision.
func (b *Board) Snapshot() Snapshot {
	return Snapshot{Site: b.clock.Site(), Revision: b.clock.Revision(), Shapes: b.shapes}
}

func (b *Board) commit(next []Shape) {
	b.shapes = next
	snap := Snapshot{Site: b.clock.Site(), Revision: b.clock.Next(), Shapes: next}
	for _, fn := range b.listeners {
		fn(snap)
	}
}

// FindShapeAt returns the lowest-index shape containing (x, y). An earlier
// shape wins even when a later one is drawn over it.
func FindShapeAt(x, y float64, shapes []Shape) (Shape, bool) {
	for _, s := range shapes {
		if PointInShape(x, y, s) {
			return s, true
		}
	}
	return Shape{}, false
}
