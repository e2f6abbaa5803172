package state

import (
	"testing"

	"github.com/google/uuid"
)

func TestAppendAssignsIndexIDs(t *testing.T) {
	b := NewBoard(&stubRenderer{})
	for i := 0; i < 3; i++ {
		id := b.Append(Shape{ID: 99, Type: ShapeLine})
		if id != i {
			t.Fatalf("Append #%d returned id %d", i, id)
		}
	}
	for i, s := range b.Shapes() {
		if s.ID != i {
			t.Fatalf("shape at %d has id %d", i, s.ID)
		}
	}
}

func TestMutationsAreCopyOnWrite(t *testing.T) {
	b := NewBoard(&stubRenderer{})
	var seen [][]Shape
	b.OnChange(func(s Snapshot) { seen = append(seen, s.Shapes) })

	b.Append(Shape{X2: 1, Type: ShapeLine})
	b.Append(Shape{X2: 2, Type: ShapeLine})
	b.Replace(0, Shape{X1: 5, X2: 6, Type: ShapeLine})

	if len(seen) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(seen))
	}
	if len(seen[0]) != 1 || seen[0][0].X2 != 1 {
		t.Fatalf("first delivered slice changed: %+v", seen[0])
	}
	if seen[1][0].X1 != 0 {
		t.Fatalf("second delivered slice was written by Replace: %+v", seen[1][0])
	}
	if seen[2][0].X1 != 5 || seen[2][0].ID != 0 {
		t.Fatalf("replace not visible in latest slice: %+v", seen[2][0])
	}
}

func TestReplaceOutOfRange(t *testing.T) {
	b := NewBoard(&stubRenderer{})
	notified := 0
	b.OnChange(func(Snapshot) { notified++ })
	if b.Replace(0, Shape{}) || b.Replace(-1, Shape{}) {
		t.Fatal("Replace on empty board should fail")
	}
	if notified != 0 {
		t.Fatalf("failed replace notified %d times", notified)
	}
}

func TestSnapshotRevisions(t *testing.T) {
	b := NewBoard(&stubRenderer{})
	var revs []uint64
	b.OnChange(func(s Snapshot) {
		if s.Site != b.Clock().Site() {
			t.Errorf("snapshot site %q, want %q", s.Site, b.Clock().Site())
		}
		revs = append(revs, s.Revision)
	})
	b.Append(Shape{Type: ShapeLine})
	b.Replace(0, Shape{X2: 3, Type: ShapeLine})
	b.Clear()
	if len(revs) != 3 || revs[0] != 1 || revs[1] != 2 || revs[2] != 3 {
		t.Fatalf("revisions = %v", revs)
	}
	if snap := b.Snapshot(); snap.Revision != 3 || len(snap.Shapes) != 0 {
		t.Fatalf("snapshot after clear = %+v", snap)
	}
	if _, err := uuid.Parse(b.Clock().Site()); err != nil {
		t.Fatalf("site is not a uuid: %v", err)
	}
}

func TestFindShapeAtPrefersEarliest(t *testing.T) {
	shapes := []Shape{
		{ID: 0, X1: 0, Y1: 0, X2: 100, Y2: 100, Type: ShapeRectangle},
		{ID: 1, X1: 20, Y1: 20, X2: 40, Y2: 40, Type: ShapeRectangle},
		{ID: 2, X1: 200, Y1: 200, X2: 300, Y2: 300, Type: ShapeRectangle},
	}
	s, ok := FindShapeAt(30, 30, shapes)
	if !ok || s.ID != 0 {
		t.Fatalf("expected shape 0, got %+v ok=%v", s, ok)
	}
	s, ok = FindShapeAt(250, 250, shapes)
	if !ok || s.ID != 2 {
		t.Fatalf("expected shape 2, got %+v ok=%v", s, ok)
	}
	if _, ok := FindShapeAt(150, 150, shapes); ok {
		t.Fatal("expected miss between shapes")
	}
	if _, ok := FindShapeAt(0, 0, nil); ok {
		t.Fatal("expected miss on empty collection")
	}
}

func TestLoadRenumbersAndRebuildsHandles(t *testing.T) {
	r := &stubRenderer{}
	b := NewBoard(r)
	b.Load([]Shape{
		{ID: 7, X1: 1, Y1: 2, X2: 3, Y2: 4, Type: ShapeLine},
		{ID: 3, X1: 10, Y1: 10, X2: 20, Y2: 30, Type: ShapeRectangle},
	})
	if b.Len() != 2 {
		t.Fatalf("Len = %d", b.Len())
	}
	for i, s := range b.Shapes() {
		if s.ID != i {
			t.Errorf("shape %d has id %d", i, s.ID)
		}
		if s.Handle == nil {
			t.Errorf("shape %d has no handle", i)
		}
	}
	if want := "rect 10,10 10x20"; r.calls[1] != want {
		t.Errorf("renderer call = %q, want %q", r.calls[1], want)
	}
}

func TestMakeShape(t *testing.T) {
	r := &stubRenderer{}
	a := MakeShape(r, 0, 10, 10, 50, 50, ShapeRectangle)
	b := MakeShape(r, 0, 10, 10, 50, 50, ShapeRectangle)
	want := Shape{ID: 0, X1: 10, Y1: 10, X2: 50, Y2: 50, Type: ShapeRectangle}
	if !a.SameGeometry(want) || !a.SameGeometry(b) {
		t.Fatalf("geometry differs: %+v %+v", a, b)
	}
	if a.Handle.ID() == b.Handle.ID() {
		t.Fatal("handles should be distinct")
	}
	if u := MakeShape(r, 0, 0, 0, 1, 1, "ellipse"); u.Handle != nil {
		t.Fatal("unknown type should have no handle")
	}
}

func TestTranslateKeepsSize(t *testing.T) {
	s := MakeShape(&stubRenderer{}, 4, 10, 20, 60, 5, ShapeLine)
	m := s.Translate(&stubRenderer{}, 100, 100)
	if m.ID != 4 || m.X1 != 100 || m.Y1 != 100 || m.X2 != 150 || m.Y2 != 85 {
		t.Fatalf("unexpected translate result %+v", m)
	}
}
