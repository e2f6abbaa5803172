package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/state"
)

var (
	paperColor  = color.NRGBA{R: 0xfb, G: 0xfa, B: 0xf6, A: 0xff}
	strokeColor = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
)

// BoardWidget is the drawing surface. Pointer events go to the controller;
// every board change replaces the shapes it draws and triggers a full
// redraw.
type BoardWidget struct {
	widget.BaseWidget
	controller *state.Controller
	shapes     []state.Shape
	readOnly   bool
	statusBar  *widget.Label
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(c *state.Controller) *BoardWidget {
	b := &BoardWidget{
		controller: c,
		shapes:     c.Board().Shapes(),
		statusBar:  widget.NewLabel("Ready"),
	}
	b.ExtendBaseWidget(b)
	c.Board().OnChange(func(s state.Snapshot) {
		b.shapes = s.Shapes
		b.Refresh()
	})
	return b
}

func (b *BoardWidget) Controller() *state.Controller { return b.controller }

// Shapes returns what the widget currently draws.
func (b *BoardWidget) Shapes() []state.Shape { return b.shapes }

// SetReadOnly makes the widget ignore pointer input, for viewers.
func (b *BoardWidget) SetReadOnly(ro bool) { b.readOnly = ro }

func (b *BoardWidget) StatusBar() *widget.Label { return b.statusBar }

// SetStatus updates the status label; safe from any goroutine.
func (b *BoardWidget) SetStatus(text string) {
	fyne.Do(func() { b.statusBar.SetText(text) })
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if b.readOnly || e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.controller.PointerDown(float64(e.Position.X), float64(e.Position.Y))
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if b.readOnly || e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.controller.PointerUp()
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if b.readOnly {
		return
	}
	b.controller.PointerMove(float64(e.Position.X), float64(e.Position.Y))
}

func (b *BoardWidget) DragEnd() {
	if b.readOnly {
		return
	}
	b.controller.PointerUp()
}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	if b.readOnly {
		return
	}
	b.controller.PointerMove(float64(e.Position.X), float64(e.Position.Y))
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}
func (b *BoardWidget) MouseOut()                   {}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardRenderer{board: b, background: canvas.NewRectangle(paperColor)}
	r.rebuild()
	return r
}

type boardRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	objects    []fyne.CanvasObject
}

// rebuild clears the surface and turns every shape's segments into lines.
func (r *boardRenderer) rebuild() {
	objects := []fyne.CanvasObject{r.background}
	for _, s := range r.board.shapes {
		if s.Handle == nil {
			continue
		}
		width := float32(s.Handle.StrokeWidth())
		for _, seg := range s.Handle.Segments() {
			l := canvas.NewLine(strokeColor)
			l.StrokeWidth = width
			l.Position1 = fyne.NewPos(float32(seg.A.X), float32(seg.A.Y))
			l.Position2 = fyne.NewPos(float32(seg.B.X), float32(seg.B.Y))
			objects = append(objects, l)
		}
	}
	r.objects = objects
}

func (r *boardRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *boardRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.board)
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
}

func (r *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardRenderer) Destroy() {}
