package state

import (
	"log/slog"

	"SketchBoard/internal/log"
)

// ToolSource reports the active tool. The controller reads it on every
// pointer press and never changes it.
type ToolSource interface {
	Tool() Tool
}

// ToolFunc adapts a function to ToolSource.
type ToolFunc func() Tool

func (f ToolFunc) Tool() Tool { return f() }

// Selection is the shape grabbed by the select tool and the pointer's offset
// from its first endpoint at the time of the grab.
type Selection struct {
	Shape            Shape
	OffsetX, OffsetY float64
}

// Controller turns pointer events into board changes. Idle → drawing on a
// press with a drawing tool, idle → moving on a press with the select tool
// over a shape, back to idle on release.
type Controller struct {
	board    *Board
	tools    ToolSource
	mode     Mode
	selected *Selection
	logger   *slog.Logger
}

func NewController(b *Board, tools ToolSource) *Controller {
	return &Controller{board: b, tools: tools, logger: log.WithComponent("controller")}
}

func (c *Controller) Board() *Board { return c.board }
func (c *Controller) Mode() Mode    { return c.mode }

func (c *Controller) Selection() (Selection, bool) {
	if c.selected == nil {
		return Selection{}, false
	}
	return *c.selected, true
}

func (c *Controller) PointerDown(x, y float64) {
	if c.mode != ModeIdle {
		return
	}
	tool := c.tools.Tool()
	if tool == ToolSelect {
		s, ok := c.board.FindShapeAt(x, y)
		if !ok {
			return
		}
		c.selected = &Selection{Shape: s, OffsetX: x - s.X1, OffsetY: y - s.Y1}
		c.setMode(ModeMoving)
		return
	}
	typ, ok := tool.ShapeType()
	if !ok {
		// Unrecognized tools still start a shape; it just has no drawable.
		typ = ShapeType(tool)
	}
	c.board.Append(MakeShape(c.board.Renderer(), c.board.Len(), x, y, x, y, typ))
	c.setMode(ModeDrawing)
}

func (c *Controller) PointerMove(x, y float64) {
	switch c.mode {
	case ModeDrawing:
		last, ok := c.board.Last()
		if !ok {
			return
		}
		c.board.Replace(last.ID, MakeShape(c.board.Renderer(), last.ID, last.X1, last.Y1, x, y, last.Type))
	case ModeMoving:
		sel := c.selected
		c.board.Replace(sel.Shape.ID, sel.Shape.Translate(c.board.Renderer(), x-sel.OffsetX, y-sel.OffsetY))
	}
}

func (c *Controller) PointerUp() {
	c.selected = nil
	c.setMode(ModeIdle)
}

// Clear empties the board and drops any interaction in progress.
func (c *Controller) Clear() {
	c.selected = nil
	c.setMode(ModeIdle)
	c.board.Clear()
}

func (c *Controller) setMode(m Mode) {
	if c.mode == m {
		return
	}
	c.logger.Debug("mode", "from", c.mode.String(), "to", m.String(), "shapes", c.board.Len())
	c.mode = m
}
