package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/state"
)

var toolLabels = []struct {
	label string
	tool  state.Tool
}{
	{"Select", state.ToolSelect},
	{"Line", state.ToolLine},
	{"Rectangle", state.ToolRectangle},
}

// ToolSelector is the radio group that picks the active tool. It implements
// state.ToolSource.
type ToolSelector struct {
	Radio *widget.RadioGroup
	tool  state.Tool
}

var _ state.ToolSource = (*ToolSelector)(nil)

func NewToolSelector(initial state.Tool) *ToolSelector {
	s := &ToolSelector{tool: state.ToolLine}
	options := make([]string, len(toolLabels))
	for i, tl := range toolLabels {
		options[i] = tl.label
	}
	s.Radio = widget.NewRadioGroup(options, func(label string) {
		for _, tl := range toolLabels {
			if tl.label == label {
				s.tool = tl.tool
				return
			}
		}
	})
	s.Radio.Horizontal = true
	s.Radio.Required = true
	s.SetTool(initial)
	return s
}

func (s *ToolSelector) Tool() state.Tool { return s.tool }

// SetTool selects t; unknown tools are ignored.
func (s *ToolSelector) SetTool(t state.Tool) {
	for _, tl := range toolLabels {
		if tl.tool == t {
			s.tool = t
			s.Radio.SetSelected(tl.label)
			return
		}
	}
}

func (s *ToolSelector) Disable() { s.Radio.Disable() }

// Actions are the toolbar's button callbacks. Nil entries hide the button.
type Actions struct {
	Clear     func()
	ExportPDF func()
	ExportPNG func()
}

// NewToolbar lays out the tool selector, action buttons and status label.
func NewToolbar(board *BoardWidget, tools *ToolSelector, actions Actions) fyne.CanvasObject {
	var items []widget.ToolbarItem
	if actions.Clear != nil {
		items = append(items, widget.NewToolbarAction(theme.DeleteIcon(), actions.Clear))
	}
	if actions.ExportPDF != nil || actions.ExportPNG != nil {
		items = append(items, widget.NewToolbarSeparator())
	}
	if actions.ExportPDF != nil {
		items = append(items, widget.NewToolbarAction(theme.DocumentSaveIcon(), actions.ExportPDF))
	}
	if actions.ExportPNG != nil {
		items = append(items, widget.NewToolbarAction(theme.FileImageIcon(), actions.ExportPNG))
	}

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		tools.Radio,
		widget.NewSeparator(),
		widget.NewToolbar(items...),
		layout.NewSpacer(),
		board.StatusBar(),
	)
}
