package ui

import (
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"SketchBoard/internal/export"
	"SketchBoard/internal/log"
	"SketchBoard/internal/state"
)

// AppOptions describes the window to run.
type AppOptions struct {
	Title  string
	Size   fyne.Size
	Board  *BoardWidget
	Tools  *ToolSelector
	Status string
	// Viewer disables drawing and clearing.
	Viewer bool
	// OnStart runs once the app exists, before the window is shown. Start
	// background work that posts to the UI from here.
	OnStart func()
}

// RunApp builds the main window and blocks until it is closed.
func RunApp(opts AppOptions) {
	a := app.NewWithID("io.sketchboard")
	w := a.NewWindow(opts.Title)
	w.Resize(opts.Size)

	board := opts.Board
	actions := Actions{
		ExportPDF: func() { saveExport(w, board, ".pdf", writePDF) },
		ExportPNG: func() { saveExport(w, board, ".png", writePNG) },
	}
	if opts.Viewer {
		board.SetReadOnly(true)
		opts.Tools.Disable()
	} else {
		actions.Clear = func() {
			board.Controller().Clear()
			board.SetStatus("Cleared")
		}
	}

	w.SetContent(container.NewBorder(NewToolbar(board, opts.Tools, actions), nil, nil, nil, board))
	if opts.Status != "" {
		board.StatusBar().SetText(opts.Status)
	}
	if opts.OnStart != nil {
		opts.OnStart()
	}
	w.ShowAndRun()
}

func writePDF(wr io.Writer, shapes []state.Shape) error {
	return export.WritePDF(wr, shapes, export.DefaultPDFOptions())
}

func writePNG(wr io.Writer, shapes []state.Shape) error {
	return export.WritePNG(wr, shapes, export.DefaultPNGOptions())
}

// saveExport asks for a destination and writes the board's current shapes
// there with write.
func saveExport(w fyne.Window, board *BoardWidget, ext string, write func(io.Writer, []state.Shape) error) {
	logger := log.WithComponent("export")
	shapes := board.Shapes()
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if wc == nil {
			return
		}
		defer func() {
			if err := wc.Close(); err != nil {
				logger.Warn("close export", "uri", wc.URI().String(), "err", err)
			}
		}()
		if err := write(wc, shapes); err != nil {
			logger.Error("export failed", "uri", wc.URI().String(), "err", err)
			dialog.ShowError(err, w)
			board.SetStatus("Export failed")
			return
		}
		logger.Info("exported", "uri", wc.URI().String(), "shapes", len(shapes))
		board.SetStatus(fmt.Sprintf("Exported %d shapes", len(shapes)))
	}, w)
	d.SetFileName("sketchboard" + ext)
	d.SetFilter(storage.NewExtensionFileFilter([]string{ext}))
	d.Show()
}
