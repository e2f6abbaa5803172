package export

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/jung-kurt/gofpdf"

	"SketchBoard/internal/state"
)

// PDFOptions controls page setup. Units are millimetres.
type PDFOptions struct {
	Orientation string // "P" or "L"
	PageSize    string // gofpdf size name, e.g. "A4"
	Margin      float64
	// PxPerMM is the board-pixel to millimetre ratio used before fitting.
	PxPerMM float64
}

func DefaultPDFOptions() PDFOptions {
	return PDFOptions{Orientation: "L", PageSize: "A4", Margin: 10, PxPerMM: 3}
}

// WritePDF draws the shapes' rough strokes on a single page, scaled down to
// fit inside the margins if needed, and writes the document to w.
func WritePDF(w io.Writer, shapes []state.Shape, opts PDFOptions) error {
	if opts.Orientation == "" {
		opts.Orientation = "L"
	}
	if opts.PageSize == "" {
		opts.PageSize = "A4"
	}
	if opts.PxPerMM <= 0 {
		opts.PxPerMM = 3
	}

	p := gofpdf.New(opts.Orientation, "mm", opts.PageSize, "")
	p.SetCreator("SketchBoard", true)
	p.AddPage()
	p.SetDrawColor(0x33, 0x33, 0x33)
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")

	pageW, pageH := p.GetPageSize()
	if ext, ok := extent(shapes); ok {
		scale := 1 / opts.PxPerMM
		availW, availH := pageW-2*opts.Margin, pageH-2*opts.Margin
		if dw := ext.Width() * scale; dw > availW {
			scale *= availW / dw
		}
		if dh := ext.Height() * scale; dh > availH {
			scale *= availH / dh
		}
		tx := func(pt state.Point) (float64, float64) {
			return opts.Margin + (pt.X-ext.Min.X)*scale, opts.Margin + (pt.Y-ext.Min.Y)*scale
		}
		for _, s := range shapes {
			if s.Handle == nil {
				continue
			}
			p.SetLineWidth(math.Max(s.Handle.StrokeWidth()*scale, 0.1))
			for _, seg := range s.Handle.Segments() {
				x1, y1 := tx(seg.A)
				x2, y2 := tx(seg.B)
				p.Line(x1, y1, x2, y2)
			}
		}
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// PDF writes the shapes to a PDF file at path.
func PDF(path string, shapes []state.Shape, opts PDFOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WritePDF(f, shapes, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
