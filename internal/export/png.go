package export

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/fogleman/gg"

	"SketchBoard/internal/state"
)

// PNGOptions sizes the raster. A zero Width or Height is derived from the
// drawing's extent plus Margin on each side.
type PNGOptions struct {
	Width, Height int
	Margin        float64
}

func DefaultPNGOptions() PNGOptions {
	return PNGOptions{Margin: 20}
}

// WritePNG rasterizes the shapes' rough strokes on a white background. Shapes
// are drawn at board coordinates shifted so the drawing's top-left sits at
// the margin.
func WritePNG(w io.Writer, shapes []state.Shape, opts PNGOptions) error {
	ext, _ := extent(shapes)
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = int(math.Ceil(ext.Width() + 2*opts.Margin))
	}
	if height <= 0 {
		height = int(math.Ceil(ext.Height() + 2*opts.Margin))
	}
	width, height = max(width, 1), max(height, 1)

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB255(0x33, 0x33, 0x33)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	dc.Translate(opts.Margin-ext.Min.X, opts.Margin-ext.Min.Y)

	for _, s := range shapes {
		if s.Handle == nil {
			continue
		}
		dc.SetLineWidth(s.Handle.StrokeWidth())
		for _, seg := range s.Handle.Segments() {
			dc.DrawLine(seg.A.X, seg.A.Y, seg.B.X, seg.B.Y)
		}
		dc.Stroke()
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// PNG writes the shapes to a PNG file at path.
func PNG(path string, shapes []state.Shape, opts PNGOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WritePNG(f, shapes, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
