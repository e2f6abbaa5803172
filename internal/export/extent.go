// Package export writes the board's rough strokes to PDF and PNG files.
package export

import "SketchBoard/internal/state"

// extent is the bounding box of every drawable segment. Shapes without a
// handle do not count.
func extent(shapes []state.Shape) (state.Rect, bool) {
	var r state.Rect
	found := false
	for _, s := range shapes {
		if s.Handle == nil {
			continue
		}
		for _, seg := range s.Handle.Segments() {
			sr := state.Rect{Min: seg.A, Max: seg.A}.Union(state.Rect{Min: seg.B, Max: seg.B})
			if !found {
				r, found = sr, true
				continue
			}
			r = r.Union(sr)
		}
	}
	return r, found
}
