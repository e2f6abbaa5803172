// Package rough generates hand-drawn looking primitives.
//
// Every straight edge is drawn as two passes of a cubic Bézier whose control
// points are jittered perpendicular to and along the edge. The jitter scale
// shrinks for long edges so lines do not look drunk. All randomness comes
// from a seeded PCG source owned by the Generator, so a fixed seed and call
// sequence always yields the same drawing.
package rough

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"SketchBoard/internal/state"
)

// Options tunes the look. Zero Roughness draws straight, exact lines.
type Options struct {
	Roughness   float64
	Bowing      float64
	StrokeWidth float64
	// MaxOffset bounds endpoint jitter before the roughness gain is applied.
	MaxOffset float64
	// CurveSteps is the number of straight pieces each curve flattens into.
	CurveSteps int
	// Seed 0 seeds from the clock.
	Seed uint64
}

func DefaultOptions() Options {
	return Options{Roughness: 1, Bowing: 1, StrokeWidth: 1, MaxOffset: 2, CurveSteps: 10}
}

// Generator is not safe for concurrent use.
type Generator struct {
	opts Options
	rnd  *rand.Rand
}

var _ state.Renderer = (*Generator)(nil)

func NewGenerator(opts Options) *Generator {
	if opts.MaxOffset <= 0 {
		opts.MaxOffset = 2
	}
	if opts.CurveSteps <= 0 {
		opts.CurveSteps = 10
	}
	if opts.StrokeWidth <= 0 {
		opts.StrokeWidth = 1
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Generator{opts: opts, rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (g *Generator) Options() Options { return g.opts }

// Line draws a rough line between two points.
func (g *Generator) Line(x1, y1, x2, y2 float64) state.Drawable {
	return g.drawable("line", g.doubleLine(x1, y1, x2, y2))
}

// Rectangle draws the four sides of the rectangle at (x, y) with signed
// width and height.
func (g *Generator) Rectangle(x, y, w, h float64) state.Drawable {
	pts := [4]state.Point{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}
	var ops []Op
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		ops = append(ops, g.doubleLine(a.X, a.Y, b.X, b.Y)...)
	}
	return g.drawable("rectangle", ops)
}

func (g *Generator) drawable(shape string, ops []Op) *Drawable {
	return &Drawable{
		id:     uuid.NewString(),
		shape:  shape,
		stroke: g.opts.StrokeWidth,
		steps:  g.opts.CurveSteps,
		Sets:   []OpSet{{Type: OpSetPath, Ops: ops}},
	}
}

func (g *Generator) doubleLine(x1, y1, x2, y2 float64) []Op {
	first := g.line(x1, y1, x2, y2, false)
	second := g.line(x1, y1, x2, y2, true)
	return append(first, second...)
}

// line emits a move and one jittered cubic for the edge. The overlay pass
// uses half the endpoint jitter of the first.
func (g *Generator) line(x1, y1, x2, y2 float64, overlay bool) []Op {
	lengthSq := (x1-x2)*(x1-x2) + (y1-y2)*(y1-y2)
	length := math.Sqrt(lengthSq)
	gain := roughnessGain(length)

	offset := g.opts.MaxOffset
	if offset*offset*100 > lengthSq {
		offset = length / 10
	}
	half := offset / 2
	diverge := 0.2 + g.rnd.Float64()*0.2

	midX := g.opts.Bowing * g.opts.MaxOffset * (y2 - y1) / 200
	midY := g.opts.Bowing * g.opts.MaxOffset * (x1 - x2) / 200
	midX = g.jitter(midX, gain)
	midY = g.jitter(midY, gain)

	end := offset
	if overlay {
		end = half
	}
	j := func(v float64) float64 { return g.jitter(v, gain) }

	return []Op{
		{Kind: OpMove, Data: []float64{x1 + j(end), y1 + j(end)}},
		{Kind: OpBCurveTo, Data: []float64{
			midX + x1 + (x2-x1)*diverge + j(end), midY + y1 + (y2-y1)*diverge + j(end),
			midX + x1 + 2*(x2-x1)*diverge + j(end), midY + y1 + 2*(y2-y1)*diverge + j(end),
			x2 + j(end), y2 + j(end),
		}},
	}
}

// jitter returns a random value in [-v, v) scaled by roughness and gain.
func (g *Generator) jitter(v, gain float64) float64 {
	return g.opts.Roughness * gain * (g.rnd.Float64()*2*v - v)
}

func roughnessGain(length float64) float64 {
	switch {
	case length < 200:
		return 1
	case length > 500:
		return 0.4
	default:
		return -0.0016668*length + 1.233334
	}
}
