// Package render drives the noise evaluator over a canvas and paints the
// resulting colors onto a surface.
package render

import (
	"github.com/MeKo-Tech/noisemap/internal/noise"
	"github.com/MeKo-Tech/noisemap/internal/palette"
)

// Painter receives one call per pixel.
type Painter interface {
	Paint(x, y int, c palette.RGB)
}

// PainterFunc adapts a function to the Painter interface.
type PainterFunc func(x, y int, c palette.RGB)

func (f PainterFunc) Paint(x, y int, c palette.RGB) { f(x, y, c) }

// PixelColor maps a noise value to the color painted for it: interpolate,
// optionally invert, then clamp.
func PixelColor(value float64, p noise.Params) palette.RGB {
	c := palette.InterpolateColor(value, p.StartColor, p.EndColor)
	if p.Inverted {
		c = c.Invert()
	}
	return c.Clamped()
}

// Field builds one lattice from rng and paints every pixel of a
// width x height canvas. Pixels are visited column by column.
func Field(p noise.Params, width, height int, rng noise.Source, dst Painter) {
	FieldFromLattice(p, noise.BuildLattice(p, width, height, rng), width, height, dst)
}

// FieldFromLattice paints a canvas from a prepared lattice. The lattice must
// be at least noise.LatticeSize(p.GridSize, width, height).
func FieldFromLattice(p noise.Params, lattice noise.Lattice, width, height int, dst Painter) {
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			v := noise.Evaluate(x, y, lattice, p)
			dst.Paint(x, y, PixelColor(v, p))
		}
	}
}
