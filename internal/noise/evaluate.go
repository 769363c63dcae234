package noise

import "github.com/MeKo-Tech/noisemap/internal/vector"

var (
	cornerTopLeft     = vector.New(0, 0)
	cornerTopRight    = vector.New(1, 0)
	cornerBottomLeft  = vector.New(0, 1)
	cornerBottomRight = vector.New(1, 1)
)

// Evaluate returns the noise value of pixel (pixelX, pixelY).
//
// The raw bilinear result is mapped with (1+v)/2, so it is near [0, 1] for the
// default fade coefficient and unit-ish gradients, but it is not clamped.
func Evaluate(pixelX, pixelY int, l Lattice, p Params) float64 {
	g := p.GridSize
	cellX := pixelX / g
	cellY := pixelY / g

	topLeft := l.At(cellY, cellX)
	topRight := l.At(cellY, cellX+1)
	bottomLeft := l.At(cellY+1, cellX)
	bottomRight := l.At(cellY+1, cellX+1)

	rel := vector.New(
		float64(pixelX%g)/float64(g),
		float64(pixelY%g)/float64(g),
	)

	tl := topLeft.Dot(rel.Subtract(cornerTopLeft))
	tr := topRight.Dot(rel.Subtract(cornerTopRight))
	bl := bottomLeft.Dot(rel.Subtract(cornerBottomLeft))
	br := bottomRight.Dot(rel.Subtract(cornerBottomRight))

	fx := Fade(rel.X, p.FadeCoefficient)
	fy := Fade(rel.Y, p.FadeCoefficient)

	v := Lerp(
		Lerp(tl, tr, fx),
		Lerp(bl, br, fx),
		fy,
	)

	return (1 + v) / 2
}
