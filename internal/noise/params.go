// Package noise evaluates a 2D gradient-noise field over a lattice of
// per-intersection gradient vectors.
package noise

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/noisemap/internal/palette"
)

const (
	DefaultGridSize          = 12
	DefaultFadeCoefficient   = 6.0
	DefaultRandomVectorCount = 0
)

// Params configures a noise field render.
type Params struct {
	StartColor palette.RGB
	EndColor   palette.RGB
	// FadeCoefficient is the leading coefficient of the fade polynomial.
	// Values other than 6 intentionally distort the curve.
	FadeCoefficient float64
	// GridSize is the lattice cell size in pixels.
	GridSize int
	// RandomVectorCount adds this many random gradient candidates to the
	// four diagonals.
	RandomVectorCount int
	Inverted          bool
}

// DefaultParams returns the parameters of a freshly opened page:
// 12px cells, the classic fade curve and a black to white gradient.
func DefaultParams() Params {
	return Params{
		GridSize:          DefaultGridSize,
		FadeCoefficient:   DefaultFadeCoefficient,
		RandomVectorCount: DefaultRandomVectorCount,
		StartColor:        palette.Black,
		EndColor:          palette.White,
	}
}

// Validate checks the parameters at the host boundary. The evaluator itself
// assumes validated input.
func (p Params) Validate() error {
	if p.GridSize <= 0 {
		return fmt.Errorf("grid size must be positive, got %d", p.GridSize)
	}
	if p.RandomVectorCount < 0 {
		return fmt.Errorf("random vector count must be non-negative, got %d", p.RandomVectorCount)
	}
	if math.IsNaN(p.FadeCoefficient) || math.IsInf(p.FadeCoefficient, 0) {
		return fmt.Errorf("fade coefficient must be finite")
	}
	return nil
}
