package noise

import (
	"math"

	"github.com/MeKo-Tech/noisemap/internal/vector"
)

// Source is a uniform random source over [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Diagonals are the four gradient candidates every lattice starts from.
var Diagonals = [4]vector.Vec2{
	vector.New(1, 1),
	vector.New(-1, 1),
	vector.New(1, -1),
	vector.New(-1, -1),
}

// Lattice holds one gradient vector per grid intersection, indexed [row][col].
type Lattice struct {
	cells [][]vector.Vec2
}

// Rows returns the number of lattice rows.
func (l Lattice) Rows() int { return len(l.cells) }

// Cols returns the number of lattice columns.
func (l Lattice) Cols() int {
	if len(l.cells) == 0 {
		return 0
	}
	return len(l.cells[0])
}

// At returns the gradient at the given intersection.
func (l Lattice) At(row, col int) vector.Vec2 {
	return l.cells[row][col]
}

// NewLattice wraps pre-built gradient rows. All rows must have equal length.
func NewLattice(cells [][]vector.Vec2) Lattice {
	return Lattice{cells: cells}
}

// LatticeSize returns the lattice dimensions needed to cover a canvas: one
// intersection past the last partial cell in each direction.
func LatticeSize(gridSize, width, height int) (rows, cols int) {
	cols = int(math.Ceil(float64(width)/float64(gridSize))) + 1
	rows = int(math.Ceil(float64(height)/float64(gridSize))) + 1
	return rows, cols
}

// CandidateGradients returns the four diagonals followed by
// p.RandomVectorCount random vectors.
func CandidateGradients(p Params, rng Source) []vector.Vec2 {
	candidates := make([]vector.Vec2, 0, len(Diagonals)+p.RandomVectorCount)
	candidates = append(candidates, Diagonals[:]...)

	for i := 0; i < p.RandomVectorCount; i++ {
		x := coarseInt(rng, -1, 1)
		y := coarseInt(rng, -1, 1)
		candidates = append(candidates, vector.New(float64(x), float64(y)))
	}

	return candidates
}

// coarseInt floors a uniform draw over [lo, hi). With lo=-1, hi=1 the
// only possible results are -1 and 0.
func coarseInt(rng Source, lo, hi int) int {
	return int(math.Floor(rng.Float64()*float64(hi-lo) + float64(lo)))
}

// BuildLattice assigns a randomly chosen candidate gradient to every
// intersection of a grid covering a width x height canvas.
func BuildLattice(p Params, width, height int, rng Source) Lattice {
	candidates := CandidateGradients(p, rng)
	rows, cols := LatticeSize(p.GridSize, width, height)

	cells := make([][]vector.Vec2, rows)
	for y := 0; y < rows; y++ {
		cells[y] = make([]vector.Vec2, cols)
		for x := 0; x < cols; x++ {
			i := int(math.Floor(rng.Float64() * float64(len(candidates))))
			cells[y][x] = candidates[i]
		}
	}

	return Lattice{cells: cells}
}
