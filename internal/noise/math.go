package noise

import "math"

// Fade evaluates c*t^5 - 15*t^4 + 10*t^3.
// Only c = 6 keeps Fade(0) = 0 and Fade(1) = 1.
func Fade(t, c float64) float64 {
	return c*math.Pow(t, 5) - 15*math.Pow(t, 4) + 10*math.Pow(t, 3)
}

// Lerp moves from a toward b as t goes from 0 to 1, regardless of which of
// the two is larger.
func Lerp(a, b, t float64) float64 {
	hi := math.Max(a, b)
	lo := math.Min(a, b)

	if a > b {
		t = 1 - t
	}

	return (hi-lo)*t + lo
}
