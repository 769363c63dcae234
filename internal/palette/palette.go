// Package palette maps noise values onto colors between two endpoints.
package palette

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a color triple. Channels are nominally in [0, 255] but interpolation
// with out-of-range weights can push them outside; call Clamped before
// handing a color to a surface.
type RGB struct {
	R int
	G int
	B int
}

var (
	Black = RGB{0, 0, 0}
	White = RGB{255, 255, 255}
)

// InterpolateColor blends start and end by weight.
// A weight of 1 yields start and a weight of 0 yields end.
func InterpolateColor(weight float64, start, end RGB) RGB {
	w := weight*2 - 1
	w1 := (w/1 + 1) / 2
	w2 := 1 - w1

	return RGB{
		R: blend(start.R, end.R, w1, w2),
		G: blend(start.G, end.G, w1, w2),
		B: blend(start.B, end.B, w1, w2),
	}
}

func blend(a, b int, wa, wb float64) int {
	return int(math.Round(float64(a)*wa + float64(b)*wb))
}

// Invert returns 255-c for every channel.
func (c RGB) Invert() RGB {
	return RGB{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B}
}

// Clamped returns c with every channel limited to [0, 255].
func (c RGB) Clamped() RGB {
	return RGB{R: clampChannel(c.R), G: clampChannel(c.G), B: clampChannel(c.B)}
}

// NRGBA converts a clamped copy of c to an opaque color.NRGBA.
func (c RGB) NRGBA() color.NRGBA {
	cc := c.Clamped()
	return color.NRGBA{R: uint8(cc.R), G: uint8(cc.G), B: uint8(cc.B), A: 255}
}

// Hex formats the clamped color as #rrggbb.
func (c RGB) Hex() string {
	cc := c.Clamped()
	return fmt.Sprintf("#%02x%02x%02x", cc.R, cc.G, cc.B)
}

func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// ParseHex parses a color picker value of the form #RRGGBB.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if len(s) != 7 || s[0] != '#' || strings.IndexFunc(s[1:], notHexDigit) >= 0 {
		return RGB{}, fmt.Errorf("invalid hex color %q: expected #RRGGBB", s)
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}

	r, g, b := c.RGB255()
	return RGB{R: int(r), G: int(g), B: int(b)}, nil
}

func notHexDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		return false
	}
	return true
}

// clampChannel clamps an int value to the uint8 range [0, 255].
func clampChannel(x int) int {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}
