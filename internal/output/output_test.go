package output

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checker(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := uint8(0)
			if (x+y)%2 == 0 {
				v = 255
			}
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestParsePNGCompression(t *testing.T) {
	for _, name := range []string{"", "default", "speed", "best", "none"} {
		_, err := ParsePNGCompression(name)
		assert.NoError(t, err, name)
	}

	level, err := ParsePNGCompression("best")
	require.NoError(t, err)
	assert.Equal(t, png.BestCompression, level)

	_, err = ParsePNGCompression("ultra")
	assert.Error(t, err)
}

func TestWritePNGRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "noise.png")
	img := checker(8)

	require.NoError(t, WritePNG(path, img, "speed"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, img.Bounds(), decoded.Bounds())
	assert.Equal(t, img.NRGBAAt(1, 0), color.NRGBAModel.Convert(decoded.At(1, 0)))
}

func TestUpscaleNearest(t *testing.T) {
	img := checker(4)

	out, err := Upscale(img, 3, "nearest")
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 12, 12), out.Bounds())

	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			assert.Equal(t, img.NRGBAAt(x/3, y/3), out.NRGBAAt(x, y), "pixel (%d,%d)", x, y)
		}
	}

	_, err = Upscale(img, 0, "nearest")
	assert.Error(t, err)
	_, err = Upscale(img, 2, "lanczos9")
	assert.Error(t, err)
}

func TestBlurKeepsBoundsAndSmooths(t *testing.T) {
	img := checker(16)
	out := Blur(img, 1.5)

	require.Equal(t, img.Bounds(), out.Bounds())
	c := out.NRGBAAt(8, 8)
	assert.Greater(t, c.R, uint8(40))
	assert.Less(t, c.R, uint8(215))
}

func TestApply(t *testing.T) {
	img := checker(4)

	same, err := Apply(img, Options{})
	require.NoError(t, err)
	assert.Same(t, img, same)

	out, err := Apply(img, Options{Scale: 2, BlurSigma: 0.5})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), out.Bounds())

	_, err = Apply(img, Options{Scale: -1})
	assert.Error(t, err)
	_, err = Apply(img, Options{BlurSigma: -2})
	assert.Error(t, err)
}
