package render

import (
	"image"

	"github.com/MeKo-Tech/noisemap/internal/palette"
)

// ImageSurface paints into an in-memory opaque image.
type ImageSurface struct {
	img *image.NRGBA
}

// NewImageSurface creates a width x height surface.
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{img: image.NewNRGBA(image.Rect(0, 0, width, height))}
}

func (s *ImageSurface) Paint(x, y int, c palette.RGB) {
	s.img.SetNRGBA(x, y, c.NRGBA())
}

// Image returns the backing image.
func (s *ImageSurface) Image() *image.NRGBA {
	return s.img
}
