package output

import (
	"fmt"
	"image"

	"github.com/disintegration/gift"
	"golang.org/x/image/draw"
)

// Options controls presentation of a rendered field. The zero value leaves
// the image untouched.
type Options struct {
	// Scale enlarges the canvas by an integer factor.
	Scale int
	// Resample is the scaling kernel: nearest, bilinear or catmullrom.
	Resample string
	// BlurSigma applies a Gaussian blur after scaling when positive.
	BlurSigma float32
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.Scale < 0 {
		return fmt.Errorf("scale must be non-negative, got %d", o.Scale)
	}
	if o.BlurSigma < 0 {
		return fmt.Errorf("blur sigma must be non-negative, got %v", o.BlurSigma)
	}
	if _, err := resampler(o.Resample); err != nil {
		return err
	}
	return nil
}

// Apply runs the configured steps on img and returns the result. img is not
// modified.
func Apply(img image.Image, o Options) (image.Image, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	out := img
	if o.Scale > 1 {
		scaled, err := Upscale(out, o.Scale, o.Resample)
		if err != nil {
			return nil, err
		}
		out = scaled
	}
	if o.BlurSigma > 0 {
		out = Blur(out, o.BlurSigma)
	}
	return out, nil
}

// Upscale enlarges img by factor using the named kernel.
func Upscale(img image.Image, factor int, kernel string) (*image.NRGBA, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("scale factor must be positive, got %d", factor)
	}
	scaler, err := resampler(kernel)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	scaler.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, nil
}

// Blur softens img with a Gaussian of the given sigma.
func Blur(img image.Image, sigma float32) *image.NRGBA {
	g := gift.New(gift.GaussianBlur(sigma))
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

func resampler(name string) (draw.Scaler, error) {
	switch name {
	case "", "nearest":
		return draw.NearestNeighbor, nil
	case "bilinear":
		return draw.BiLinear, nil
	case "catmullrom":
		return draw.CatmullRom, nil
	default:
		return nil, fmt.Errorf("invalid resample kernel %q: must be nearest, bilinear or catmullrom", name)
	}
}
