package imaging

import (
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// MonochromeChroma is the largest HCL chroma a pixel may have and still count
// as achromatic. Scanner and phone-camera noise on a gray label stays well
// below it; any visibly tinted ink exceeds it.
const MonochromeChroma = 0.04

// monochromeSamples bounds the sampling grid to samples×samples points so
// large photographs are not scanned pixel by pixel.
const monochromeSamples = 64

// IsMonochrome reports whether every sampled pixel of img is achromatic.
//
// The image is sampled on an evenly spaced grid of at most 64×64 points.
// Each sample is converted to CIE HCL and compared against MonochromeChroma.
// Fully transparent samples are ignored. An image with no opaque samples is
// not monochrome.
//
// Images wider or taller than 64 pixels are sampled, not scanned: on a
// 640x640 image only every tenth pixel in each direction is examined. A
// colored detail smaller than the sampling step, such as a small stamp or a
// thin line of tinted ink, can fall between samples, and the image is then
// reported as monochrome. For OCR this only costs the detail's hue, since
// FromImage still keeps its luminance.
func IsMonochrome(img image.Image) bool {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return false
	}

	stepX := max(1, w/monochromeSamples)
	stepY := max(1, h/monochromeSamples)

	seen := false
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			seen = true
			if _, chroma, _ := c.Hcl(); chroma > MonochromeChroma {
				return false
			}
		}
	}
	return seen
}
