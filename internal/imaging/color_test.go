package imaging

import (
	"image"
	"image/color"
	"testing"
)

func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestIsMonochrome(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
		want bool
	}{
		{"white", solidImage(50, 50, color.White), true},
		{"black", solidImage(50, 50, color.Black), true},
		{"mid gray", solidImage(50, 50, color.RGBA{128, 128, 128, 255}), true},
		{"slightly noisy gray", solidImage(50, 50, color.RGBA{130, 128, 127, 255}), true},
		{"red", solidImage(50, 50, color.RGBA{255, 0, 0, 255}), false},
		{"pale blue", solidImage(50, 50, color.RGBA{180, 200, 255, 255}), false},
		{"fully transparent", image.NewNRGBA(image.Rect(0, 0, 10, 10)), false},
		{"empty", image.NewRGBA(image.Rect(0, 0, 0, 0)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMonochrome(tt.img); got != tt.want {
				t.Errorf("IsMonochrome() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsMonochrome_SingleColoredRegion(t *testing.T) {
	img := solidImage(200, 200, color.White)
	// A red stamp large enough to be hit by the sampling grid
	for y := 80; y < 120; y++ {
		for x := 80; x < 120; x++ {
			img.Set(x, y, color.RGBA{220, 30, 30, 255})
		}
	}

	if IsMonochrome(img) {
		t.Error("Expected image with red region to be detected as color")
	}
}

func TestIsMonochrome_SamplingGrid(t *testing.T) {
	// 640 pixels wide and tall gives a sampling step of 10.
	tests := []struct {
		name   string
		x, y   int
		want   bool
		reason string
	}{
		{"stamp on a sample point", 0, 0, false, "sampled pixel is red"},
		{"stamp between sample points", 5, 5, true, "no sampled pixel is red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := solidImage(640, 640, color.RGBA{200, 200, 200, 255})
			for y := tt.y; y < tt.y+3; y++ {
				for x := tt.x; x < tt.x+3; x++ {
					img.Set(x, y, color.RGBA{255, 0, 0, 255})
				}
			}

			if got := IsMonochrome(img); got != tt.want {
				t.Errorf("IsMonochrome() = %v, want %v (%s)", got, tt.want, tt.reason)
			}
		})
	}
}

func TestFromImage_OffGridStampKeepsLuminance(t *testing.T) {
	img := solidImage(640, 640, color.White)
	for y := 5; y < 8; y++ {
		for x := 5; x < 8; x++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}

	buf := FromImage(img)

	if buf.Channels != 1 {
		t.Fatalf("Expected single channel buffer, got %d channels", buf.Channels)
	}
	if got := buf.At(6, 6)[0]; got != luminance(255, 0, 0) {
		t.Errorf("Stamp luminance = %d, want %d", got, luminance(255, 0, 0))
	}
	if got := buf.At(100, 100)[0]; got != 255 {
		t.Errorf("Background = %d, want 255", got)
	}
}

func TestFromImage_MonochromeCollapsesToGray(t *testing.T) {
	img := solidImage(8, 8, color.RGBA{200, 200, 200, 255})

	buf := FromImage(img)

	if buf.Channels != 1 {
		t.Fatalf("Expected 1 channel, got %d", buf.Channels)
	}
	if got := buf.At(3, 3)[0]; got != 200 {
		t.Errorf("Expected luminance 200, got %d", got)
	}
}
