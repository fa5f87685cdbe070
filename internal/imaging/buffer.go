package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/anthonynsimon/bild/clone"
)

// ChannelOrder describes how the channels of one pixel are laid out in a
// PixelBuffer.
type ChannelOrder int

const (
	// OrderGray is a single luminance channel.
	OrderGray ChannelOrder = iota
	// OrderRGB is red, green, blue.
	OrderRGB
	// OrderBGR is blue, green, red.
	OrderBGR
)

// String returns the conventional name of the channel order.
func (o ChannelOrder) String() string {
	switch o {
	case OrderGray:
		return "gray"
	case OrderRGB:
		return "rgb"
	case OrderBGR:
		return "bgr"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

// PixelBuffer is a decoded image held as 8-bit channels in row-major order.
//
// Pix holds Height rows of Width pixels, each pixel Channels bytes long, so
// the byte offset of pixel (x, y) is (y*Width+x)*Channels. Channels is 1 for
// OrderGray and 3 for OrderRGB and OrderBGR. There is no alpha channel:
// translucent pixels are flattened onto white when the buffer is built.
//
// A PixelBuffer is never modified after construction; operations that change
// pixels return a new buffer.
type PixelBuffer struct {
	Width    int
	Height   int
	Channels int
	Order    ChannelOrder
	Pix      []uint8
}

// NewPixelBuffer allocates a zeroed buffer of the given size and order.
func NewPixelBuffer(width, height int, order ChannelOrder) *PixelBuffer {
	channels := 3
	if order == OrderGray {
		channels = 1
	}
	return &PixelBuffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Order:    order,
		Pix:      make([]uint8, width*height*channels),
	}
}

// At returns the channel bytes of pixel (x, y). The returned slice aliases
// the buffer and must not be modified.
func (b *PixelBuffer) At(x, y int) []uint8 {
	off := (y*b.Width + x) * b.Channels
	return b.Pix[off : off+b.Channels : off+b.Channels]
}

// FromImage converts any image.Image into a PixelBuffer.
//
// Gray source models, and color images whose every sampled pixel is
// achromatic (see IsMonochrome), become single channel buffers. Everything
// else becomes OrderRGB. Because IsMonochrome samples large images on a
// grid, a small colored mark between sample points does not keep an
// otherwise gray image in color; the mark survives as luminance.
func FromImage(img image.Image) *PixelBuffer {
	rgba := clone.AsRGBA(img)
	bounds := rgba.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	gray := isGrayModel(img.ColorModel()) || IsMonochrome(img)
	order := OrderRGB
	if gray {
		order = OrderGray
	}
	buf := NewPixelBuffer(width, height, order)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := rgba.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			// Premultiplied, so compositing over white is a plain add.
			pad := 255 - rgba.Pix[i+3]
			r := rgba.Pix[i] + pad
			g := rgba.Pix[i+1] + pad
			bl := rgba.Pix[i+2] + pad

			o := (y*width + x) * buf.Channels
			if gray {
				buf.Pix[o] = luminance(r, g, bl)
				continue
			}
			buf.Pix[o] = r
			buf.Pix[o+1] = g
			buf.Pix[o+2] = bl
		}
	}

	return buf
}

// Image rebuilds a standard library image from the buffer. BGR buffers are
// swapped back so the result always has correct colors.
func (b *PixelBuffer) Image() image.Image {
	rect := image.Rect(0, 0, b.Width, b.Height)
	if b.Channels == 1 {
		g := image.NewGray(rect)
		copy(g.Pix, b.Pix)
		return g
	}

	out := image.NewNRGBA(rect)
	ri, bi := 0, 2
	if b.Order == OrderBGR {
		ri, bi = 2, 0
	}
	for p, q := 0, 0; p < len(b.Pix); p, q = p+3, q+4 {
		out.Pix[q] = b.Pix[p+ri]
		out.Pix[q+1] = b.Pix[p+1]
		out.Pix[q+2] = b.Pix[p+bi]
		out.Pix[q+3] = 0xff
	}
	return out
}

// EncodePNG encodes the buffer as PNG, for engines that only accept encoded
// image files.
func (b *PixelBuffer) EncodePNG() ([]byte, error) {
	var out bytes.Buffer
	if err := png.Encode(&out, b.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return out.Bytes(), nil
}

func isGrayModel(m color.Model) bool {
	return m == color.GrayModel || m == color.Gray16Model
}

// luminance uses the ITU-R 601 weights, same as color.GrayModel.
func luminance(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b) + 500) / 1000)
}
