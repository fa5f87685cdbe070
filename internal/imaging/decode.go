package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

var (
	// ErrEmptyInput is returned when there are no image bytes to decode.
	ErrEmptyInput = errors.New("empty image data")

	// ErrMissingSeparator is returned when a data-URI style payload has no
	// comma between its header and its base64 body.
	ErrMissingSeparator = errors.New("image payload must have the form <prefix>,<base64>")

	// ErrInvalidBase64 is returned when a payload is not valid base64.
	ErrInvalidBase64 = errors.New("invalid base64 image payload")

	// ErrImageTooLarge is matched by a *TooLargeError.
	ErrImageTooLarge = errors.New("image dimensions exceed the pixel limit")
)

// DecodeError reports bytes that are not a supported image encoding.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// TooLargeError reports an image whose header declares more pixels than
// the decoder allows.
type TooLargeError struct {
	Width     int
	Height    int
	MaxPixels int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("image is %dx%d, more than %d pixels", e.Width, e.Height, e.MaxPixels)
}

func (e *TooLargeError) Is(target error) bool {
	return target == ErrImageTooLarge
}

// DefaultMaxPixels is the largest width*height the package-level decode
// functions accept, about 179 million pixels (a 13400x13400 image).
const DefaultMaxPixels = 178956970

// Decoder decodes image payloads with a limit on decoded size.
//
// The limit is checked against the image header before any pixel data is
// decoded, so a small, highly compressed file cannot force a huge
// allocation.
type Decoder struct {
	// MaxPixels caps width*height. Zero or negative means DefaultMaxPixels.
	MaxPixels int
}

func (d Decoder) maxPixels() int {
	if d.MaxPixels <= 0 {
		return DefaultMaxPixels
	}
	return d.MaxPixels
}

// Decode parses encoded image bytes. PNG, JPEG, GIF, BMP, TIFF and WebP are
// supported. EXIF orientation is honored, so photographs taken sideways on a
// phone come out upright.
//
// Errors:
//   - ErrEmptyInput if data is empty
//   - *DecodeError if data is not a supported image
//   - *TooLargeError (matching ErrImageTooLarge) if the header declares more
//     than MaxPixels pixels
func (d Decoder) Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if limit := d.maxPixels(); int64(cfg.Width)*int64(cfg.Height) > int64(limit) {
		return nil, &TooLargeError{Width: cfg.Width, Height: cfg.Height, MaxPixels: limit}
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return img, nil
}

// Bytes decodes encoded image bytes into a PixelBuffer.
func (d Decoder) Bytes(data []byte) (*PixelBuffer, error) {
	img, err := d.Decode(data)
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// Base64 decodes a bare base64 payload into a PixelBuffer. Padded and
// unpadded standard encodings are accepted; surrounding whitespace is
// ignored.
func (d Decoder) Base64(payload string) (*PixelBuffer, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, ErrEmptyInput
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		var rawErr error
		data, rawErr = base64.RawStdEncoding.DecodeString(payload)
		if rawErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBase64, err)
		}
	}

	return d.Bytes(data)
}

// DataURI decodes a payload of the form "<prefix>,<base64>", such as
// "data:image/png;base64,iVBOR...". Everything up to and including the first
// comma is discarded; the prefix itself is not inspected.
func (d Decoder) DataURI(s string) (*PixelBuffer, error) {
	_, payload, ok := strings.Cut(s, ",")
	if !ok {
		return nil, ErrMissingSeparator
	}
	return d.Base64(payload)
}

// Decode parses encoded image bytes with the default pixel limit.
func Decode(data []byte) (image.Image, error) {
	return Decoder{}.Decode(data)
}

// DecodeBytes decodes encoded image bytes into a PixelBuffer with the
// default pixel limit.
func DecodeBytes(data []byte) (*PixelBuffer, error) {
	return Decoder{}.Bytes(data)
}

// DecodeBase64 is Decoder.Base64 with the default pixel limit.
func DecodeBase64(payload string) (*PixelBuffer, error) {
	return Decoder{}.Base64(payload)
}

// DecodeDataURI is Decoder.DataURI with the default pixel limit.
func DecodeDataURI(s string) (*PixelBuffer, error) {
	return Decoder{}.DataURI(s)
}
