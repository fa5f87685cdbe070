package partnum

import (
	"context"

	"github.com/ironsheep/partnum-ocr/internal/imaging"
)

// Bounds is a detection's bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Detection is one recognized text region reported by an Engine.
type Detection struct {
	// Text is the recognized string.
	Text string `json:"text"`

	// Confidence is the engine's certainty, normalized to 0.0 to 1.0.
	Confidence float64 `json:"confidence"`

	// Bounds locates the text when the engine reports it. Zero otherwise.
	Bounds Bounds `json:"bounds"`
}

// Candidate is a part number found in an accepted detection.
type Candidate struct {
	// Number is 6 to 12 ASCII digits.
	Number string `json:"number"`

	// OriginalText is the whole detection text the number was found in.
	OriginalText string `json:"original_text"`

	// Confidence is the confidence of that detection.
	Confidence float64 `json:"confidence"`
}

// RecognitionResult is what one request produces.
type RecognitionResult struct {
	RecognizedTexts []string    `json:"recognized_texts"`
	PartNumbers     []Candidate `json:"part_numbers"`
	FullText        string      `json:"full_text"`
}

// Engine recognizes text in a pixel buffer.
//
// One Engine is created at startup and shared by every request for the life
// of the process, so Recognize must be safe for concurrent use. Engines
// backed by a non thread-safe library serialize calls internally.
//
// Recognize returns detections in reading order. The returned slice may
// contain malformed entries; callers pass it through Admit.
type Engine interface {
	// Name identifies the backend, e.g. "tesseract".
	Name() string

	// Version reports the backend version, or "" if unknown.
	Version() string

	// ChannelOrder is the layout Recognize expects for 3-channel buffers.
	ChannelOrder() imaging.ChannelOrder

	// Recognize runs OCR over buf.
	Recognize(ctx context.Context, buf *imaging.PixelBuffer) ([]Detection, error)
}
