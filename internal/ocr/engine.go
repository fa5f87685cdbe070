package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/ironsheep/partnum-ocr/internal/partnum"
)

// Backend names accepted by New.
const (
	BackendTesseract   = "tesseract"
	BackendRekognition = "rekognition"
)

// Options selects and configures an engine backend.
type Options struct {
	Backend   string
	Tesseract TesseractConfig
	AWSRegion string
}

// New creates the engine named by opts.Backend. On error the returned
// Engine is a true nil interface.
func New(ctx context.Context, opts Options) (partnum.Engine, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendTesseract:
		t, err := NewTesseract(opts.Tesseract)
		if err != nil {
			return nil, err
		}
		return t, nil
	case BackendRekognition:
		r, err := NewRekognition(ctx, opts.AWSRegion)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown OCR backend: %q", opts.Backend)
	}
}
