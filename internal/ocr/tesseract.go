package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/partnum-ocr/internal/imaging"
	"github.com/ironsheep/partnum-ocr/internal/partnum"
)

// TesseractConfig configures the Tesseract engine.
type TesseractConfig struct {
	// Language is one or more Tesseract language codes joined by "+",
	// e.g. "eng" or "eng+kor". Defaults to "eng".
	Language string

	// TessdataPrefix is the directory holding *.traineddata files. Empty
	// means Tesseract's compiled-in default or $TESSDATA_PREFIX.
	TessdataPrefix string

	// Whitelist restricts recognition to these characters. Empty allows all.
	Whitelist string

	// PageSegMode is a Tesseract PSM value (0 to 13). Defaults to 3, fully
	// automatic segmentation.
	PageSegMode int
}

// Tesseract recognizes text with a single long-lived gosseract client.
//
// gosseract.Client is not safe for concurrent use, so Recognize holds a
// mutex for the whole set-image/iterate sequence. Requests therefore queue
// behind one another; throughput scales by running more processes, not more
// goroutines.
type Tesseract struct {
	mu      sync.Mutex
	client  *gosseract.Client
	cfg     TesseractConfig
	version string
}

// NewTesseract creates the engine and runs a probe recognition so missing
// language data or a broken libtesseract is reported at startup rather than
// on the first request.
func NewTesseract(cfg TesseractConfig) (*Tesseract, error) {
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.PageSegMode == 0 {
		cfg.PageSegMode = int(gosseract.PSM_AUTO)
	}
	if cfg.PageSegMode < 0 || cfg.PageSegMode > 13 {
		return nil, fmt.Errorf("invalid page segmentation mode: %d", cfg.PageSegMode)
	}

	client := gosseract.NewClient()

	if cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(cfg.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	if err := client.SetLanguage(strings.Split(cfg.Language, "+")...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if cfg.Whitelist != "" {
		if err := client.SetWhitelist(cfg.Whitelist); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set whitelist: %w", err)
		}
	}

	if err := client.SetPageSegMode(gosseract.PageSegMode(cfg.PageSegMode)); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	t := &Tesseract{
		client:  client,
		cfg:     cfg,
		version: client.Version(),
	}

	if err := t.probe(); err != nil {
		client.Close()
		return nil, fmt.Errorf("tesseract failed to initialize: %w", err)
	}

	return t, nil
}

// probe recognizes a blank image, which forces libtesseract to load its
// language data.
func (t *Tesseract) probe() error {
	blank := image.NewGray(image.Rect(0, 0, 32, 32))
	for i := range blank.Pix {
		blank.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, blank); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return err
	}
	_, err := t.client.Text()
	return err
}

// Name returns "tesseract".
func (t *Tesseract) Name() string { return "tesseract" }

// Version returns the libtesseract version.
func (t *Tesseract) Version() string { return t.version }

// ChannelOrder returns imaging.OrderRGB.
func (t *Tesseract) ChannelOrder() imaging.ChannelOrder { return imaging.OrderRGB }

// Config returns the effective configuration.
func (t *Tesseract) Config() TesseractConfig { return t.cfg }

// Recognize returns one detection per text line, in reading order.
//
// Line confidences are Tesseract's 0-100 scores scaled to 0-1. Line text is
// trimmed of the trailing newline Tesseract attaches.
func (t *Tesseract) Recognize(_ context.Context, buf *imaging.PixelBuffer) ([]partnum.Detection, error) {
	data, err := buf.EncodePNG()
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("failed to get text lines: %w", err)
	}

	detections := make([]partnum.Detection, 0, len(boxes))
	for _, box := range boxes {
		detections = append(detections, partnum.Detection{
			Text:       strings.TrimSpace(box.Word),
			Confidence: box.Confidence / 100.0,
			Bounds: partnum.Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}

	return detections, nil
}

// Close releases the underlying libtesseract handle.
func (t *Tesseract) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.Close()
}
