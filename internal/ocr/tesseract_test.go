package ocr

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/partnum-ocr/internal/imaging"
	"github.com/ironsheep/partnum-ocr/internal/partnum"
)

// newTestTesseract returns an engine or skips when libtesseract or the
// English traineddata is not installed.
func newTestTesseract(t *testing.T, cfg TesseractConfig) *Tesseract {
	t.Helper()
	engine, err := NewTesseract(cfg)
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	t.Cleanup(func() { engine.Close() })
	return engine
}

// drawText draws text on an image using basicfont
func drawText(img *image.RGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// textBuffer renders lines of text and scales them up by an integer factor,
// since Tesseract struggles with 13px glyphs.
func textBuffer(lines []string, scale int) *imaging.PixelBuffer {
	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	w := maxLen*7 + 40
	h := len(lines)*20 + 30

	small := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(small, small.Bounds(), image.White, image.Point{}, draw.Src)
	for i, l := range lines {
		drawText(small, 20, 25+i*20, l, color.Black)
	}

	big := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	for y := 0; y < h*scale; y++ {
		for x := 0; x < w*scale; x++ {
			big.Set(x, y, small.At(x/scale, y/scale))
		}
	}
	return imaging.FromImage(big)
}

func TestNewTesseract_Defaults(t *testing.T) {
	engine := newTestTesseract(t, TesseractConfig{})

	cfg := engine.Config()
	if cfg.Language != "eng" {
		t.Errorf("Expected default language eng, got %q", cfg.Language)
	}
	if cfg.PageSegMode != 3 {
		t.Errorf("Expected default PSM 3, got %d", cfg.PageSegMode)
	}
	if engine.Name() != "tesseract" {
		t.Errorf("Unexpected name %q", engine.Name())
	}
	if engine.Version() == "" {
		t.Error("Expected a tesseract version")
	}
}

func TestNewTesseract_InvalidPSM(t *testing.T) {
	if _, err := NewTesseract(TesseractConfig{PageSegMode: 42}); err == nil {
		t.Error("Expected error for PSM 42")
	}
}

func TestNewTesseract_MissingLanguage(t *testing.T) {
	if _, err := NewTesseract(TesseractConfig{Language: "zzz"}); err == nil {
		t.Error("Expected error for a language with no traineddata")
	}
}

func TestTesseract_RecognizeBlank(t *testing.T) {
	engine := newTestTesseract(t, TesseractConfig{})
	blank := imaging.NewPixelBuffer(100, 50, imaging.OrderGray)
	for i := range blank.Pix {
		blank.Pix[i] = 0xff
	}

	detections, err := engine.Recognize(context.Background(), blank)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	for _, d := range partnum.Admit(detections) {
		if d.Confidence > partnum.ConfidenceThreshold {
			t.Errorf("Unexpected confident detection on blank image: %#v", d)
		}
	}
}

func TestTesseract_RecognizePartNumber(t *testing.T) {
	engine := newTestTesseract(t, TesseractConfig{})
	buf := textBuffer([]string{"PN 20481632"}, 4)

	detections, err := engine.Recognize(context.Background(), buf)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}

	result := partnum.Aggregate(partnum.Extract(partnum.Admit(detections)))
	if !strings.Contains(result.FullText, "20481632") {
		t.Skipf("Tesseract did not read the rendered digits: %q", result.FullText)
	}
	if len(result.PartNumbers) == 0 || result.PartNumbers[0].Number != "20481632" {
		t.Errorf("Expected part number 20481632, got %#v", result.PartNumbers)
	}
}

func TestTesseract_LinesInReadingOrder(t *testing.T) {
	engine := newTestTesseract(t, TesseractConfig{})
	buf := textBuffer([]string{"FIRST 111111", "SECOND 222222"}, 4)

	detections, err := engine.Recognize(context.Background(), buf)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if len(detections) < 2 {
		t.Skipf("Tesseract found %d lines", len(detections))
	}
	if detections[0].Bounds.Y1 > detections[1].Bounds.Y1 {
		t.Errorf("Lines out of order: %#v", detections)
	}
	for _, d := range detections {
		if strings.HasSuffix(d.Text, "\n") {
			t.Errorf("Line text not trimmed: %q", d.Text)
		}
	}
}

func TestTesseract_ConcurrentRecognize(t *testing.T) {
	engine := newTestTesseract(t, TesseractConfig{})
	buf := textBuffer([]string{"ID 7654321"}, 3)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := engine.Recognize(context.Background(), buf); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent Recognize failed: %v", err)
	}
}
