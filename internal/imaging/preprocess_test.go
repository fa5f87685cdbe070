package imaging

import (
	"image/color"
	"reflect"
	"testing"
)

func TestParseSteps(t *testing.T) {
	tests := []struct {
		input   string
		want    []Step
		wantErr bool
	}{
		{"", nil, false},
		{"grayscale", []Step{StepGrayscale}, false},
		{"grayscale, contrast", []Step{StepGrayscale, StepContrast}, false},
		{" Upscale ,,SHARPEN ", []Step{StepUpscale, StepSharpen}, false},
		{"grayscale,blur", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSteps(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSteps(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSteps(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPreprocessor_NoStepsReturnsInput(t *testing.T) {
	buf := FromImage(solidImage(10, 10, color.RGBA{255, 0, 0, 255}))

	if out := NewPreprocessor().Apply(buf); out != buf {
		t.Error("Expected empty preprocessor to return its input")
	}

	var nilPre *Preprocessor
	if out := nilPre.Apply(buf); out != buf {
		t.Error("Expected nil preprocessor to return its input")
	}
}

func TestPreprocessor_Grayscale(t *testing.T) {
	buf := FromImage(solidImage(10, 10, color.RGBA{255, 0, 0, 255}))
	if buf.Channels != 3 {
		t.Fatalf("Expected color input, got %d channels", buf.Channels)
	}

	out := NewPreprocessor(StepGrayscale).Apply(buf)

	if out.Channels != 1 || out.Order != OrderGray {
		t.Errorf("Expected gray output, got %d channels (%s)", out.Channels, out.Order)
	}
	if out.Width != 10 || out.Height != 10 {
		t.Errorf("Expected 10x10, got %dx%d", out.Width, out.Height)
	}
}

func TestPreprocessor_Upscale(t *testing.T) {
	buf := FromImage(solidImage(100, 40, color.RGBA{0, 0, 255, 255}))

	out := NewPreprocessor(StepUpscale).Apply(buf)

	if out.Width != 200 || out.Height != 80 {
		t.Errorf("Expected 200x80, got %dx%d", out.Width, out.Height)
	}
}

func TestPreprocessor_UpscaleSkipsLargeImages(t *testing.T) {
	buf := NewPixelBuffer(UpscaleBelow, 10, OrderGray)

	out := NewPreprocessor(StepUpscale).Apply(buf)

	if out.Width != UpscaleBelow {
		t.Errorf("Expected width %d to be kept, got %d", UpscaleBelow, out.Width)
	}
}

func TestPreprocessor_ContrastAndSharpenKeepSize(t *testing.T) {
	buf := FromImage(solidImage(30, 20, color.RGBA{100, 150, 200, 255}))

	out := NewPreprocessor(StepContrast, StepSharpen).Apply(buf)

	if out.Width != 30 || out.Height != 20 {
		t.Errorf("Expected 30x20, got %dx%d", out.Width, out.Height)
	}
}

func TestPreprocessor_StepsIsACopy(t *testing.T) {
	p := NewPreprocessor(StepGrayscale)
	steps := p.Steps()
	steps[0] = StepUpscale

	if p.Steps()[0] != StepGrayscale {
		t.Error("Steps() exposed internal state")
	}
}
