package partnum

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ironsheep/partnum-ocr/internal/imaging"
	"github.com/ironsheep/partnum-ocr/internal/logging"
)

// Outcome is the result of one pipeline run: exactly one of Result and Err
// is set.
type Outcome struct {
	Result *RecognitionResult
	Err    *Error
}

// OK reports whether the run succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

func failed(err *Error) Outcome {
	return Outcome{Err: err}
}

// Pipeline runs decode, preprocess, normalize, recognize, extract and
// aggregate for a single image. It holds no per-request state and is safe
// for concurrent use as long as its Engine is.
type Pipeline struct {
	engine     Engine
	decoder    imaging.Decoder
	preprocess *imaging.Preprocessor
	log        *logging.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPreprocessor runs p on every decoded image before recognition.
func WithPreprocessor(p *imaging.Preprocessor) Option {
	return func(pl *Pipeline) {
		pl.preprocess = p
	}
}

// WithMaxPixels rejects images whose width*height exceeds n before they
// are decoded. Zero keeps imaging.DefaultMaxPixels.
func WithMaxPixels(n int) Option {
	return func(pl *Pipeline) {
		pl.decoder.MaxPixels = n
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(l *logging.Logger) Option {
	return func(pl *Pipeline) {
		pl.log = l
	}
}

// NewPipeline creates a pipeline around engine. A nil engine is allowed: the
// pipeline then reports ErrorEngineUnavailable for every image, which lets
// the server start and answer health checks when OCR failed to load.
func NewPipeline(engine Engine, opts ...Option) *Pipeline {
	p := &Pipeline{engine: engine}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logging.NewLogger("pipeline")
	}
	return p
}

// EngineLoaded reports whether an engine is available.
func (p *Pipeline) EngineLoaded() bool {
	return p.engine != nil
}

// Engine returns the engine, or nil.
func (p *Pipeline) Engine() Engine {
	return p.engine
}

// RecognizeBytes runs the pipeline over raw encoded image bytes.
func (p *Pipeline) RecognizeBytes(ctx context.Context, data []byte) Outcome {
	if !p.EngineLoaded() {
		return failed(NewEngineUnavailableError())
	}
	buf, err := p.decoder.Bytes(data)
	if err != nil {
		return failed(classifyDecodeError(err))
	}
	return p.Run(ctx, buf)
}

// RecognizeDataURI runs the pipeline over a "<prefix>,<base64>" payload.
func (p *Pipeline) RecognizeDataURI(ctx context.Context, payload string) Outcome {
	if !p.EngineLoaded() {
		return failed(NewEngineUnavailableError())
	}
	buf, err := p.decoder.DataURI(payload)
	if err != nil {
		return failed(classifyDecodeError(err))
	}
	return p.Run(ctx, buf)
}

// Run recognizes an already decoded buffer.
//
// A panic inside the engine is recovered and reported as ErrorEngineFailed
// so one bad image cannot take the process down.
func (p *Pipeline) Run(ctx context.Context, buf *imaging.PixelBuffer) (out Outcome) {
	if !p.EngineLoaded() {
		return failed(NewEngineUnavailableError())
	}

	start := time.Now()
	name := p.engine.Name()

	defer func() {
		if r := recover(); r != nil {
			p.log.Error("engine panicked", "engine", name, "panic", r)
			out = failed(NewEngineError(name, fmt.Errorf("panic: %v", r)))
		}
	}()

	buf = p.preprocess.Apply(buf)
	buf = imaging.Normalize(buf, p.engine.ChannelOrder())

	raw, err := p.engine.Recognize(ctx, buf)
	if err != nil {
		return failed(NewEngineError(name, err))
	}

	detections := Admit(raw)
	if skipped := len(raw) - len(detections); skipped > 0 {
		p.log.Debug("skipped malformed detections", "engine", name, "skipped", skipped)
	}

	result := Aggregate(Extract(detections))
	p.log.Debug("recognition complete",
		"engine", name,
		"width", buf.Width,
		"height", buf.Height,
		"detections", len(detections),
		"texts", len(result.RecognizedTexts),
		"part_numbers", len(result.PartNumbers),
		"duration", time.Since(start))

	return Outcome{Result: result}
}

func classifyDecodeError(err error) *Error {
	switch {
	case errors.Is(err, imaging.ErrEmptyInput):
		return NewInputError("empty image data", err)
	case errors.Is(err, imaging.ErrMissingSeparator):
		return NewInputError("malformed image payload", err)
	case errors.Is(err, imaging.ErrInvalidBase64):
		return NewInputError("malformed base64 payload", err)
	case errors.Is(err, imaging.ErrImageTooLarge):
		return NewImageTooLargeError(err)
	default:
		return NewDecodeError(err)
	}
}
