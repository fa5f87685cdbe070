// Package ocr provides the OCR engines behind partnum.Engine.
//
// Two backends are available:
//
//   - Tesseract (default): local recognition through gosseract/v2 and
//     libtesseract. Detections are text lines (RIL_TEXTLINE).
//   - Rekognition: AWS Rekognition DetectText. Detections are LINE results.
//     Credentials come from the default AWS chain (environment, shared
//     config, instance role).
//
// Both report confidence in 0.0 to 1.0 and keep the engine's reading order.
//
// # Prerequisites
//
// Tesseract must be installed with its language data:
//   - Ubuntu/Debian: apt-get install libtesseract-dev tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Other languages need their tesseract-ocr-<lang> packages, e.g.
// tesseract-ocr-kor for Korean labels.
//
// # Concurrency
//
// An engine is built once at startup and shared by every request. Tesseract
// serializes recognition behind a mutex because gosseract.Client is not
// goroutine safe; Rekognition needs no locking.
//
// # Startup Checks
//
// NewTesseract recognizes a blank probe image before returning, so missing
// traineddata fails fast. The caller decides whether to keep serving without
// OCR; the HTTP server reports that state on /health.
package ocr
