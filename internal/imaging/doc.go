// Package imaging turns uploaded image bytes into pixel buffers ready for an
// OCR engine.
//
// The package covers the first two stages of the recognition pipeline:
//
//   - Decoding: DecodeBytes, DecodeBase64 and DecodeDataURI accept raw
//     encoded bytes, bare base64 and "<prefix>,<base64>" payloads and
//     produce a PixelBuffer.
//   - Normalization: Normalize reorders channels to what an engine expects
//     (RGB or BGR). Single channel buffers pass through untouched.
//
// An optional Preprocessor (grayscale, contrast, sharpen, upscale) can run
// between the two.
//
// # Pixel Buffers
//
// A PixelBuffer is 8 bits per channel, row-major, with the origin at the
// top-left corner. It has one channel for gray images and three otherwise.
// Alpha is flattened onto white during decoding, which is what a sheet of
// paper behind a transparent PNG label would look like.
//
// # Supported Formats
//
// PNG, JPEG and GIF through the standard library; BMP, TIFF and WebP through
// golang.org/x/image. JPEG EXIF orientation is applied.
//
// # Errors
//
// Input that never reaches the image decoder (empty payloads, a missing
// comma, bad base64) yields ErrEmptyInput, ErrMissingSeparator or
// ErrInvalidBase64. Bytes that reach the decoder and are rejected yield a
// *DecodeError.
//
// # Thread Safety
//
// All functions are pure and safe for concurrent use. PixelBuffers are never
// mutated after construction.
package imaging
