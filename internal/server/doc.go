// Package server implements the HTTP API for part number recognition.
//
// # Endpoints
//
//   - GET  /                      status message
//   - GET  /health                {"status": "healthy", "ocr_loaded": bool}
//   - POST /ocr/recognize         multipart upload, field "file", image/* only
//   - POST /ocr/recognize-base64  JSON {"image": "<prefix>,<base64>"}
//
// Both recognition endpoints answer with the same body on success:
//
//	{
//	  "success": true,
//	  "recognized_texts": ["P/N 12345678", "LOT 7"],
//	  "part_numbers": [
//	    {"number": "12345678", "original_text": "P/N 12345678", "confidence": 0.93}
//	  ],
//	  "full_text": "P/N 12345678\nLOT 7"
//	}
//
// and with {"success": false, "error": "<message>"} on failure.
//
// # Status Codes
//
//   - 400: the client sent something unusable (wrong content type, empty
//     file, missing comma, bad base64, malformed JSON)
//   - 413: body larger than the configured limit, or an image whose header
//     declares more pixels than the pipeline decodes
//   - 500: the image could not be decoded or the OCR engine failed
//   - 503: no OCR engine was loaded at startup
//
// # Middleware
//
// Every request gets an X-Request-ID (the caller's, or a new UUID) which is
// included in the access log line. CORS headers are added for configured
// origins, and request bodies are capped at Options.MaxUploadBytes.
//
// # Usage
//
//	pipeline := partnum.NewPipeline(engine)
//	srv := server.New(pipeline, server.Options{}, logger)
//	if err := srv.Run(ctx, ":8000"); err != nil {
//	    log.Fatal(err)
//	}
package server
