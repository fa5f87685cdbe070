package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/partnum-ocr/internal/partnum"
)

// msgImageOnly is returned when an upload's content type is not image/*.
const msgImageOnly = "only image files may be uploaded."

// recognizeResponse is the success body of both recognition endpoints.
type recognizeResponse struct {
	Success bool `json:"success"`
	*partnum.RecognitionResult
}

// errorResponse is the failure body of every endpoint.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// base64Request is the body of POST /ocr/recognize-base64.
type base64Request struct {
	Image string `json:"image" binding:"required"`
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status    string `json:"status"`
	OCRLoaded bool   `json:"ocr_loaded"`
	Engine    string `json:"engine,omitempty"`
	Version   string `json:"version,omitempty"`
}

func failure(msg string) errorResponse {
	return errorResponse{Success: false, Error: msg}
}

// GET /
func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Part number OCR API server is running."})
}

// GET /health
func (s *Server) handleHealth(c *gin.Context) {
	resp := healthResponse{
		Status:    "healthy",
		OCRLoaded: s.pipeline.EngineLoaded(),
	}
	if engine := s.pipeline.Engine(); engine != nil {
		resp.Engine = engine.Name()
		resp.Version = engine.Version()
	}
	c.JSON(http.StatusOK, resp)
}

// POST /ocr/recognize
//
// Multipart form with the image in field "file".
func (s *Server) handleRecognizeUpload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		s.rejectBody(c, err, "missing image file in form field \"file\"")
		return
	}

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		c.JSON(http.StatusBadRequest, failure(msgImageOnly))
		return
	}

	f, err := header.Open()
	if err != nil {
		s.respond(c, partnum.Outcome{Err: partnum.NewInputError("failed to read upload", err)})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		s.respond(c, partnum.Outcome{Err: partnum.NewInputError("failed to read upload", err)})
		return
	}

	s.log.Debug("upload received",
		"request_id", c.GetString(requestIDKey),
		"filename", header.Filename,
		"bytes", len(data))

	s.respond(c, s.pipeline.RecognizeBytes(c.Request.Context(), data))
}

// POST /ocr/recognize-base64
//
// JSON {"image": "<prefix>,<base64>"}; everything before the first comma is
// ignored.
func (s *Server) handleRecognizeBase64(c *gin.Context) {
	var req base64Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.rejectBody(c, err, "request body must be JSON with a non-empty \"image\" field")
		return
	}

	s.respond(c, s.pipeline.RecognizeDataURI(c.Request.Context(), req.Image))
}

// rejectBody answers a body that could not be parsed, distinguishing an
// oversized body from a malformed one.
func (s *Server) rejectBody(c *gin.Context, err error, msg string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, failure("request body too large"))
		return
	}
	s.log.Debug("rejected request body", "request_id", c.GetString(requestIDKey), "error", err)
	c.JSON(http.StatusBadRequest, failure(msg))
}

// respond writes a pipeline outcome.
func (s *Server) respond(c *gin.Context, out partnum.Outcome) {
	if out.OK() {
		c.JSON(http.StatusOK, recognizeResponse{Success: true, RecognitionResult: out.Result})
		return
	}

	status := statusFor(out.Err.Code)
	kv := []interface{}{"request_id", c.GetString(requestIDKey), "status", status}
	for k, v := range out.Err.ToMap() {
		kv = append(kv, k, v)
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("recognition failed", kv...)
	} else {
		s.log.Info("recognition rejected", kv...)
	}

	c.JSON(status, failure(out.Err.Error()))
}

// statusFor maps a pipeline error code to an HTTP status.
func statusFor(code partnum.ErrorCode) int {
	switch code {
	case partnum.ErrorInputInvalid:
		return http.StatusBadRequest
	case partnum.ErrorImageTooLarge:
		return http.StatusRequestEntityTooLarge
	case partnum.ErrorEngineUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
