package partnum

import (
	"fmt"
	"time"
)

// ErrorCode classifies a pipeline failure.
type ErrorCode string

const (
	// ErrorInputInvalid is a problem with what the client sent: wrong
	// content type, empty body, missing data-URI comma, bad base64.
	ErrorInputInvalid ErrorCode = "INPUT_INVALID"

	// ErrorDecodeFailed means the bytes are not a supported image.
	ErrorDecodeFailed ErrorCode = "DECODE_FAILED"

	// ErrorImageTooLarge means the image declares more pixels than the
	// pipeline decodes.
	ErrorImageTooLarge ErrorCode = "IMAGE_TOO_LARGE"

	// ErrorEngineFailed is any failure reported by the OCR engine.
	ErrorEngineFailed ErrorCode = "ENGINE_FAILED"

	// ErrorEngineUnavailable means no engine was loaded at startup.
	ErrorEngineUnavailable ErrorCode = "ENGINE_UNAVAILABLE"
)

// Error is a classified pipeline failure.
type Error struct {
	Code      ErrorCode
	Message   string
	Timestamp time.Time
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ToMap flattens the error into log-friendly key/value pairs.
func (e *Error) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"error_code": string(e.Code),
		"message":    e.Message,
		"timestamp":  e.Timestamp,
	}
	if e.Cause != nil {
		m["cause"] = e.Cause.Error()
	}
	return m
}

// NewInputError reports a request the client must fix.
func NewInputError(message string, cause error) *Error {
	return &Error{
		Code:      ErrorInputInvalid,
		Message:   message,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

// NewDecodeError reports bytes that could not be decoded as an image.
func NewDecodeError(cause error) *Error {
	return &Error{
		Code:      ErrorDecodeFailed,
		Message:   "failed to decode image",
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

// NewImageTooLargeError reports an image rejected by the pixel limit.
func NewImageTooLargeError(cause error) *Error {
	return &Error{
		Code:      ErrorImageTooLarge,
		Message:   "image too large",
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

// NewEngineError reports a failure inside the OCR engine.
func NewEngineError(engine string, cause error) *Error {
	return &Error{
		Code:      ErrorEngineFailed,
		Message:   fmt.Sprintf("%s OCR failed", engine),
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

// NewEngineUnavailableError reports that no engine is loaded.
func NewEngineUnavailableError() *Error {
	return &Error{
		Code:      ErrorEngineUnavailable,
		Message:   "OCR engine is not loaded",
		Timestamp: time.Now(),
	}
}
