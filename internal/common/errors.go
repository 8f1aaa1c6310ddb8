package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Message == "" && e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Cause)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes carried by AppError.
const (
	CodeConfig    = "CONFIG_ERROR"
	CodeExtract   = "EXTRACT_ERROR"
	CodeOpen      = "OPEN_ERROR"
	CodeRasterize = "RASTERIZE_ERROR"
	CodeOCR       = "OCR_ERROR"
	CodeIO        = "IO_ERROR"
)

// Sentinel errors; match with errors.Is.
var (
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrOpenPDF           = errors.New("cannot open pdf")
	ErrMalformedDocument = errors.New("malformed document")
	ErrRasterize         = errors.New("rasterization failed")
	ErrOCR               = errors.New("ocr failed")
	ErrNoTextSelected    = errors.New("no text selected")
	ErrValidation        = errors.New("validation failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// CodedError tags err, which already wraps one of the sentinels, with code.
func CodedError(code string, err error) error {
	return &AppError{Code: code, Cause: err}
}

// ConfigError reports a configuration problem wrapping ErrInvalidConfig.
func ConfigError(format string, args ...any) error {
	return NewAppError(CodeConfig, fmt.Sprintf(format, args...), ErrInvalidConfig)
}

// CodeOf returns the AppError code in err's chain, or "" if there is none.
func CodeOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
