package types

import "fmt"

// ErrorType classifies domain errors
type ErrorType string

const (
	ErrorTypeDocumentParse  ErrorType = "document_parse"
	ErrorTypeClassification ErrorType = "classification"
	ErrorTypeGeneration     ErrorType = "generation"
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeConfig         ErrorType = "config"
)

// Error represents a domain-specific error with context
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error
func NewError(errType ErrorType, message string, err error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// DocumentParseError reports an input that could not be read as a PDF.
// It is always surfaced to the caller.
func DocumentParseError(message string, err error) *Error {
	return NewError(ErrorTypeDocumentParse, message, err)
}

// ClassificationError reports a failed diagram classification.
// It is absorbed by the size-based fallback and never surfaced.
func ClassificationError(message string, err error) *Error {
	return NewError(ErrorTypeClassification, message, err)
}

// GenerationError reports a failed or invalid structured generation.
func GenerationError(message string, err error) *Error {
	return NewError(ErrorTypeGeneration, message, err)
}

func ValidationError(message string, err error) *Error {
	return NewError(ErrorTypeValidation, message, err)
}

func ConfigError(message string, err error) *Error {
	return NewError(ErrorTypeConfig, message, err)
}
