package domain

import "errors"

// ErrorKind classifies a failure within the processing lifecycle.
type ErrorKind string

const (
	// KindValidation covers bad schema or field input, caught before any
	// request is made.
	KindValidation ErrorKind = "validation"
	// KindUnsupportedType covers pre-flight rejection of a file kind.
	KindUnsupportedType ErrorKind = "unsupported_type"
	// KindFileTooLarge covers pre-flight rejection of an oversized file.
	KindFileTooLarge ErrorKind = "file_too_large"
	// KindTransfer covers transport failures and non-success responses.
	KindTransfer ErrorKind = "transfer"
	// KindExtraction covers extraction calls that failed or that the
	// backend signaled as failed.
	KindExtraction ErrorKind = "extraction"
)

// Error is the lifecycle error type. Kind drives propagation policy;
// StatusCode is set for transfer errors when a response was received.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error.
func NewValidationError(message string, err error) *Error {
	return &Error{Kind: KindValidation, Message: message, Err: err}
}

// NewUnsupportedTypeError creates an unsupported file kind error.
func NewUnsupportedTypeError(message string) *Error {
	return &Error{Kind: KindUnsupportedType, Message: message}
}

// NewFileTooLargeError creates an oversized file error.
func NewFileTooLargeError(message string) *Error {
	return &Error{Kind: KindFileTooLarge, Message: message}
}

// NewTransferError creates a transfer error. statusCode is zero when the
// failure happened before a response was received.
func NewTransferError(message string, statusCode int, err error) *Error {
	return &Error{Kind: KindTransfer, Message: message, StatusCode: statusCode, Err: err}
}

// NewExtractionError creates an extraction error.
func NewExtractionError(message string, err error) *Error {
	return &Error{Kind: KindExtraction, Message: message, Err: err}
}

// IsKind reports whether err is a lifecycle error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
