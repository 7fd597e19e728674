package domain

import (
	"errors"
	"fmt"
)

// Kind classifies grader errors so callers can branch on the failure class
// without string matching.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindGateway       Kind = "gateway"
	KindConfiguration Kind = "configuration"
	KindStorage       Kind = "storage"
)

// Error is the grader's error type. Message is human-readable and safe to
// surface in the UI; Err holds the underlying cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError rejects bad input before the pipeline starts.
func ValidationError(message string, err error) error {
	return &Error{Kind: KindValidation, Message: message, Err: err}
}

// GatewayError wraps transport, auth, or mid-stream failures from the
// inference endpoint.
func GatewayError(message string, err error) error {
	return &Error{Kind: KindGateway, Message: message, Err: err}
}

// ConfigurationError reports missing or unusable local configuration, such
// as an absent rubric template.
func ConfigurationError(message string, err error) error {
	return &Error{Kind: KindConfiguration, Message: message, Err: err}
}

// StorageError wraps filesystem failures while persisting results.
func StorageError(message string, err error) error {
	return &Error{Kind: KindStorage, Message: message, Err: err}
}

// IsKind reports whether err is (or wraps) a grader Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
