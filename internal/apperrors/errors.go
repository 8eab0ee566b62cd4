// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

// Error codes map one-to-one onto the failure modes of domain operations.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeDuplicate       = "DUPLICATE"
	CodePolicyViolation = "POLICY_VIOLATION"
	CodeOutOfStock      = "OUT_OF_STOCK"
	CodeInvalidState    = "INVALID_STATE"
	CodeNotFound        = "NOT_FOUND"
	CodeStore           = "STORE_ERROR"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func Duplicate(format string, args ...interface{}) *Error {
	return &Error{Code: CodeDuplicate, Message: fmt.Sprintf(format, args...)}
}

func PolicyViolation(format string, args ...interface{}) *Error {
	return &Error{Code: CodePolicyViolation, Message: fmt.Sprintf(format, args...)}
}

func OutOfStock(format string, args ...interface{}) *Error {
	return &Error{Code: CodeOutOfStock, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...interface{}) *Error {
	return &Error{Code: CodeInvalidState, Message: fmt.Sprintf(format, args...)}
}

func NotFound(resource string) *Error {
	return &Error{Code: CodeNotFound, Message: resource + " not found"}
}

// Store wraps a persistence failure. The original error stays reachable
// through Unwrap for logging.
func Store(err error) *Error {
	return &Error{Code: CodeStore, Message: "store operation failed", cause: err}
}

// Code returns the error code of err if it is (or wraps) an *Error,
// otherwise CodeStore.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeStore
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return Code(err) == code
}
