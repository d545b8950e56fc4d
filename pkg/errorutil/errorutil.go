package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to API callers.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeConflict        = "CONFLICT"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeStoreFailure    = "STORE_FAILURE"
)

// Sentinels for errors.Is; they match any DomainError carrying the same code.
var (
	ErrNotFound        = &DomainError{Code: CodeNotFound}
	ErrInvalidArgument = &DomainError{Code: CodeInvalidArgument}
	ErrConflict        = &DomainError{Code: CodeConflict}
	ErrUnauthorized    = &DomainError{Code: CodeUnauthorized}
	ErrStoreFailure    = &DomainError{Code: CodeStoreFailure}
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
	// cause is the text of an error deliberately cut from the chain.
	cause string
}

func (e *DomainError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.cause != "":
		return e.Message + ": " + e.cause
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewInvalidArgument(message string, details map[string]any) error {
	return NewDomainError(CodeInvalidArgument, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

// NewStoreFailure hides err from callers. Only its text survives, in Error(),
// for logs; Unwrap never reaches the driver error.
func NewStoreFailure(err error) error {
	domainErr := &DomainError{
		Code:       CodeStoreFailure,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
	}
	if err != nil {
		domainErr.cause = err.Error()
	}
	return domainErr
}

// ToDomainError converts generic errors to DomainError. Anything unknown
// becomes a store failure.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return NewStoreFailure(err).(*DomainError)
}
