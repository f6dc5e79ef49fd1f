package httpapi

import (
	"fmt"
	"net/http"
)

const (
	CodeValidation  = "validation"
	CodeNotFound    = "not_found"
	CodeTooLarge    = "too_large"
	CodeUnavailable = "unavailable"
	CodeInternal    = "internal"
)

type APIError struct {
	Code    string
	Message string
	Status  int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func statusForCode(code string) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func newError(code, message string) *APIError {
	return &APIError{Code: code, Message: message, Status: statusForCode(code)}
}

func validationError(format string, args ...any) *APIError {
	return newError(CodeValidation, fmt.Sprintf(format, args...))
}
