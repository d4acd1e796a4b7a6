package types

import "net/http"

// AppError is the error type handlers translate to HTTP responses.
// Detail is the caller-visible message.
type AppError struct {
	Detail     string
	StatusCode int
}

func (e *AppError) Error() string {
	return e.Detail
}

func NewValidationError(detail string) *AppError {
	return &AppError{Detail: detail, StatusCode: http.StatusBadRequest}
}

func NewNotFoundError(detail string) *AppError {
	return &AppError{Detail: detail, StatusCode: http.StatusNotFound}
}

func NewServiceError(detail string) *AppError {
	return &AppError{Detail: detail, StatusCode: http.StatusInternalServerError}
}
