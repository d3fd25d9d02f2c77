package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// GenerationError indicates the text provider failed while generating
// document content. Pages written before the failure stay persisted; the
// caller decides whether to retry.
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string   { return e.Message }
func (e *GenerationError) Unwrap() error   { return e.Cause }
func (e *GenerationError) StatusCode() int { return http.StatusBadGateway }

// RefinementError indicates the text provider failed while refining a
// section. Nothing is persisted on this path.
type RefinementError struct {
	Message string
	Cause   error
}

func (e *RefinementError) Error() string   { return e.Message }
func (e *RefinementError) Unwrap() error   { return e.Cause }
func (e *RefinementError) StatusCode() int { return http.StatusBadGateway }

// ExportError indicates a document renderer failed to produce output.
type ExportError struct {
	Message string
	Cause   error
}

func (e *ExportError) Error() string   { return e.Message }
func (e *ExportError) Unwrap() error   { return e.Cause }
func (e *ExportError) StatusCode() int { return http.StatusInternalServerError }
