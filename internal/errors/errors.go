package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"gocinema/domain/core"
)

// AppError is an error carrying a stable code for the transport layer
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap adds context to err, keeping the code of an AppError in its chain and
// classifying domain errors otherwise
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    codeOf(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode gives err a specific code
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error chain holds an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the first AppError in the chain, "UNKNOWN"
// when there is none
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeStructural      = "STRUCTURAL_ERROR"
	CodeIngestion       = "INGESTION_FAILURE"
	CodeNoDataset       = "NO_DATASET"
	CodeStaleLoad       = "STALE_LOAD"
	CodeInternalError   = "INTERNAL_ERROR"
)

// codeOf classifies err by the domain sentinel it wraps
func codeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case core.IsStructuralError(err):
		return CodeStructural
	case core.IsStaleLoad(err):
		return CodeStaleLoad
	case stderrors.Is(err, core.ErrNoDataset):
		return CodeNoDataset
	case core.IsIngestionError(err):
		return CodeIngestion
	case core.IsNotFoundError(err):
		return CodeNotFound
	case core.IsInvalidInput(err):
		return CodeInvalidInput
	default:
		return CodeInternalError
	}
}

// FromDomain turns any error into an AppError with a classified code
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Code: codeOf(err), Message: err.Error(), Cause: err}
}

// HTTPStatus maps a code to the response status
func HTTPStatus(code string) int {
	switch code {
	case CodeStructural:
		return http.StatusUnprocessableEntity
	case CodeIngestion:
		return http.StatusBadGateway
	case CodeNotFound, CodeNoDataset:
		return http.StatusNotFound
	case CodeInvalidInput, CodeValidationError:
		return http.StatusBadRequest
	case CodeStaleLoad:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func NoDataset() *AppError {
	return &AppError{Code: CodeNoDataset, Message: "no dataset loaded", Cause: core.ErrNoDataset}
}
