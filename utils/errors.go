package utils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindInternal     ErrorKind = "internal"
)

// Reasons attached to authentication and authorization failures.
const (
	ReasonNoSession        = "NoSession"
	ReasonNoToken          = "NoToken"
	ReasonNoCredentials    = "NoCredentials"
	ReasonInvalidToken     = "InvalidToken"
	ReasonIdentityMismatch = "IdentityMismatch"
)

const (
	internalErrorMessage = "Something went wrong!"
	conflictMessage      = "Resource already exists"
)

// AppError is an error with a client-facing status and message. The wrapped
// Err is for logs only and never reaches the response body.
type AppError struct {
	Status  int
	Kind    ErrorKind
	Reason  string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Body is the JSON payload written for this error.
func (e *AppError) Body() fiber.Map {
	body := fiber.Map{"error": e.Message}
	if len(e.Fields) > 0 {
		body["errors"] = e.Fields
	}
	return body
}

func NewValidationError(err error) *AppError {
	appErr := &AppError{
		Status:  fiber.StatusBadRequest,
		Kind:    KindValidation,
		Message: "Validation failed",
		Err:     err,
	}
	var fields ValidationErrors
	if errors.As(err, &fields) {
		appErr.Fields = fields
	}
	return appErr
}

func BadRequest(message string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Kind: KindValidation, Message: message}
}

func Unauthorized(reason, message string) *AppError {
	return &AppError{Status: fiber.StatusUnauthorized, Kind: KindUnauthorized, Reason: reason, Message: message}
}

func Forbidden(reason, message string) *AppError {
	return &AppError{Status: fiber.StatusForbidden, Kind: KindForbidden, Reason: reason, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Status: fiber.StatusNotFound, Kind: KindNotFound, Message: message}
}

// Conflict answers 400: duplicates are reported to clients as bad requests.
// An empty message falls back to a generic one.
func Conflict(message string) *AppError {
	if message == "" {
		message = conflictMessage
	}
	return &AppError{Status: fiber.StatusBadRequest, Kind: KindConflict, Message: message}
}

func Internal(err error) *AppError {
	return &AppError{Status: fiber.StatusInternalServerError, Kind: KindInternal, Message: internalErrorMessage, Err: err}
}

// AsAppError unwraps err into an AppError, defaulting to Internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code >= fiber.StatusInternalServerError {
			return Internal(err)
		}
		return &AppError{Status: fiberErr.Code, Kind: kindForStatus(fiberErr.Code), Message: fiberErr.Message}
	}
	return Internal(err)
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case fiber.StatusUnauthorized:
		return KindUnauthorized
	case fiber.StatusForbidden:
		return KindForbidden
	case fiber.StatusNotFound:
		return KindNotFound
	case fiber.StatusConflict:
		return KindConflict
	default:
		return KindValidation
	}
}
