package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies an error for mapping onto an HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       = "INVALID_TOKEN"
	ErrCodeExpiredToken       = "EXPIRED_TOKEN"

	// Authorization errors
	ErrCodeForbidden               = "FORBIDDEN"
	ErrCodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeConflict      = "CONFLICT"

	// Service errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is the error value returned by services and mapped onto responses.
type APIError struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []FieldError
}

// Error implements the error interface
func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s %s", e.Message, e.Fields[0].Field, e.Fields[0].Message)
}

// Status returns the HTTP status for the error kind.
// Conflicts answer 400 to stay compatible with existing clients.
func (e *APIError) Status() int {
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// NewAPIError creates a new APIError
func NewAPIError(kind Kind, code, message string) *APIError {
	return &APIError{Kind: kind, Code: code, Message: message}
}

// Validation builds a validation error from field messages.
func Validation(fields ...FieldError) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Code:    ErrCodeInvalidInput,
		Message: "Validation failed",
		Fields:  fields,
	}
}

// Constructors for the common kinds.
func NotFound(message string) *APIError {
	return NewAPIError(KindNotFound, ErrCodeNotFound, message)
}

func Forbidden(message string) *APIError {
	return NewAPIError(KindForbidden, ErrCodeForbidden, message)
}

func Conflict(message string) *APIError {
	return NewAPIError(KindConflict, ErrCodeConflict, message)
}

func Unauthorized(code, message string) *APIError {
	return NewAPIError(KindUnauthorized, code, message)
}

func BadRequest(message string) *APIError {
	return NewAPIError(KindValidation, ErrCodeInvalidInput, message)
}

// Predefined errors
var (
	ErrUnauthorized  = Unauthorized(ErrCodeUnauthorized, "Not authorized to access this route")
	ErrForbidden     = Forbidden("Access denied")
	ErrNotFound      = NotFound("Resource not found")
	ErrInvalidInput  = BadRequest("Invalid request body")
	ErrInternalError = NewAPIError(KindInternal, ErrCodeInternalError, "Internal server error")
)

// As extracts an *APIError from err's chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an APIError of the given kind.
func IsKind(err error, kind Kind) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Kind == kind
}

// Body is the response envelope shared by every endpoint.
type Body struct {
	Success bool         `json:"success"`
	Data    interface{}  `json:"data,omitempty"`
	Count   *int64       `json:"count,omitempty"`
	Token   string       `json:"token,omitempty"`
	User    interface{}  `json:"user,omitempty"`
	Message string       `json:"message,omitempty"`
	Code    string       `json:"code,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, err *APIError) {
	c.JSON(err.Status(), Body{
		Success: false,
		Message: err.Message,
		Code:    err.Code,
		Errors:  err.Fields,
	})
}

// Respond maps any error onto the envelope. Errors outside the taxonomy are
// reported as internal without leaking their message; the cause is attached
// to the gin context so the request logger can record it.
func Respond(c *gin.Context, err error) {
	if apiErr, ok := As(err); ok && apiErr.Kind != KindInternal {
		RespondWithError(c, apiErr)
		return
	}
	_ = c.Error(err)
	RespondWithError(c, ErrInternalError)
}

// Helper functions for common error responses

// RespondUnauthorized sends a 401 response
func RespondUnauthorized(c *gin.Context, code, message string) {
	if message == "" {
		message = ErrUnauthorized.Message
	}
	if code == "" {
		code = ErrCodeUnauthorized
	}
	RespondWithError(c, Unauthorized(code, message))
}

// RespondForbidden sends a 403 response
func RespondForbidden(c *gin.Context, message string) {
	if message == "" {
		message = ErrForbidden.Message
	}
	RespondWithError(c, NewAPIError(KindForbidden, ErrCodeInsufficientPermissions, message))
}

// RespondNotFound sends a 404 response
func RespondNotFound(c *gin.Context, message string) {
	if message == "" {
		message = ErrNotFound.Message
	}
	RespondWithError(c, NotFound(message))
}

// RespondBadRequest sends a 400 response
func RespondBadRequest(c *gin.Context, message string) {
	if message == "" {
		message = ErrInvalidInput.Message
	}
	RespondWithError(c, BadRequest(message))
}

// OK sends a 200 response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Created sends a 201 response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// List sends a 200 response with data and a count.
func List(c *gin.Context, data interface{}, count int64) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data, Count: &count})
}
