package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorKind is the stable category of a failure that crosses the HTTP boundary.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindRule        ErrorKind = "rule"
	KindAuth        ErrorKind = "auth"
	KindForbidden   ErrorKind = "forbidden"
	KindNotFound    ErrorKind = "notFound"
	KindConflict    ErrorKind = "conflict"
	KindPersistence ErrorKind = "persistence"
)

// AppError carries a kind, a machine-readable code and a human-readable message.
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(code, msg string) error {
	return &AppError{Kind: KindValidation, Code: code, Message: msg}
}

// NewRuleError reports a booking rule violated by an otherwise well-formed request.
func NewRuleError(code, msg string) error {
	return &AppError{Kind: KindRule, Code: code, Message: msg}
}

func NewAuthError(code, msg string) error {
	return &AppError{Kind: KindAuth, Code: code, Message: msg}
}

func NewForbiddenError(code, msg string) error {
	return &AppError{Kind: KindForbidden, Code: code, Message: msg}
}

func NewNotFoundError(code, msg string) error {
	return &AppError{Kind: KindNotFound, Code: code, Message: msg}
}

func NewConflictError(code, msg string) error {
	return &AppError{Kind: KindConflict, Code: code, Message: msg}
}

func NewPersistenceError(msg string, err error) error {
	return &AppError{Kind: KindPersistence, Code: "persistenceError", Message: msg, Err: err}
}

// KindOf returns the kind of err, or "" if err is not an AppError.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// CodeOf returns the code of err, or "" if err is not an AppError.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// StatusFor maps an error kind onto an HTTP status code.
func StatusFor(kind ErrorKind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindRule:
		return http.StatusUnprocessableEntity
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Unhandled panic", zap.Any("error", err))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error:   "Internal Server Error",
					Code:    "internalError",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, code, message, details string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Code: code, Details: details})
}

// RespondError writes err as JSON. Persistence failures never leak driver details.
func RespondError(c *gin.Context, logger *zap.Logger, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		logger.Error("Unexpected error", zap.Error(err))
		JSONError(c, http.StatusInternalServerError, "internalError", "Internal server error", "")
		return
	}

	status := StatusFor(appErr.Kind)
	if status >= http.StatusInternalServerError {
		logger.Error(appErr.Message, zap.String("code", appErr.Code), zap.Error(appErr.Err))
		JSONError(c, status, appErr.Code, appErr.Message, "")
		return
	}

	logger.Warn(appErr.Message, zap.String("code", appErr.Code))
	JSONError(c, status, appErr.Code, appErr.Message, "")
}
