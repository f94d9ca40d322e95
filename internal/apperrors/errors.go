package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates a uniqueness violation or a dependency that blocks the operation.
var ErrConflict = errors.New("conflict")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = fmt.Errorf("resource already exists: %w", ErrConflict)

// ErrUnauthorized indicates a missing or unusable credential.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates an authenticated actor lacking the required capability or scope.
var ErrForbidden = errors.New("forbidden")

// ErrStore indicates an unclassified failure of the underlying data store.
var ErrStore = errors.New("store failure")

// Authentication specific errors. All of them classify as ErrUnauthorized.
var (
	ErrTokenExpired        = fmt.Errorf("token has expired: %w", ErrUnauthorized)
	ErrTokenInvalid        = fmt.Errorf("token is invalid: %w", ErrUnauthorized)
	ErrInvalidRefreshToken = fmt.Errorf("invalid refresh token: %w", ErrUnauthorized)
	ErrRefreshTokenExpired = fmt.Errorf("refresh token has expired: %w", ErrUnauthorized)
	ErrInvalidCredentials  = fmt.Errorf("invalid username or password: %w", ErrUnauthorized)
	ErrAccountLocked       = fmt.Errorf("account is locked: %w", ErrUnauthorized)
)

// Kind is the stable classification rendered to API callers.
type Kind string

const (
	KindValidation    Kind = "VALIDATION_ERROR"
	KindAuth          Kind = "AUTH_ERROR"
	KindTokenExpired  Kind = "TOKEN_EXPIRED"
	KindTokenInvalid  Kind = "TOKEN_INVALID"
	KindAccountLocked Kind = "ACCOUNT_LOCKED"
	KindForbidden     Kind = "FORBIDDEN"
	KindNotFound      Kind = "NOT_FOUND"
	KindConflict      Kind = "CONFLICT"
	KindStore         Kind = "STORE_ERROR"
)

// AppError carries an HTTP status, a user facing message and the wrapped cause.
type AppError struct {
	Code    int    `json:"-"`
	Kind    Kind   `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError; kind is derived from err when possible.
func NewAppError(code int, message string, err error) *AppError {
	kind := KindStore
	if err != nil {
		kind = KindOf(err)
	}
	return &AppError{Code: code, Kind: kind, Message: message, Err: err}
}

func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindValidation, Message: message, Err: ErrValidation}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: resource + " not found", Err: ErrNotFound}
}

// NewMissingReferenceError reports a referenced entity that does not exist, keeping message as is.
func NewMissingReferenceError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: message, Err: ErrNotFound}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: message, Err: ErrConflict}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Kind: KindForbidden, Message: message, Err: ErrForbidden}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Kind: KindAuth, Message: message, Err: ErrUnauthorized}
}

func NewInternalServerError(message string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Kind: KindStore, Message: message, Err: errors.Join(ErrStore, err)}
}

// KindOf classifies any error produced by the application.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != "" && appErr.Kind != KindStore {
		return appErr.Kind
	}
	switch {
	case errors.Is(err, ErrTokenExpired), errors.Is(err, ErrRefreshTokenExpired):
		return KindTokenExpired
	case errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrInvalidRefreshToken):
		return KindTokenInvalid
	case errors.Is(err, ErrAccountLocked):
		return KindAccountLocked
	case errors.Is(err, ErrUnauthorized):
		return KindAuth
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindStore
	}
}

// StatusFor maps an error to the HTTP status used in responses.
func StatusFor(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth, KindTokenExpired, KindTokenInvalid:
		return http.StatusUnauthorized
	case KindAccountLocked:
		return http.StatusLocked
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

// MessageOf returns the user facing message of err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
