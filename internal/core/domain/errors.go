package domain

import (
	"errors"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUnavailable
	KindRateLimited
)

// Status returns the HTTP status code associated with k.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the default machine-readable code for k.
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindUnavailable:
		return "SERVICE_UNAVAILABLE"
	case KindRateLimited:
		return "RATE_LIMIT_EXCEEDED"
	default:
		return "INTERNAL_ERROR"
	}
}

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Error is the application error type. Kind and Code travel as data so the
// HTTP layer can translate without type switches on concrete errors.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches two *Error values carrying the same kind and code, so wrapped
// copies of a sentinel still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// E builds an Error of the given kind using the kind's default code.
func E(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Code: kind.Code(), Message: msg}
}

// Wrap attaches a cause to a copy of e.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.Err = err
	return &c
}

// NewValidationError returns a 400 error carrying per-field details.
func NewValidationError(fields []FieldError) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    KindValidation.Code(),
		Message: "Validation failed",
		Fields:  fields,
	}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

var (
	ErrUserNotFound       = &Error{Kind: KindNotFound, Code: "USER_NOT_FOUND", Message: "user not found"}
	ErrEmailTaken         = &Error{Kind: KindConflict, Code: "EMAIL_EXISTS", Message: "email already registered"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Code: "INVALID_CREDENTIALS", Message: "invalid email or password"}
	ErrWrongPassword      = &Error{Kind: KindUnauthorized, Code: "INVALID_PASSWORD", Message: "current password is incorrect"}
	ErrPasswordMismatch   = &Error{Kind: KindValidation, Code: "PASSWORD_MISMATCH", Message: "passwords do not match"}
	ErrForbidden          = &Error{Kind: KindForbidden, Code: "FORBIDDEN", Message: "access forbidden"}
	ErrMissingToken       = &Error{Kind: KindUnauthorized, Code: "TOKEN_MISSING", Message: "access token required"}
	ErrTokenExpired       = &Error{Kind: KindUnauthorized, Code: "TOKEN_EXPIRED", Message: "token expired"}
	ErrInvalidToken       = &Error{Kind: KindForbidden, Code: "TOKEN_INVALID", Message: "invalid token"}
	ErrRateLimited        = &Error{Kind: KindRateLimited, Code: "RATE_LIMIT_EXCEEDED", Message: "too many requests, please try again later"}
)
