package common

import (
	"errors"
	"net/http"
)

type Code string

const (
	CodeValidation     Code = "validation"
	CodeUnauthorized   Code = "unauthorized"
	CodeForbidden      Code = "forbidden"
	CodeNotFound       Code = "not_found"
	CodeConflict       Code = "conflict"
	CodeAlreadyApplied Code = "already_applied"
	CodeRateLimited    Code = "rate_limited"
	CodeUnavailable    Code = "unavailable"
	CodeInternal       Code = "internal"
)

// Error kinds surfaced by the services. They are wrapped inside *Error so
// callers can match with errors.Is while handlers only look at the code.
var (
	ErrMissingFields      = errors.New("missing fields")
	ErrPasswordPolicy     = errors.New("password policy violation")
	ErrPasswordMismatch   = errors.New("password mismatch")
	ErrInvalidEmailDomain = errors.New("invalid email domain")
	ErrDuplicateAccount   = errors.New("duplicate account")
	ErrAlreadyApplied     = errors.New("already applied")
	ErrFormat             = errors.New("format error")
	ErrInvalidFile        = errors.New("invalid file")
)

type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeAlreadyApplied:
		// duplicate applications have always answered 403, unlike duplicate accounts
		return http.StatusForbidden
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
