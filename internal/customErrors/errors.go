package customerrors

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
)

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`

	conflict bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

var (
	ErrAlreadyExists      = &Error{Code: http.StatusBadRequest, Message: "already exists", conflict: true}
	ErrEmailAlreadyExists = &Error{Code: http.StatusBadRequest, Message: "user already registered", conflict: true}
	ErrInvalidCredentials = &Error{Code: http.StatusUnauthorized, Message: "incorrect email or password"}
	ErrInvalidToken       = &Error{Code: http.StatusUnauthorized, Message: "could not validate credentials"}
	// A valid token whose subject no longer exists is reported as an
	// authentication failure, not as a missing resource.
	ErrUserNotFound    = &Error{Code: http.StatusUnauthorized, Message: "user not found"}
	ErrBadRequest      = &Error{Code: http.StatusBadRequest, Message: "bad request"}
	ErrNotFound        = &Error{Code: http.StatusNotFound, Message: "not found"}
	ErrTooManyRequests = &Error{Code: http.StatusTooManyRequests, Message: "too many requests"}
	ErrInternalServer  = &Error{Code: http.StatusInternalServerError, Message: "internal server error"}
	ErrDbUnreacheable  = &Error{Code: http.StatusServiceUnavailable, Message: "database unreachable"}
)

// Conflict returns an AlreadyExists-class error naming the conflicting entity.
func Conflict(entity string) *Error {
	return &Error{Code: ErrAlreadyExists.Code, Message: entity + " already exists", conflict: true}
}

// Missing returns a NotFound-class error naming the missing entity.
func Missing(entity string) *Error {
	return &Error{Code: ErrNotFound.Code, Message: entity + " not found"}
}

// Invalid returns a BadRequest-class error with a caller-facing reason.
func Invalid(reason string) *Error {
	return &Error{Code: ErrBadRequest.Code, Message: reason}
}

// IsClientError reports whether err carries a typed 4xx failure.
func IsClientError(err error) bool {
	var customErr *Error
	return errors.As(err, &customErr) && customErr.Code < http.StatusInternalServerError
}

func GetStatus(err error) int {
	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Code
	}
	return http.StatusInternalServerError
}

func GetMessage(err error) string {
	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Message
	}
	return ErrInternalServer.Message
}

// IsConflict reports whether err is an AlreadyExists-class failure.
func IsConflict(err error) bool {
	var customErr *Error
	return errors.As(err, &customErr) && customErr.conflict
}

func GetGRPCCode(err error) codes.Code {
	if IsConflict(err) {
		return codes.AlreadyExists
	}
	switch GetStatus(err) {
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusTooManyRequests:
		return codes.ResourceExhausted
	case http.StatusServiceUnavailable:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}
