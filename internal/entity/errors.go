package entity

import (
	"errors"
	"fmt"
)

var (
	// Event errors
	ErrEventNotFound    = errors.New("event not found")
	ErrEventDisabled    = errors.New("event is not enabled for registration")
	ErrDeadlinePassed   = errors.New("registration deadline has passed")
	ErrTypeMismatch     = errors.New("registration type does not match event type")
	ErrEventHasBookings = errors.New("event has existing registrations")

	// Registration errors
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrDuplicateEmail       = errors.New("email already registered for this event")
	ErrCapacityExceeded     = errors.New("not enough available spots")

	// General errors
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized access")
	ErrForbidden     = errors.New("forbidden operation")
	ErrRateLimited   = errors.New("rate limit exceeded")
	ErrDatabaseError = errors.New("database error")
)

type ErrorCode string

const (
	CodeBadRequest   ErrorCode = "BAD_REQUEST"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeRateLimited  ErrorCode = "RATE_LIMITED"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// Error is a domain error carrying a stable code and structured details for
// the response envelope. Transport maps codes to HTTP statuses.
type Error struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewBadRequest(message string) *Error {
	return &Error{Code: CodeBadRequest, Message: message}
}

func NewValidation(message string, details map[string]interface{}) *Error {
	return &Error{Code: CodeValidation, Message: message, Details: details}
}

func NewNotFound(message string, cause error) *Error {
	return &Error{Code: CodeNotFound, Message: message, Err: cause}
}

func NewConflict(message string, details map[string]interface{}) *Error {
	return &Error{Code: CodeConflict, Message: message, Details: details}
}

func NewUnauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

func NewForbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

func NewRateLimited(message string) *Error {
	return &Error{Code: CodeRateLimited, Message: message}
}

func NewInternal(message string, cause error) *Error {
	return &Error{Code: CodeInternal, Message: message, Err: cause}
}

// AsDomainError unwraps err into a *Error if one is in the chain.
func AsDomainError(err error) (*Error, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}
