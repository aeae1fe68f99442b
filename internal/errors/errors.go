package errors

import (
	"fmt"
)

// APIError is the error type returned by every request handler and service
// operation that can surface to a client.
type APIError interface {
	error
	Message() string
	Code() int
	SetDetail(format string, args ...interface{}) APIError
	SetFields(fields Fields) APIError
	GetFields() Fields
	ExpectedHTTPStatus() int
	WithHTTPStatus(status int) APIError
}

type Fields map[string]interface{}

type apiError struct {
	message        string
	code           int
	fields         Fields
	expectedStatus int
}

func (e *apiError) Error() string {
	return fmt.Sprintf("[%d] %s", e.code, e.message)
}

func (e *apiError) Message() string {
	return e.message
}

func (e *apiError) Code() int {
	return e.code
}

func (e *apiError) SetDetail(format string, args ...interface{}) APIError {
	e.message = fmt.Sprintf("%s: %s", e.message, fmt.Sprintf(format, args...))
	return e
}

func (e *apiError) SetFields(fields Fields) APIError {
	if e.fields == nil {
		e.fields = Fields{}
	}

	for k, v := range fields {
		e.fields[k] = v
	}

	return e
}

func (e *apiError) GetFields() Fields {
	return e.fields
}

func (e *apiError) ExpectedHTTPStatus() int {
	return e.expectedStatus
}

func (e *apiError) WithHTTPStatus(status int) APIError {
	e.expectedStatus = status
	return e
}

func define(message string, code int, status int) func() APIError {
	return func() APIError {
		return &apiError{
			message:        message,
			code:           code,
			expectedStatus: status,
		}
	}
}

// From wraps a generic error into an APIError. Errors that are already
// APIErrors pass through untouched.
func From(err error) APIError {
	if err == nil {
		return nil
	}

	if apiErr, ok := err.(APIError); ok {
		return apiErr
	}

	return ErrInternalServerError().SetDetail(err.Error())
}

// Client errors (70xxx)
var (
	ErrUnauthorized          = define("Sign-In Required", 70401, 401)
	ErrInsufficientPrivilege = define("Insufficient Privilege", 70403, 403)
	ErrBadRequest            = define("Bad Request", 70400, 400)
	ErrBadObjectID           = define("Bad Object ID", 70410, 400)
	ErrEmptyField            = define("Empty Field", 70411, 400)
	ErrValidationRejected    = define("Validation Rejected", 70412, 400)
	ErrAlreadyExists         = define("Resource Already Exists", 70409, 409)
	ErrRateLimited           = define("Too Many Requests", 70429, 429)
)

// Not-found errors (71xxx)
var (
	ErrUnknownRoute   = define("Unknown Route", 71404, 404)
	ErrUnknownUser    = define("Unknown User", 71420, 404)
	ErrUnknownChat    = define("Unknown Chat", 71421, 404)
	ErrUnknownMessage = define("Unknown Message", 71422, 404)
	ErrUnknownFriend  = define("Unknown Friend Relation", 71423, 404)
)

// Server errors (72xxx)
var (
	ErrInternalServerError = define("Internal Server Error", 72500, 500)
	ErrPersistenceFailure  = define("Persistence Failure", 72510, 500)
	ErrMissingInternalDeps = define("Missing Internal Dependency", 72511, 500)
)
