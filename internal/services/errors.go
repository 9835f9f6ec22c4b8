package services

import "errors"

type ErrorCode string

const (
	ErrorMissing            ErrorCode = "missing"
	ErrorInvalidInput       ErrorCode = "invalid_input"
	ErrorConflict           ErrorCode = "conflict"
	ErrorNotFound           ErrorCode = "not_found"
	ErrorUnauthorized       ErrorCode = "unauthorized"
	ErrorForbidden          ErrorCode = "forbidden"
	ErrorInvalidCredentials ErrorCode = "invalid_credentials"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewMissingError(msg string) error      { return &ServiceError{Code: ErrorMissing, Message: msg} }
func NewInvalidInputError(msg string) error { return &ServiceError{Code: ErrorInvalidInput, Message: msg} }
func NewConflictError(msg string) error     { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewNotFoundError(msg string) error     { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewForbiddenError(msg string) error    { return &ServiceError{Code: ErrorForbidden, Message: msg} }

func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

func NewInvalidCredentialsError(msg string) error {
	return &ServiceError{Code: ErrorInvalidCredentials, Message: msg}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
