// Package apperrors holds the sentinel errors services return and the
// CustomError wrapper that carries a user-facing message alongside one.
package apperrors

import "errors"

var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	ErrUnauthorized       = errors.New("not authorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrExternalService marks a weather or Farmonaut call that failed
	ErrExternalService = errors.New("external service error")
)

// Farm records
var (
	ErrCropNotFound                     = errors.New("crop not found")
	ErrFertilizerRecommendationNotFound = errors.New("fertilizer recommendation not found")
	ErrCropRecommendationNotFound       = errors.New("crop recommendation not found")
	ErrSeasonalPlanNotFound             = errors.New("seasonal plan not found")
	ErrMilestoneNotFound                = errors.New("milestone not found")
)

// CustomError pairs a sentinel with the message shown to the client
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

func (e *CustomError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *CustomError) Unwrap() error { return e.Err }

// WithDetails attaches structured context such as per-field validation messages
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewCustomError wraps err with a client message
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

// NewResourceNotFoundError is a 404 with message
func NewResourceNotFoundError(message string) error {
	return NewCustomError(ErrResourceNotFound, message)
}

// NewForbiddenError is a 403 with message, used for ownership mismatches
func NewForbiddenError(message string) error {
	return NewCustomError(ErrPermissionDenied, message)
}

// NewBadRequestError is a 400 with message
func NewBadRequestError(message string) error {
	return NewCustomError(ErrBadRequest, message)
}

// NewUnauthorizedError is a 401 with message
func NewUnauthorizedError(message string) error {
	return NewCustomError(ErrUnauthorized, message)
}

// NewValidationError is a 400 carrying field-level details
func NewValidationError(message string, details map[string]interface{}) error {
	return NewCustomError(ErrValidationFailed, message).WithDetails(details)
}

// MessageOf returns the client message of the first CustomError in the chain
func MessageOf(err error) (string, bool) {
	var custom *CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message, true
	}
	return "", false
}
