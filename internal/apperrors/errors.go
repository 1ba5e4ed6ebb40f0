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

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrCodeTaken indicates that a generated company code or employee code collided with a stored one.
var ErrCodeTaken = errors.New("identifier already taken")

// ErrForbidden indicates that the acting principal lacks the capability for the action.
var ErrForbidden = errors.New("permission denied")

// ErrUnauthorized indicates missing or invalid authentication proof.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidTransition indicates a status change out of a terminal state.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrGenerationExhausted indicates no unique identifier was found within the retry budget.
var ErrGenerationExhausted = errors.New("identifier generation exhausted")

// ErrStoreUnavailable indicates the backing store could not be reached or failed mid-operation.
var ErrStoreUnavailable = errors.New("store unavailable")

// AppError carries an HTTP-ish status code and a user-facing message.
// Kind is one of the sentinels above so callers can keep using errors.Is.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Kind    error  `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewAppError creates an AppError with an explicit code. A 5xx code without a kind
// is treated as a store failure.
func NewAppError(code int, message string, err error) *AppError {
	appErr := &AppError{Code: code, Message: message, Err: err}
	if code >= http.StatusInternalServerError {
		appErr.Kind = ErrStoreUnavailable
	}
	return appErr
}

func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Kind: ErrValidation}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Kind: ErrValidation}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Kind: ErrNotFound}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Kind: ErrDuplicate}
}

// NewCodeTakenError reports a unique violation on a company or employee code.
func NewCodeTakenError(code string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: "code " + code + " already taken", Kind: ErrCodeTaken}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message, Kind: ErrForbidden}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: message, Kind: ErrUnauthorized}
}

func NewInternalServerError(message string) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message}
}

func NewGatewayTimeoutError(message string) *AppError {
	return &AppError{Code: http.StatusGatewayTimeout, Message: message, Kind: ErrStoreUnavailable}
}

// NewInvalidTransitionError reports an attempted move out of a non-pending status.
func NewInvalidTransitionError(entity, from, to string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: fmt.Sprintf("%s cannot move from %s to %s", entity, from, to),
		Kind:    ErrInvalidTransition,
	}
}

func NewGenerationExhaustedError(prefix string, attempts int) *AppError {
	return &AppError{
		Code:    http.StatusServiceUnavailable,
		Message: fmt.Sprintf("could not generate a unique %s code after %d attempts, please retry", prefix, attempts),
		Kind:    ErrGenerationExhausted,
	}
}

func NewStoreUnavailableError(message string, err error) *AppError {
	return &AppError{Code: http.StatusServiceUnavailable, Message: message, Kind: ErrStoreUnavailable, Err: err}
}
