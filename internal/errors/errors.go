package errors

import "fmt"

// Error codes
const (
	ErrCodeUnauthorized           = "UNAUTHORIZED"
	ErrCodeNotFound               = "NOT_FOUND"
	ErrCodeValidation             = "VALIDATION_ERROR"
	ErrCodeInternal               = "INTERNAL_ERROR"
	ErrCodeBadRequest             = "BAD_REQUEST"
	ErrCodeInsufficientCandidates = "INSUFFICIENT_CANDIDATES"
	ErrCodeInvalidCycleState      = "INVALID_CYCLE_STATE"
	ErrCodeNoActiveCycle          = "NO_ACTIVE_CYCLE"
	ErrCodeSetNotFound            = "SET_NOT_FOUND"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "INVALID_CYCLE_STATE")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewUnauthorizedError creates a new UNAUTHORIZED error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Status:  401,
	}
}

// NewInsufficientCandidatesError reports a catalog that cannot satisfy a
// set request. Callers get this instead of a silently short set.
func NewInsufficientCandidatesError(want, have int) *AppError {
	return &AppError{
		Code:    ErrCodeInsufficientCandidates,
		Message: fmt.Sprintf("catalog has %d matching puzzles, need %d", have, want),
		Status:  422,
	}
}

// NewInvalidCycleStateError rejects out-of-order, duplicate, or misrouted
// attempt submissions.
func NewInvalidCycleStateError(reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidCycleState,
		Message: reason,
		Status:  409,
	}
}

// NewNoActiveCycleError creates a new NO_ACTIVE_CYCLE error
func NewNoActiveCycleError(setID int64) *AppError {
	return &AppError{
		Code:    ErrCodeNoActiveCycle,
		Message: fmt.Sprintf("no active cycle for set %d", setID),
		Status:  409,
	}
}

// NewSetNotFoundError creates a new SET_NOT_FOUND error
func NewSetNotFoundError(setID int64) *AppError {
	return &AppError{
		Code:    ErrCodeSetNotFound,
		Message: fmt.Sprintf("puzzle set not found: %d", setID),
		Status:  404,
	}
}
