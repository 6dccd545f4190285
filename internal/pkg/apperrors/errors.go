package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")
	ErrInvalidReference      = errors.New("referenced resource does not exist")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Upstream collaborator errors (auth provider, object store)
	ErrUpstream = errors.New("upstream service error")
)

// Graduate errors
var (
	ErrGraduateNotFound    = NewCustomError(ErrResourceNotFound, "graduate not found")
	ErrNationalIDExists    = NewCustomError(ErrResourceAlreadyExists, "a graduate with this national ID already exists")
	ErrProfileNotFound     = NewCustomError(ErrResourceNotFound, "profile not found")
	ErrEmailAlreadyExists  = NewCustomError(ErrResourceAlreadyExists, "email already registered")
	ErrInvalidRole         = NewCustomError(ErrValidationFailed, "invalid role")
	ErrProfileHasNoAccount = NewCustomError(ErrPermissionDenied, "no profile is linked to this account")
)

// Workshop errors
var (
	ErrWorkshopNotFound  = NewCustomError(ErrResourceNotFound, "workshop not found")
	ErrWorkshopCancelled = NewCustomError(ErrValidationFailed, "workshop is cancelled")
	ErrWorkshopFull      = NewCustomError(ErrConflict, "workshop has no seats left")
	ErrInvalidSchedule   = NewCustomError(ErrValidationFailed, "end date must not be before start date")
)

// Enrollment and attendance errors
var (
	ErrEnrollmentNotFound = NewCustomError(ErrResourceNotFound, "enrollment not found")
	ErrEnrollmentExists   = NewCustomError(ErrConflict, "graduate is already enrolled in this workshop")
	ErrAttendanceNotFound = NewCustomError(ErrResourceNotFound, "attendance record not found")
)

// Area errors
var (
	ErrAreaNotFound = NewCustomError(ErrResourceNotFound, "interest area not found")
	ErrAreaExists   = NewCustomError(ErrResourceAlreadyExists, "an interest area with this name already exists")
)

// Survey errors
var (
	ErrSurveyNotFound         = NewCustomError(ErrResourceNotFound, "survey not found")
	ErrQuestionNotFound       = NewCustomError(ErrResourceNotFound, "question not found")
	ErrQuestionNotInSurvey    = NewCustomError(ErrValidationFailed, "question does not belong to this survey")
	ErrInvalidQuestionType    = NewCustomError(ErrValidationFailed, "invalid question type")
	ErrResponseAlreadyPresent = NewCustomError(ErrConflict, "graduate already answered this survey")
)

// Document errors
var (
	ErrDocumentNotFound = NewCustomError(ErrResourceNotFound, "document not found")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError creates a validation error carrying a user-facing message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// UserMessage returns the most specific user-facing message found in the error chain.
// Falls back to fallback when no CustomError is present.
func UserMessage(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
