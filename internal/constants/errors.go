package constants

import "fmt"

// Error type labels surfaced in operator-facing result DTOs.
const (
	ErrTypeValidation      = "validation_error"
	ErrTypeNotFound        = "not_found"
	ErrTypeAuthorization   = "authorization_error"
	ErrTypeExternalService = "external_service_error"
	ErrTypePersistence     = "persistence_error"
)

// ValidationError covers rejected counter values, missing OCR values and
// invalid overhaul anchors.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError covers missing aircraft, pilots, submissions and components.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// AuthorizationError covers non-admin attempts at manual review, overhaul
// registration and counter corrections.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

func NewAuthorizationError(format string, args ...interface{}) *AuthorizationError {
	return &AuthorizationError{Message: fmt.Sprintf(format, args...)}
}

// ExternalServiceError wraps OCR adapter failures. Callers treat it as a
// per-image soft failure (confidence 0), never as fatal for a submission.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// PersistenceError wraps a failed transaction commit. Fatal for the
// operation in progress.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
