package api

import (
	"errors"
	"net/http"

	"clubaereo/bitacora/internal/constants"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// statusForError maps taxonomy errors to HTTP status codes. Anything outside
// the taxonomy is a server fault.
func statusForError(err error) int {
	var ve *constants.ValidationError
	var nf *constants.NotFoundError
	var ae *constants.AuthorizationError
	var ee *constants.ExternalServiceError

	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ae):
		return http.StatusForbidden
	case errors.As(err, &ee):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
