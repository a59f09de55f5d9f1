package http

import (
	"errors"
	"net/http"

	"posttracker/internal/pkg/errs"
)

// statusOf maps the error taxonomy onto HTTP status codes. An unavailable
// dependency is checked first because it carries its cause in the chain.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrDependencyIsUnavailable):
		return http.StatusInternalServerError
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
