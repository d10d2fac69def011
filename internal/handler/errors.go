package handler

import (
	"net/http"

	"rpl-backend/pkg/apperr"
)

// httpStatus maps the app error taxonomy to HTTP status codes in one
// place. Anything unclassified is a 500.
func httpStatus(err error) int {
	kind, ok := apperr.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
