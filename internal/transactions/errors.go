package transactions

import (
	"errors"
	"net/http"
)

// Domain errors for transaction operations.
var (
	ErrNotFound  = errors.New("transaction not found")
	ErrMissingID = errors.New("transaction id is required")
)

// MapHTTPStatus maps transaction domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrMissingID) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
