package handlers

import (
	"errors"
	"net/http"

	"plantfriend/internal/services"
	"plantfriend/internal/sqlbuilder"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sqlbuilder.ErrEmptyPayload),
		errors.Is(err, sqlbuilder.ErrMissingPrimaryKey),
		errors.Is(err, sqlbuilder.ErrUnknownColumn):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrRowNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSnapshotNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
