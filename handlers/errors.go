package handlers

import (
	"errors"
	"net/http"

	"pubquiz/services"
)

// statusFor maps service sentinels onto HTTP statuses: absence is 404,
// refused operations are 409, bad input is 400, anything else is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrRoundNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrQuestionNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrNotSessionOwner):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSessionCompleted),
		errors.Is(err, services.ErrAlreadyAnswered),
		errors.Is(err, services.ErrRoundNotActive),
		errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrInvalidToken):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
