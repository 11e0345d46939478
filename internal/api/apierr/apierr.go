// Package apierr maps domain errors onto HTTP responses.
package apierr

import (
	"errors"
	"net/http"

	"github.com/heladeria/inventory-api/internal/core/domain"
)

// Response is the canonical error envelope for all API errors.
type Response struct {
	Error string `json:"error"`
}

// Resolve returns the status code and client-safe message for a known domain
// error. ok is false for errors that must not be shown to the client.
func Resolve(err error) (code int, msg string, ok bool) {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, "token expired", true
	case errors.Is(err, domain.ErrTokenMalformed):
		return http.StatusUnauthorized, "invalid token", true
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication required", true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials", true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden", true
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists", true
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found", true
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "product not found", true
	case errors.Is(err, domain.ErrIngredientNotFound):
		return http.StatusNotFound, "ingredient not found", true
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error(), true
	}
	return http.StatusInternalServerError, "internal server error", false
}
