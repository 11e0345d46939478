package domain

import "errors"

// Authentication and authorization failures.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenMalformed     = errors.New("invalid token")
	ErrForbidden          = errors.New("access forbidden")
)

// Credential store failures.
var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
)

// Inventory failures.
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidInput       = errors.New("invalid input")
)
