package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/heladeria/inventory-api/internal/core/domain"
)

const (
	ctxIdentityKey = "auth.identity"
	ctxAuthErrKey  = "auth.error"
)

// IdentityFrom returns the identity resolved for this request, if any.
func IdentityFrom(c echo.Context) (*domain.Identity, bool) {
	id, ok := c.Get(ctxIdentityKey).(*domain.Identity)
	return id, ok && id != nil
}

// identityOrError reports the identity or why there is none. A rejected token
// is reported as such rather than as a plain missing credential.
func identityOrError(c echo.Context) (*domain.Identity, error) {
	if id, ok := IdentityFrom(c); ok {
		return id, nil
	}
	if err, ok := c.Get(ctxAuthErrKey).(error); ok && err != nil {
		return nil, err
	}
	return nil, domain.ErrUnauthenticated
}

// SetIdentity stores id on the request context. Tests and Identify use it.
func SetIdentity(c echo.Context, id *domain.Identity) {
	c.Set(ctxIdentityKey, id)
}

func setAuthError(c echo.Context, err error) {
	c.Set(ctxAuthErrKey, err)
}

func sourceLabel(err error, id *domain.Identity) string {
	if id != nil {
		return string(id.Source)
	}
	if errors.Is(err, domain.ErrTokenExpired) || errors.Is(err, domain.ErrTokenMalformed) {
		return string(domain.SourceToken)
	}
	return "none"
}
