package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/heladeria/inventory-api/internal/api/apierr"
	"github.com/heladeria/inventory-api/internal/api/metrics"
	"github.com/heladeria/inventory-api/internal/auth"
	"github.com/heladeria/inventory-api/internal/core/domain"
)

// decide runs the guard for the current request. A nil roles slice only
// requires an authenticated caller.
func decide(c echo.Context, roles []domain.Role) (*domain.Identity, error) {
	id, err := identityOrError(c)
	if err == nil && roles != nil {
		err = auth.AuthorizeIdentity(id, roles...)
	}

	result := "allow"
	switch {
	case errors.Is(err, domain.ErrForbidden):
		result = "forbidden"
	case err != nil:
		result = "unauthenticated"
	}
	metrics.AuthorizationDecisionsTotal.WithLabelValues(result, sourceLabel(err, id)).Inc()
	return id, err
}

// RequireAuth rejects requests without a valid session or token with 401.
func RequireAuth() echo.MiddlewareFunc {
	return requireJSON(nil)
}

// RequireRoles admits callers holding at least one of roles. Missing or
// invalid credentials get 401, a role mismatch gets 403, both as JSON.
func RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	if roles == nil {
		roles = []domain.Role{}
	}
	return requireJSON(roles)
}

func requireJSON(roles []domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := decide(c, roles); err != nil {
				code, msg, ok := apierr.Resolve(err)
				if !ok {
					return err
				}
				return c.JSON(code, apierr.Response{Error: msg})
			}
			return next(c)
		}
	}
}

const forbiddenPage = `<!DOCTYPE html>
<html><head><title>403 Forbidden</title></head>
<body><h1>403 Forbidden</h1><p>You do not have permission to access this page.</p></body></html>`

// RequirePageRoles is the browser flavour of RequireRoles: unauthenticated
// visitors are redirected to loginPath and a role mismatch renders a 403 page.
func RequirePageRoles(loginPath string, roles ...domain.Role) echo.MiddlewareFunc {
	if roles == nil {
		roles = []domain.Role{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			_, err := decide(c, roles)
			switch {
			case err == nil:
				return next(c)
			case errors.Is(err, domain.ErrForbidden):
				return c.HTML(http.StatusForbidden, forbiddenPage)
			default:
				if _, _, ok := apierr.Resolve(err); !ok {
					return err
				}
				return c.Redirect(http.StatusSeeOther, loginPath)
			}
		}
	}
}
