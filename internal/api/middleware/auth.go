package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/heladeria/inventory-api/internal/api/metrics"
	"github.com/heladeria/inventory-api/internal/core/domain"
)

// TokenHeader carries the access token on API requests.
const TokenHeader = "x-access-token"

// IdentityResolver turns request credentials into an identity.
type IdentityResolver interface {
	ResolveSession(ctx context.Context, sessionID string) (domain.Identity, error)
	ResolveToken(token string) (domain.Identity, error)
}

// Identify resolves the caller of every request. An x-access-token header
// takes precedence over the session cookie: when it is present but cannot be
// verified the request stays unauthenticated even if a valid cookie is sent.
// Routes that need an identity enforce it with RequireAuth or RequireRoles.
func Identify(resolver IdentityResolver, cookieName string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := strings.TrimSpace(c.Request().Header.Get(TokenHeader)); raw != "" {
				id, err := resolver.ResolveToken(raw)
				switch {
				case err == nil:
					metrics.TokensDecodedTotal.WithLabelValues("ok").Inc()
					SetIdentity(c, &id)
				case errors.Is(err, domain.ErrTokenExpired):
					metrics.TokensDecodedTotal.WithLabelValues("expired").Inc()
					setAuthError(c, err)
				default:
					metrics.TokensDecodedTotal.WithLabelValues("invalid").Inc()
					setAuthError(c, err)
				}
				return next(c)
			}

			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			id, err := resolver.ResolveSession(c.Request().Context(), cookie.Value)
			switch {
			case err == nil:
				SetIdentity(c, &id)
			case errors.Is(err, domain.ErrUnauthenticated):
				// stale cookie: treat as anonymous
			default:
				log.Error().Err(err).Str("path", c.Path()).Msg("session lookup failed")
				setAuthError(c, err)
			}
			return next(c)
		}
	}
}
