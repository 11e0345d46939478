package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/heladeria/inventory-api/internal/api/apierr"
	"github.com/heladeria/inventory-api/internal/api/middleware"
	"github.com/heladeria/inventory-api/internal/core/domain"
)

// ctxIdentity returns the identity resolved by middleware.Identify. Routes
// calling it sit behind RequireAuth or RequireRoles, so a missing identity
// means the route was wired without a guard.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return id, nil
}

// isAdmin reports whether the caller, if any, holds the admin role.
func isAdmin(c echo.Context) bool {
	id, ok := middleware.IdentityFrom(c)
	return ok && id.Roles.Has(domain.RoleAdmin)
}

// displayName is how greetings address the caller. Token identities carry
// only the user id.
func displayName(id *domain.Identity) string {
	if id.Username != "" {
		return id.Username
	}
	return fmt.Sprintf("user %d", id.UserID)
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (int64, error) {
	var id int64
	if err := echo.PathParamsBinder(c).MustInt64("id", &id).BindError(); err != nil {
		return 0, fmt.Errorf("%w: id must be an integer", domain.ErrInvalidInput)
	}
	return id, nil
}

// respondError writes known domain errors as a JSON envelope. Anything else
// is returned so the central error handler logs it and answers 500.
func respondError(c echo.Context, err error) error {
	code, msg, ok := apierr.Resolve(err)
	if !ok {
		return err
	}
	return c.JSON(code, errorResponse{Error: msg})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
